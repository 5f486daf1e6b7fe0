package screen

import (
	"bufio"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/spakin/netpbm"
)

// LoadImage opens and decodes an image file. Netpbm (PPM/PGM/PBM) is tried
// first since that is what QEMU screendumps produce, then the standard decoders.
func LoadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer file.Close()

	img, err := DecodeImage(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// DecodeImage decodes a netpbm or standard-library-supported image
func DecodeImage(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err != nil {
		return nil, err
	}
	if magic[0] == 'P' && magic[1] >= '1' && magic[1] <= '7' {
		return netpbm.Decode(br, nil)
	}
	img, _, err := image.Decode(br)
	return img, err
}

// ImageCache loads each reference image once per process
type ImageCache struct {
	load   func(string) (image.Image, error)
	images map[string]image.Image
}

// NewImageCache creates an empty cache backed by LoadImage
func NewImageCache() *ImageCache {
	return &ImageCache{
		load:   LoadImage,
		images: make(map[string]image.Image),
	}
}

// Load returns the cached image for path, loading it on first use
func (c *ImageCache) Load(path string) (image.Image, error) {
	if img, ok := c.images[path]; ok {
		return img, nil
	}
	img, err := c.load(path)
	if err != nil {
		return nil, err
	}
	c.images[path] = img
	return img, nil
}

// Len returns the number of cached images
func (c *ImageCache) Len() int {
	return len(c.images)
}
