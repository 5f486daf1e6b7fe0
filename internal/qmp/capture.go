package qmp

import (
	"bufio"
	"fmt"
	"image"
	"os"

	"github.com/jeeftor/qmp-macro/internal/screen"
	"github.com/spakin/netpbm"
)

// Screen takes a screendump and decodes it
func (q *Client) Screen() (image.Image, error) {
	tempFile, err := os.CreateTemp("", "qmp-screenshot-*.ppm")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tempPath := tempFile.Name()
	tempFile.Close()
	defer os.Remove(tempPath)

	if err := q.ScreenDump(tempPath, ""); err != nil {
		return nil, err
	}

	f, err := os.Open(tempPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open screendump: %w", err)
	}
	defer f.Close()

	img, err := netpbm.Decode(bufio.NewReader(f), &netpbm.DecodeOptions{
		Target: netpbm.PPM,
		Exact:  false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode screendump: %w", err)
	}

	if !q.sizeFixed {
		b := img.Bounds()
		q.width, q.height = b.Dx(), b.Dy()
	}
	return img, nil
}

// CaptureRegion returns a region of the live screen anchored at the origin
func (q *Client) CaptureRegion(x, y, width, height int) (image.Image, error) {
	img, err := q.Screen()
	if err != nil {
		return nil, err
	}
	return screen.Crop(img, x, y, width, height)
}

// SetScreenSize fixes the size used for absolute pointer scaling.
// Later screendumps no longer change it.
func (q *Client) SetScreenSize(width, height int) {
	q.width, q.height = width, height
	q.sizeFixed = true
}

// ScreenSize returns the guest screen size, probing it with a screendump
// the first time unless SetScreenSize was called
func (q *Client) ScreenSize() (int, int, error) {
	if q.width > 0 && q.height > 0 {
		return q.width, q.height, nil
	}
	if _, err := q.Screen(); err != nil {
		return 0, 0, fmt.Errorf("failed to probe screen size: %w", err)
	}
	q.logger.Debug("Probed screen size", "width", q.width, "height", q.height)
	return q.width, q.height, nil
}
