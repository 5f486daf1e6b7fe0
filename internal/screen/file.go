package screen

import (
	"fmt"
	"image"
	"image/draw"
)

// Crop copies a rectangle of src into a new image anchored at the origin.
// The rectangle must lie within src.
func Crop(src image.Image, x, y, width, height int) (image.Image, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid region size %dx%d", width, height)
	}
	b := src.Bounds()
	rect := image.Rect(b.Min.X+x, b.Min.Y+y, b.Min.X+x+width, b.Min.Y+y+height)
	if !rect.In(b) && !rect.Empty() {
		return nil, fmt.Errorf("region %dx%d+%d+%d outside screen %dx%d", width, height, x, y, b.Dx(), b.Dy())
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}

// FileCapturer serves regions from a saved screenshot instead of a live screen
type FileCapturer struct {
	img image.Image
}

// NewFileCapturer loads the screenshot at path
func NewFileCapturer(path string) (*FileCapturer, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	return &FileCapturer{img: img}, nil
}

// NewImageCapturer serves regions from an in-memory image
func NewImageCapturer(img image.Image) *FileCapturer {
	return &FileCapturer{img: img}
}

// CaptureRegion implements Capturer
func (f *FileCapturer) CaptureRegion(x, y, width, height int) (image.Image, error) {
	return Crop(f.img, x, y, width, height)
}

// Size returns the dimensions of the underlying screenshot
func (f *FileCapturer) Size() (int, int) {
	return f.img.Bounds().Dx(), f.img.Bounds().Dy()
}
