package filesystem

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/jeeftor/qmp-macro/internal/screen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveImageRoundTrip(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 6, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(40 * x), G: uint8(60 * y), B: 9, A: 255})
		}
	}

	dir := t.TempDir()
	for _, name := range []string{"ref.png", "nested/dir/ref.ppm"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, SaveImage(path, img))
			require.NoError(t, CheckFileExists(path))

			loaded, err := screen.LoadImage(path)
			require.NoError(t, err)
			assert.Equal(t, 1.0, screen.MatchRatio(img, loaded))
		})
	}
}

func TestSaveImageUnsupported(t *testing.T) {
	err := SaveImage(filepath.Join(t.TempDir(), "ref.bmp"), image.NewNRGBA(image.Rect(0, 0, 1, 1)))
	assert.Error(t, err)
}

func TestCheckFileExists(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, CheckFileExists(filepath.Join(dir, "missing")))
	assert.Error(t, CheckFileExists(dir))
}

func TestIsImageFile(t *testing.T) {
	assert.True(t, IsImageFile("a.PNG"))
	assert.True(t, IsImageFile("a.jpeg"))
	assert.False(t, IsImageFile("a.macro"))
	assert.Equal(t, "ppm", GetFileExtension("/x/y.PPM"))
}
