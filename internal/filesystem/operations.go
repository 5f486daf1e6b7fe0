package filesystem

import (
	"bufio"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeeftor/qmp-macro/internal/logging"
	"github.com/spakin/netpbm"
)

// EnsureDirectory creates a directory and all necessary parent directories
func EnsureDirectory(path string) error {
	if path == "." || path == "" {
		return nil // Current directory always exists
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return err
	}
	logging.Debug("Ensured directory", "path", path)
	return nil
}

// EnsureDirectoryForFile creates the parent directory for a given file path
func EnsureDirectoryForFile(filePath string) error {
	return EnsureDirectory(filepath.Dir(filePath))
}

// CheckFileExists verifies that a file exists and is readable
func CheckFileExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file '%s' does not exist", path)
		}
		return fmt.Errorf("cannot access file '%s': %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("'%s' is a directory", path)
	}
	return nil
}

// GetFileExtension returns the lower-case extension without the dot
func GetFileExtension(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// IsImageFile reports whether path has an extension SaveImage can write
func IsImageFile(path string) bool {
	switch GetFileExtension(path) {
	case "png", "ppm", "jpg", "jpeg":
		return true
	}
	return false
}

// SaveImage encodes img by the extension of path (png, ppm, jpg), creating
// parent directories as needed
func SaveImage(path string, img image.Image) error {
	if !IsImageFile(path) {
		return fmt.Errorf("unsupported image format %q (use .png, .ppm or .jpg)", filepath.Ext(path))
	}
	if err := EnsureDirectoryForFile(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)

	switch GetFileExtension(path) {
	case "png":
		err = png.Encode(w, img)
	case "ppm":
		err = netpbm.Encode(w, img, &netpbm.EncodeOptions{Format: netpbm.PPM, MaxValue: 255})
	default:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
