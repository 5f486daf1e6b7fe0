package constants

import "fmt"

// Bounds for a configured guest screen size
const (
	MinScreenWidth  = 1
	MinScreenHeight = 1

	MaxScreenWidth  = 16384
	MaxScreenHeight = 16384
)

// ValidateScreenDimensions validates that screen dimensions are within reasonable bounds
func ValidateScreenDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("screen dimensions must be positive integers")
	}

	if width < MinScreenWidth || height < MinScreenHeight {
		return fmt.Errorf("screen dimensions too small: minimum %dx%d", MinScreenWidth, MinScreenHeight)
	}

	if width > MaxScreenWidth || height > MaxScreenHeight {
		return fmt.Errorf("screen dimensions too large: maximum %dx%d", MaxScreenWidth, MaxScreenHeight)
	}

	return nil
}
