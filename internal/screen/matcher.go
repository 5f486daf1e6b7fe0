package screen

import (
	"fmt"
	"image"
	"image/color"

	"github.com/jeeftor/qmp-macro/internal/logging"
)

// Capturer returns the live pixels of a screen rectangle.
// The returned image has its bounds at the origin and the requested size.
type Capturer interface {
	CaptureRegion(x, y, width, height int) (image.Image, error)
}

// Matcher compares reference images against live screen regions
type Matcher struct {
	capturer Capturer
	images   *ImageCache
	logger   *logging.ContextualLogger
}

// NewMatcher creates a matcher that captures through c and loads reference
// images through cache. A nil cache gets a fresh one.
func NewMatcher(c Capturer, cache *ImageCache) *Matcher {
	if cache == nil {
		cache = NewImageCache()
	}
	return &Matcher{
		capturer: c,
		images:   cache,
		logger:   logging.NewContextualLogger("", "screen_matcher"),
	}
}

// Match captures the region and returns the fraction of pixels that are
// identical to ref. A reference whose size differs from the region is a
// total non-match, not an error.
func (m *Matcher) Match(ref image.Image, x, y, width, height int) (float64, error) {
	captured, err := m.capturer.CaptureRegion(x, y, width, height)
	if err != nil {
		return 0, fmt.Errorf("failed to capture region %dx%d+%d+%d: %w", width, height, x, y, err)
	}

	if ref.Bounds().Dx() != width || ref.Bounds().Dy() != height {
		m.logger.Debug("Reference size differs from region",
			"reference", ref.Bounds().Size(),
			"region", image.Pt(width, height))
		return 0, nil
	}

	ratio := MatchRatio(ref, captured)
	m.logger.Debug("Screen region compared",
		"x", x, "y", y, "width", width, "height", height,
		"ratio", ratio)
	return ratio, nil
}

// MatchFile loads the reference image at path and calls Match
func (m *Matcher) MatchFile(path string, x, y, width, height int) (float64, error) {
	ref, err := m.images.Load(path)
	if err != nil {
		return 0, err
	}
	return m.Match(ref, x, y, width, height)
}

// MatchRatio returns the fraction of bit-identical RGBA pixels between a and b
// compared at the same offsets from their origins. Images of different size,
// or empty images, have a ratio of 0.
func MatchRatio(a, b image.Image) float64 {
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return 0
	}
	total := ab.Dx() * ab.Dy()
	if total == 0 {
		return 0
	}

	matching := 0
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			pa := toNRGBA(a.At(ab.Min.X+x, ab.Min.Y+y))
			pb := toNRGBA(b.At(bb.Min.X+x, bb.Min.Y+y))
			if pa == pb {
				matching++
			}
		}
	}
	return float64(matching) / float64(total)
}

func toNRGBA(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}
