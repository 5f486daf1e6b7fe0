package interp

import (
	"github.com/jeeftor/qmp-macro/internal/keys"
	"github.com/jeeftor/qmp-macro/internal/logging"
	"github.com/jeeftor/qmp-macro/internal/script"
)

// DryRunInput logs each device event instead of delivering it
type DryRunInput struct{}

func (DryRunInput) PressChar(r rune) error {
	logging.DryRunKeyTemplate.Logf("%q press", r)
	return nil
}

func (DryRunInput) ReleaseChar(r rune) error {
	logging.DryRunKeyTemplate.Logf("%q release", r)
	return nil
}

func (DryRunInput) ClickChar(r rune) error {
	logging.DryRunKeyTemplate.Logf("%q click", r)
	return nil
}

func (DryRunInput) PressKey(k keys.Key) error {
	logging.DryRunKeyTemplate.Logf("%s press", k)
	return nil
}

func (DryRunInput) ReleaseKey(k keys.Key) error {
	logging.DryRunKeyTemplate.Logf("%s release", k)
	return nil
}

func (DryRunInput) ClickKey(k keys.Key) error {
	logging.DryRunKeyTemplate.Logf("%s click", k)
	return nil
}

func (DryRunInput) TypeText(text string) error {
	logging.DryRunTypeTemplate.Logf("%q", text)
	return nil
}

func (DryRunInput) MouseDown(b script.MouseButton) error {
	logging.DryRunMouseTemplate.Logf("%s down", b)
	return nil
}

func (DryRunInput) MouseUp(b script.MouseButton) error {
	logging.DryRunMouseTemplate.Logf("%s up", b)
	return nil
}

func (DryRunInput) MouseClick(b script.MouseButton) error {
	logging.DryRunMouseTemplate.Logf("%s click", b)
	return nil
}

func (DryRunInput) MoveMouseTo(x, y int) error {
	logging.DryRunMouseTemplate.Logf("move to %d,%d", x, y)
	return nil
}

func (DryRunInput) MoveMouseBy(dx, dy int) error {
	logging.DryRunMouseTemplate.Logf("move by %d,%d", dx, dy)
	return nil
}

// AssumeMatch is a ScreenMatcher for dry runs; every comparison is a full match
type AssumeMatch struct{}

// MatchFile implements ScreenMatcher
func (AssumeMatch) MatchFile(path string, x, y, width, height int) (float64, error) {
	logging.DryRunCompareTemplate.Logf("%s at %dx%d+%d+%d", path, width, height, x, y)
	return 1, nil
}
