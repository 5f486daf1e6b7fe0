package script

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jeeftor/qmp-macro/internal/keys"
)

// Command represents a single parsed script instruction.
// Commands are values and are never modified after parsing.
type Command interface {
	Validate() error
	String() string
	command()
}

// Action is what happens to a key
type Action int

const (
	Press Action = iota + 1
	Release
	Click
)

var actionNames = map[Action]string{
	Press:   "press",
	Release: "release",
	Click:   "click",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// MouseButton identifies a pointer button
type MouseButton int

const (
	LeftButton MouseButton = iota + 1
	RightButton
	MiddleButton
)

var buttonNames = map[MouseButton]string{
	LeftButton:   "left",
	RightButton:  "right",
	MiddleButton: "middle",
}

func (b MouseButton) String() string {
	if name, ok := buttonNames[b]; ok {
		return name
	}
	return "unknown"
}

// MouseEventKind is what happens to a mouse button
type MouseEventKind int

const (
	MouseClick MouseEventKind = iota + 1
	MouseDown
	MouseUp
)

// KeyTarget is either a literal character or a named key, never both.
type KeyTarget struct {
	Char  rune
	Named keys.Key
}

// CharTarget returns a target for a literal character
func CharTarget(r rune) KeyTarget {
	return KeyTarget{Char: r}
}

// NamedTarget returns a target for a named key
func NamedTarget(k keys.Key) KeyTarget {
	return KeyTarget{Named: k}
}

// IsNamed reports whether the target refers to a Key Table entry
func (t KeyTarget) IsNamed() bool {
	return t.Named != 0
}

func (t KeyTarget) String() string {
	if t.IsNamed() {
		return t.Named.String()
	}
	return string(t.Char)
}

func (t KeyTarget) validate() error {
	if t.IsNamed() {
		if t.Char != 0 {
			return fmt.Errorf("key target cannot be both %q and %s", t.Char, t.Named)
		}
		if !t.Named.Valid() {
			return fmt.Errorf("unknown named key %d", t.Named)
		}
		return nil
	}
	if t.Char == 0 {
		return fmt.Errorf("key target is empty")
	}
	return nil
}

// KeySequence types its text verbatim
type KeySequence struct {
	Text string
}

func (KeySequence) command() {}

func (c KeySequence) Validate() error {
	if c.Text == "" {
		return fmt.Errorf("key sequence cannot have empty text")
	}
	return nil
}

func (c KeySequence) String() string {
	return KeywordKeySequence + c.Text
}

// KeyUse presses, releases or clicks a single key
type KeyUse struct {
	Target KeyTarget
	Action Action
}

func (KeyUse) command() {}

func (c KeyUse) Validate() error {
	if err := c.Target.validate(); err != nil {
		return err
	}
	if _, ok := actionNames[c.Action]; !ok {
		return fmt.Errorf("invalid key action %d", c.Action)
	}
	return nil
}

func (c KeyUse) String() string {
	return fmt.Sprintf("%s%s %s", KeywordKey, c.Target, c.Action)
}

// MouseButtonEvent clicks, presses or releases a mouse button
type MouseButtonEvent struct {
	Button MouseButton
	Kind   MouseEventKind
}

func (MouseButtonEvent) command() {}

func (c MouseButtonEvent) Validate() error {
	if _, ok := buttonNames[c.Button]; !ok {
		return fmt.Errorf("invalid mouse button %d", c.Button)
	}
	if c.Kind < MouseClick || c.Kind > MouseUp {
		return fmt.Errorf("invalid mouse event kind %d", c.Kind)
	}
	return nil
}

func (c MouseButtonEvent) String() string {
	var keyword string
	switch c.Kind {
	case MouseClick:
		keyword = KeywordMouseClick
	case MouseDown:
		keyword = KeywordMouseDown
	case MouseUp:
		keyword = KeywordMouseRelease
	default:
		keyword = "mouse_unknown: "
	}
	return keyword + c.Button.String()
}

// MouseMove moves the pointer to an absolute screen position
type MouseMove struct {
	X, Y int32
}

func (MouseMove) command() {}

func (MouseMove) Validate() error { return nil }

func (c MouseMove) String() string {
	return fmt.Sprintf("%s%d %d", KeywordMouseMove, c.X, c.Y)
}

// MouseMoveRelative moves the pointer by a delta
type MouseMoveRelative struct {
	DX, DY int32
}

func (MouseMoveRelative) command() {}

func (MouseMoveRelative) Validate() error { return nil }

func (c MouseMoveRelative) String() string {
	return fmt.Sprintf("%s%d %d", KeywordMouseMoveRelative, c.DX, c.DY)
}

// Wait blocks for a number of milliseconds
type Wait struct {
	Millis uint64
}

func (Wait) command() {}

func (Wait) Validate() error { return nil }

// Duration returns the wait as a time.Duration
func (c Wait) Duration() time.Duration {
	return time.Duration(c.Millis) * time.Millisecond
}

func (c Wait) String() string {
	return KeywordWait + strconv.FormatUint(c.Millis, 10)
}

// Region is a rectangle on the screen
type Region struct {
	X, Y          int32
	Width, Height uint32
}

func (r Region) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// ConditionalKeyUse performs its key action only when the screen region
// matches the reference image at or above Threshold percent.
type ConditionalKeyUse struct {
	Target    KeyTarget
	Action    Action
	ImagePath string
	Region    Region
	Threshold float64
}

func (ConditionalKeyUse) command() {}

func (c ConditionalKeyUse) Validate() error {
	if err := c.Target.validate(); err != nil {
		return err
	}
	if _, ok := actionNames[c.Action]; !ok {
		return fmt.Errorf("invalid key action %d", c.Action)
	}
	if c.ImagePath == "" {
		return fmt.Errorf("screen compare requires an image path")
	}
	return nil
}

func (c ConditionalKeyUse) String() string {
	return fmt.Sprintf("%s%s %d %d %d %d %s %s",
		KeywordScreenCompareKeyClick,
		c.Target,
		c.Region.X, c.Region.Y, c.Region.Width, c.Region.Height,
		strconv.FormatFloat(c.Threshold, 'f', -1, 64),
		c.ImagePath)
}

// Fallback is the command substituted for a line that fails to parse
func Fallback() Command {
	return Wait{Millis: 1}
}
