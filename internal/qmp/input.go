package qmp

import (
	"fmt"
	"time"

	"github.com/jeeftor/qmp-macro/internal/keys"
	"github.com/jeeftor/qmp-macro/internal/logging"
	"github.com/jeeftor/qmp-macro/internal/script"
)

// EventSender is the part of Client used by Input
type EventSender interface {
	SendInputEvents(events ...InputEvent) error
	ScreenSize() (int, int, error)
}

// Input drives the guest keyboard and pointer with input-send-event
type Input struct {
	sender EventSender
	delay  time.Duration
	sleep  func(time.Duration)
}

// NewInput creates an Input. delay is the pause between typed characters.
func NewInput(sender EventSender, delay time.Duration) *Input {
	return &Input{
		sender: sender,
		delay:  delay,
		sleep:  time.Sleep,
	}
}

func (in *Input) press(codes []string) error {
	events := make([]InputEvent, 0, len(codes))
	for _, c := range codes {
		events = append(events, KeyEvent(c, true))
	}
	return in.sender.SendInputEvents(events...)
}

func (in *Input) release(codes []string) error {
	events := make([]InputEvent, 0, len(codes))
	for i := len(codes) - 1; i >= 0; i-- {
		events = append(events, KeyEvent(codes[i], false))
	}
	return in.sender.SendInputEvents(events...)
}

func (in *Input) click(codes []string) error {
	if err := in.press(codes); err != nil {
		return err
	}
	return in.release(codes)
}

// PressChar holds down the key (and shift if needed) for r
func (in *Input) PressChar(r rune) error {
	codes, err := CharQcodes(r)
	if err != nil {
		return err
	}
	logging.KeyTemplate.Logf("%q press", r)
	return in.press(codes)
}

// ReleaseChar releases the keys held by PressChar
func (in *Input) ReleaseChar(r rune) error {
	codes, err := CharQcodes(r)
	if err != nil {
		return err
	}
	logging.KeyTemplate.Logf("%q release", r)
	return in.release(codes)
}

// ClickChar presses and releases r
func (in *Input) ClickChar(r rune) error {
	codes, err := CharQcodes(r)
	if err != nil {
		return err
	}
	logging.KeyTemplate.Logf("%q click", r)
	return in.click(codes)
}

func (in *Input) PressKey(k keys.Key) error {
	code, err := NamedQcode(k)
	if err != nil {
		return err
	}
	logging.KeyTemplate.Logf("%s press", k)
	return in.press([]string{code})
}

func (in *Input) ReleaseKey(k keys.Key) error {
	code, err := NamedQcode(k)
	if err != nil {
		return err
	}
	logging.KeyTemplate.Logf("%s release", k)
	return in.release([]string{code})
}

func (in *Input) ClickKey(k keys.Key) error {
	code, err := NamedQcode(k)
	if err != nil {
		return err
	}
	logging.KeyTemplate.Logf("%s click", k)
	return in.click([]string{code})
}

// TypeText clicks each character of text in order
func (in *Input) TypeText(text string) error {
	logging.TypeTemplate.Logf("%q", text)

	// map everything first so an unmappable character sends nothing
	seq := make([][]string, 0, len(text))
	for _, r := range text {
		codes, err := CharQcodes(r)
		if err != nil {
			return err
		}
		seq = append(seq, codes)
	}

	for i, codes := range seq {
		if i > 0 && in.delay > 0 {
			in.sleep(in.delay)
		}
		if err := in.click(codes); err != nil {
			return fmt.Errorf("failed to type character %d: %w", i+1, err)
		}
	}
	return nil
}

func (in *Input) MouseDown(b script.MouseButton) error {
	logging.MouseTemplate.Logf("%s down", b)
	return in.sender.SendInputEvents(ButtonEvent(b.String(), true))
}

func (in *Input) MouseUp(b script.MouseButton) error {
	logging.MouseTemplate.Logf("%s up", b)
	return in.sender.SendInputEvents(ButtonEvent(b.String(), false))
}

func (in *Input) MouseClick(b script.MouseButton) error {
	logging.MouseTemplate.Logf("%s click", b)
	return in.sender.SendInputEvents(ButtonEvent(b.String(), true), ButtonEvent(b.String(), false))
}

// MoveMouseTo moves the pointer to screen pixel (x, y)
func (in *Input) MoveMouseTo(x, y int) error {
	width, height, err := in.sender.ScreenSize()
	if err != nil {
		return err
	}
	logging.MouseTemplate.Logf("move to %d,%d", x, y)
	return in.sender.SendInputEvents(
		AbsEvent("x", ScaleAbs(x, width)),
		AbsEvent("y", ScaleAbs(y, height)),
	)
}

// MoveMouseBy moves the pointer relative to its current position
func (in *Input) MoveMouseBy(dx, dy int) error {
	logging.MouseTemplate.Logf("move by %d,%d", dx, dy)
	return in.sender.SendInputEvents(RelEvent("x", int64(dx)), RelEvent("y", int64(dy)))
}

// ScaleAbs converts a pixel coordinate into the 0..AbsMax absolute range.
// Coordinates outside the screen are clamped.
func ScaleAbs(pos, size int) int64 {
	if size <= 1 || pos <= 0 {
		return 0
	}
	if pos >= size-1 {
		return AbsMax
	}
	return int64(pos) * AbsMax / int64(size-1)
}
