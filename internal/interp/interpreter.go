package interp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jeeftor/qmp-macro/internal/keys"
	"github.com/jeeftor/qmp-macro/internal/logging"
	"github.com/jeeftor/qmp-macro/internal/script"
)

// Input delivers device events. Literal characters and named keys are
// separate primitives.
type Input interface {
	PressChar(r rune) error
	ReleaseChar(r rune) error
	ClickChar(r rune) error
	PressKey(k keys.Key) error
	ReleaseKey(k keys.Key) error
	ClickKey(k keys.Key) error
	TypeText(text string) error
	MouseDown(b script.MouseButton) error
	MouseUp(b script.MouseButton) error
	MouseClick(b script.MouseButton) error
	MoveMouseTo(x, y int) error
	MoveMouseBy(dx, dy int) error
}

// ScreenMatcher reports how much of a screen region matches a reference image
type ScreenMatcher interface {
	MatchFile(path string, x, y, width, height int) (float64, error)
}

// Event describes one executed command
type Event struct {
	RunID    string
	Index    int
	Command  script.Command
	Duration time.Duration

	// Set for conditional commands
	Compared     bool
	MatchPercent float64
	Fired        bool

	Err error
}

// Observer is called after each command finishes
type Observer func(Event)

// CommandError is returned when a collaborator fails during a pass
type CommandError struct {
	Index   int
	Command script.Command
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %d (%s): %v", e.Index+1, e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Interpreter runs parsed commands in order against an Input
type Interpreter struct {
	input    Input
	matcher  ScreenMatcher
	sleep    func(time.Duration)
	now      func() time.Time
	observer Observer
	logger   *logging.ContextualLogger
}

// Option configures an Interpreter
type Option func(*Interpreter)

// WithSleep replaces the timer used for waits. A replaced sleep is not
// interrupted by context cancellation.
func WithSleep(sleep func(time.Duration)) Option {
	return func(i *Interpreter) {
		i.sleep = sleep
	}
}

// WithClock replaces time.Now for durations and time boxes
func WithClock(now func() time.Time) Option {
	return func(i *Interpreter) {
		i.now = now
	}
}

// WithObserver registers a callback invoked after each command
func WithObserver(o Observer) Option {
	return func(i *Interpreter) {
		i.observer = o
	}
}

// WithTarget tags log records with the machine being driven
func WithTarget(target string) Option {
	return func(i *Interpreter) {
		i.logger = i.logger.With(target)
	}
}

// New creates an interpreter
func New(input Input, matcher ScreenMatcher, opts ...Option) *Interpreter {
	i := &Interpreter{
		input:   input,
		matcher: matcher,
		now:     time.Now,
		logger:  logging.NewContextualLogger("", "interpreter"),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run makes one forward pass over commands. Commands are assumed valid.
// The first collaborator failure stops the pass and is returned as a *CommandError.
func (i *Interpreter) Run(commands []script.Command) error {
	return i.RunContext(context.Background(), commands)
}

// RunContext is Run with cancellation. Cancellation is observed between
// commands and during waits.
func (i *Interpreter) RunContext(ctx context.Context, commands []script.Command) error {
	runID := uuid.NewString()
	start := i.now()
	i.logger.Debug("Starting pass", "run", runID, "commands", len(commands))

	for idx, cmd := range commands {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pass interrupted before command %d: %w", idx+1, err)
		}

		ev := Event{RunID: runID, Index: idx, Command: cmd}
		cmdStart := i.now()

		err := i.execute(ctx, cmd, &ev)
		ev.Duration = i.now().Sub(cmdStart)
		ev.Err = err

		if i.observer != nil {
			i.observer(ev)
		}

		if err != nil {
			if ctx.Err() == nil {
				i.logger.Error("Command failed", "run", runID, "index", idx, "command", cmd.String(), "error", err)
			}
			return &CommandError{Index: idx, Command: cmd, Err: err}
		}
	}

	i.logger.Debug("Pass completed", "run", runID, "duration", i.now().Sub(start))
	return nil
}

// pause blocks for d or until ctx is done
func (i *Interpreter) pause(ctx context.Context, d time.Duration) error {
	if i.sleep != nil {
		i.sleep(d)
		return nil
	}
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (i *Interpreter) execute(ctx context.Context, cmd script.Command, ev *Event) error {
	i.logger.Debug("Executing command", "run", ev.RunID, "index", ev.Index, "command", cmd.String())

	switch c := cmd.(type) {
	case script.KeySequence:
		return i.input.TypeText(c.Text)

	case script.KeyUse:
		return i.useKey(c.Target, c.Action)

	case script.MouseButtonEvent:
		switch c.Kind {
		case script.MouseDown:
			return i.input.MouseDown(c.Button)
		case script.MouseUp:
			return i.input.MouseUp(c.Button)
		default:
			return i.input.MouseClick(c.Button)
		}

	case script.MouseMove:
		return i.input.MoveMouseTo(int(c.X), int(c.Y))

	case script.MouseMoveRelative:
		return i.input.MoveMouseBy(int(c.DX), int(c.DY))

	case script.Wait:
		logging.WaitFor(c.Duration().String())
		return i.pause(ctx, c.Duration())

	case script.ConditionalKeyUse:
		ratio, err := i.matcher.MatchFile(c.ImagePath,
			int(c.Region.X), int(c.Region.Y), int(c.Region.Width), int(c.Region.Height))
		if err != nil {
			return err
		}
		ev.Compared = true
		ev.MatchPercent = ratio * 100
		ev.Fired = ev.MatchPercent >= c.Threshold
		logging.ScreenCompared(c.ImagePath, ev.MatchPercent, c.Threshold, ev.Fired)
		if !ev.Fired {
			return nil
		}
		return i.useKey(c.Target, c.Action)

	default:
		return fmt.Errorf("unsupported command type %T", cmd)
	}
}

func (i *Interpreter) useKey(target script.KeyTarget, action script.Action) error {
	if target.IsNamed() {
		switch action {
		case script.Press:
			return i.input.PressKey(target.Named)
		case script.Release:
			return i.input.ReleaseKey(target.Named)
		default:
			return i.input.ClickKey(target.Named)
		}
	}

	switch action {
	case script.Press:
		return i.input.PressChar(target.Char)
	case script.Release:
		return i.input.ReleaseChar(target.Char)
	default:
		return i.input.ClickChar(target.Char)
	}
}
