package interp

import (
	"context"
	"errors"
	"time"

	"github.com/jeeftor/qmp-macro/internal/script"
)

// RepeatOptions controls how many passes Repeat makes
type RepeatOptions struct {
	// StartDelay is waited once before the first pass
	StartDelay time.Duration

	// Passes is the number of passes; 0 repeats until Duration elapses
	// or the context is cancelled
	Passes int

	// Duration bounds the whole run. It is checked between passes, so a
	// pass that has started always completes.
	Duration time.Duration
}

// PassObserver is called after each completed pass with its 1-based number
type PassObserver func(pass int, elapsed time.Duration)

// Repeat runs commands in successive passes. It returns the number of
// completed passes. Cancellation of ctx between passes ends the run
// without error.
func (i *Interpreter) Repeat(ctx context.Context, commands []script.Command, opts RepeatOptions, onPass PassObserver) (int, error) {
	if len(commands) == 0 {
		return 0, nil
	}

	if opts.StartDelay > 0 {
		i.logger.Info("Waiting before first pass", "delay", opts.StartDelay)
		if err := i.pause(ctx, opts.StartDelay); err != nil {
			return 0, nil
		}
	}

	start := i.now()
	passes := 0
	for {
		if ctx.Err() != nil {
			i.logger.Info("Run interrupted", "passes", passes)
			return passes, nil
		}

		passStart := i.now()
		if err := i.RunContext(ctx, commands); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				i.logger.Info("Run interrupted", "passes", passes)
				return passes, nil
			}
			return passes, err
		}
		passes++
		if onPass != nil {
			onPass(passes, i.now().Sub(passStart))
		}

		if opts.Passes > 0 && passes >= opts.Passes {
			return passes, nil
		}
		if opts.Duration > 0 && i.now().Sub(start) >= opts.Duration {
			i.logger.Info("Run duration reached", "passes", passes, "duration", opts.Duration)
			return passes, nil
		}
	}
}
