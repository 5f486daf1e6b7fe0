package interp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jeeftor/qmp-macro/internal/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// fakeClock advances only when the interpreter sleeps
type fakeClock struct {
	now   time.Time
	slept []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
}

func newClockedInterpreter(input Input, clock *fakeClock) *Interpreter {
	return New(input, &MockMatcher{}, WithSleep(clock.Sleep), WithClock(clock.Now))
}

func TestRepeatPasses(t *testing.T) {
	defer goleak.VerifyNone(t)

	input := &MockInput{}
	clock := &fakeClock{now: time.Unix(0, 0)}
	in := newClockedInterpreter(input, clock)

	var seen []int
	passes, err := in.Repeat(context.Background(),
		[]script.Command{script.KeySequence{Text: "a"}, script.Wait{Millis: 10}},
		RepeatOptions{Passes: 3, StartDelay: time.Second},
		func(pass int, elapsed time.Duration) {
			seen = append(seen, pass)
			assert.Equal(t, 10*time.Millisecond, elapsed)
		})

	require.NoError(t, err)
	assert.Equal(t, 3, passes)
	assert.Equal(t, []int{1, 2, 3}, seen)
	assert.Equal(t, []string{"type a", "type a", "type a"}, input.Calls)
	assert.Equal(t, time.Second, clock.slept[0])
}

func TestRepeatUntilDuration(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	in := newClockedInterpreter(&MockInput{}, clock)

	passes, err := in.Repeat(context.Background(),
		[]script.Command{script.Wait{Millis: 300}},
		RepeatOptions{Duration: time.Second}, nil)

	require.NoError(t, err)
	// the time box is checked between passes: 300, 600, 900, 1200
	assert.Equal(t, 4, passes)
}

func TestRepeatDurationWithPassLimit(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	in := newClockedInterpreter(&MockInput{}, clock)

	passes, err := in.Repeat(context.Background(),
		[]script.Command{script.Wait{Millis: 1}},
		RepeatOptions{Passes: 2, Duration: time.Hour}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, passes)
}

func TestRepeatStopsOnFailure(t *testing.T) {
	input := &MockInput{FailOn: "type b"}
	clock := &fakeClock{now: time.Unix(0, 0)}
	in := newClockedInterpreter(input, clock)

	passes, err := in.Repeat(context.Background(),
		[]script.Command{script.KeySequence{Text: "b"}},
		RepeatOptions{Passes: 5}, nil)

	var cerr *CommandError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, 0, passes)
	assert.Len(t, input.Calls, 1)
}

func TestRepeatCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	input := &MockInput{}
	clock := &fakeClock{now: time.Unix(0, 0)}
	in := newClockedInterpreter(input, clock)

	passes, err := in.Repeat(ctx, []script.Command{script.KeySequence{Text: "x"}}, RepeatOptions{},
		func(pass int, _ time.Duration) {
			if pass == 2 {
				cancel()
			}
		})
	require.NoError(t, err)
	assert.Equal(t, 2, passes)
}

func TestRunContextCancelledDuringWait(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	input := &MockInput{}
	in := New(input, &MockMatcher{})
	start := time.Now()
	err := in.RunContext(ctx, []script.Command{script.Wait{Millis: 10_000}, script.KeySequence{Text: "late"}})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Empty(t, input.Calls)
}

func TestRepeatEmptyScript(t *testing.T) {
	in := New(&MockInput{}, &MockMatcher{})
	passes, err := in.Repeat(context.Background(), nil, RepeatOptions{}, nil)
	require.NoError(t, err)
	assert.Zero(t, passes)
}
