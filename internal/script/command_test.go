package script

import (
	"testing"
	"time"

	"github.com/jeeftor/qmp-macro/internal/keys"
	"github.com/stretchr/testify/assert"
)

func TestCommandValidation(t *testing.T) {
	tests := []struct {
		name        string
		cmd         Command
		expectError bool
	}{
		{name: "Key sequence", cmd: KeySequence{Text: "hello"}},
		{name: "Empty key sequence", cmd: KeySequence{}, expectError: true},
		{name: "Literal key", cmd: KeyUse{Target: CharTarget('x'), Action: Press}},
		{name: "Named key", cmd: KeyUse{Target: NamedTarget(keys.Tab), Action: Release}},
		{name: "Empty key target", cmd: KeyUse{Action: Click}, expectError: true},
		{name: "Both key kinds", cmd: KeyUse{Target: KeyTarget{Char: 'a', Named: keys.Alt}, Action: Click}, expectError: true},
		{name: "Unknown named key", cmd: KeyUse{Target: NamedTarget(keys.Key(999)), Action: Click}, expectError: true},
		{name: "Missing action", cmd: KeyUse{Target: CharTarget('x')}, expectError: true},
		{name: "Mouse button", cmd: MouseButtonEvent{Button: LeftButton, Kind: MouseDown}},
		{name: "Mouse button missing", cmd: MouseButtonEvent{Kind: MouseDown}, expectError: true},
		{name: "Mouse kind missing", cmd: MouseButtonEvent{Button: RightButton}, expectError: true},
		{name: "Mouse move", cmd: MouseMove{X: -5, Y: 5}},
		{name: "Wait", cmd: Wait{Millis: 0}},
		{
			name: "Conditional",
			cmd: ConditionalKeyUse{
				Target: CharTarget('g'), Action: Click, ImagePath: "a.png",
				Region: Region{Width: 1, Height: 1}, Threshold: 50,
			},
		},
		{
			name:        "Conditional without path",
			cmd:         ConditionalKeyUse{Target: CharTarget('g'), Action: Click},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NotEmpty(t, tt.cmd.String())
		})
	}
}

func TestWaitDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, Wait{Millis: 1500}.Duration())
	assert.Equal(t, time.Duration(0), Wait{}.Duration())
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "press", Press.String())
	assert.Equal(t, "release", Release.String())
	assert.Equal(t, "click", Click.String())
	assert.Equal(t, "unknown", Action(0).String())
	assert.Equal(t, "middle", MiddleButton.String())
	assert.Equal(t, "unknown", MouseButton(7).String())
	assert.Equal(t, "40x30+-1+2", Region{X: -1, Y: 2, Width: 40, Height: 30}.String())
}

func TestKeyTarget(t *testing.T) {
	lit := CharTarget('q')
	assert.False(t, lit.IsNamed())
	assert.Equal(t, "q", lit.String())

	named := NamedTarget(keys.PageDown)
	assert.True(t, named.IsNamed())
	assert.Equal(t, "page_down", named.String())
}
