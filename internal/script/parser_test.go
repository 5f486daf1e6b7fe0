package script

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jeeftor/qmp-macro/internal/keys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Command
	}{
		{
			name: "Wait",
			line: "wait: 9",
			want: Wait{Millis: 9},
		},
		{
			name: "Wait zero",
			line: "wait: 0",
			want: Wait{Millis: 0},
		},
		{
			name: "Mouse move",
			line: "mouse_move: 500 200",
			want: MouseMove{X: 500, Y: 200},
		},
		{
			name: "Mouse move negative",
			line: "mouse_move: -20 -1",
			want: MouseMove{X: -20, Y: -1},
		},
		{
			name: "Mouse move relative",
			line: "mouse_move_relative: 15 -30",
			want: MouseMoveRelative{DX: 15, DY: -30},
		},
		{
			name: "Literal key click",
			line: "key: d click",
			want: KeyUse{Target: CharTarget('d'), Action: Click},
		},
		{
			name: "Literal key press",
			line: "key: A press",
			want: KeyUse{Target: CharTarget('A'), Action: Press},
		},
		{
			name: "Unicode literal key release",
			line: "key: é release",
			want: KeyUse{Target: CharTarget('é'), Action: Release},
		},
		{
			name: "Named key click",
			line: "key: meta click",
			want: KeyUse{Target: NamedTarget(keys.Meta), Action: Click},
		},
		{
			name: "Named function key",
			line: "key: f1 press",
			want: KeyUse{Target: NamedTarget(keys.F1), Action: Press},
		},
		{
			name: "Single f is literal",
			line: "key: f click",
			want: KeyUse{Target: CharTarget('f'), Action: Click},
		},
		{
			name: "Key sequence keeps spaces",
			line: "key_sequence: Hello, World ",
			want: KeySequence{Text: "Hello, World "},
		},
		{
			name: "Key sequence containing another keyword",
			line: "key_sequence: key: a click",
			want: KeySequence{Text: "key: a click"},
		},
		{
			name: "Mouse click",
			line: "mouse_click: left",
			want: MouseButtonEvent{Button: LeftButton, Kind: MouseClick},
		},
		{
			name: "Mouse down",
			line: "mouse_down: middle",
			want: MouseButtonEvent{Button: MiddleButton, Kind: MouseDown},
		},
		{
			name: "Mouse release",
			line: "mouse_release: right",
			want: MouseButtonEvent{Button: RightButton, Kind: MouseUp},
		},
		{
			name: "Screen compare with spaces in path",
			line: `screen_compare_key_click: g 400 100 40 40 40 D:\the space folder\input.png`,
			want: ConditionalKeyUse{
				Target:    CharTarget('g'),
				Action:    Click,
				ImagePath: `D:\the space folder\input.png`,
				Region:    Region{X: 400, Y: 100, Width: 40, Height: 40},
				Threshold: 40,
			},
		},
		{
			name: "Screen compare named key and fractional threshold",
			line: "screen_compare_key_click: return -5 0 16 8 99.5 /tmp/ok.png",
			want: ConditionalKeyUse{
				Target:    NamedTarget(keys.Return),
				Action:    Click,
				ImagePath: "/tmp/ok.png",
				Region:    Region{X: -5, Y: 0, Width: 16, Height: 8},
				Threshold: 99.5,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseLine(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
			assert.NoError(t, got.Validate())
		})
	}
}

func TestParseLineFallback(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantErr error
	}{
		{name: "Unknown keyword", line: "type: hello", wantErr: ErrUnknownKeyword},
		{name: "Keyword without separator space", line: "wait:5", wantErr: ErrUnknownKeyword},
		{name: "Keyword not at start", line: " wait: 5", wantErr: ErrUnknownKeyword},
		{name: "Upper case keyword", line: "WAIT: 5", wantErr: ErrUnknownKeyword},
		{name: "Removed layout keyword", line: "layout_key: a press", wantErr: ErrUnknownKeyword},
		{name: "Wait arity", line: "wait: 5 6", wantErr: ErrInvalidField},
		{name: "Wait negative", line: "wait: -1", wantErr: ErrInvalidField},
		{name: "Wait not a number", line: "wait: soon", wantErr: ErrInvalidField},
		{name: "Wait empty", line: "wait: ", wantErr: ErrInvalidField},
		{name: "Repeated keyword", line: "wait: 5 wait: 6", wantErr: ErrMalformed},
		{name: "Empty key sequence", line: "key_sequence: ", wantErr: ErrMalformed},
		{name: "Key missing action", line: "key: a", wantErr: ErrMalformed},
		{name: "Key too many fields", line: "key: a click now", wantErr: ErrMalformed},
		{name: "Key double space", line: "key:  a click", wantErr: ErrMalformed},
		{name: "Key unknown action", line: "key: a tap", wantErr: ErrInvalidField},
		{name: "Key action is case sensitive", line: "key: a Click", wantErr: ErrInvalidField},
		{name: "Key unknown name", line: "key: hyper click", wantErr: ErrInvalidField},
		{name: "Key name is case sensitive", line: "key: F1 click", wantErr: ErrInvalidField},
		{name: "Mouse unknown button", line: "mouse_click: back", wantErr: ErrInvalidField},
		{name: "Mouse button with trailing space", line: "mouse_down: left ", wantErr: ErrInvalidField},
		{name: "Mouse move one field", line: "mouse_move: 5", wantErr: ErrMalformed},
		{name: "Mouse move float", line: "mouse_move: 5.5 3", wantErr: ErrInvalidField},
		{name: "Mouse move overflow", line: "mouse_move: 3000000000 3", wantErr: ErrInvalidField},
		{name: "Screen compare too few fields", line: "screen_compare_key_click: g 400 100 40 40 40", wantErr: ErrMalformed},
		{name: "Screen compare bad x", line: "screen_compare_key_click: g 4x0 100 40 40 40 a.png", wantErr: ErrInvalidField},
		{name: "Screen compare negative width", line: "screen_compare_key_click: g 400 100 -40 40 40 a.png", wantErr: ErrInvalidField},
		{name: "Screen compare threshold garbage", line: "screen_compare_key_click: g 400 100 40 40 40% a.png", wantErr: ErrInvalidField},
		{name: "Screen compare unknown key", line: "screen_compare_key_click: nope 400 100 40 40 40 a.png", wantErr: ErrInvalidField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
			assert.Equal(t, Wait{Millis: 1}, got)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.line, perr.Text)
		})
	}
}

func TestParseNeverFails(t *testing.T) {
	assert.Equal(t, Fallback(), Parse("definitely not a command"))
	assert.Equal(t, Wait{Millis: 250}, Parse("wait: 250"))
}

func TestFallbackIsIndistinguishableFromWaitOne(t *testing.T) {
	parsed, err := ParseLine("wait: 1")
	require.NoError(t, err)
	failed, _ := ParseLine("bogus")
	assert.Equal(t, parsed, failed)
}

func TestKeywordPrefixesAreUnambiguous(t *testing.T) {
	prefixes := Keywords()
	for i, a := range prefixes {
		for j, b := range prefixes {
			if i == j {
				continue
			}
			assert.False(t, strings.HasPrefix(b, a), "%q is a prefix of %q", a, b)
		}
	}
}

func TestScreenComparePathRoundTrip(t *testing.T) {
	paths := []string{
		`D:\the space folder\input.png`,
		"/tmp/two  spaces/img.png",
		"trailing space.png ",
		" leading.png",
		"plain.png",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			cmd, err := ParseLine("screen_compare_key_click: a 1 2 3 4 5 " + path)
			require.NoError(t, err)
			c, ok := cmd.(ConditionalKeyUse)
			require.True(t, ok)
			assert.Equal(t, path, c.ImagePath)
		})
	}
}

func TestSingleCharacterTokensAreLiteral(t *testing.T) {
	for _, r := range "abcxyzABC019!@#;:,.-=[]/\\'`~é漢" {
		line := "key: " + string(r) + " click"
		cmd, err := ParseLine(line)
		require.NoError(t, err, line)
		assert.Equal(t, KeyUse{Target: CharTarget(r), Action: Click}, cmd)
	}
}

func TestNamedKeysResolveThroughTable(t *testing.T) {
	for _, token := range keys.Tokens() {
		cmd, err := ParseLine("key: " + token + " release")
		require.NoError(t, err, token)
		k, _ := keys.Lookup(token)
		assert.Equal(t, KeyUse{Target: NamedTarget(k), Action: Release}, cmd)
	}
}

func TestInvalidUTF8TokenIsRejected(t *testing.T) {
	_, err := ParseLine("key: \xff click")
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestStringRoundTrip(t *testing.T) {
	lines := []string{
		"key_sequence: echo hi",
		"key: d click",
		"key: left_arrow press",
		"wait: 9",
		"mouse_click: left",
		"mouse_down: right",
		"mouse_release: middle",
		"mouse_move: 500 200",
		"mouse_move_relative: -1 1",
		`screen_compare_key_click: g 400 100 40 40 40 D:\the space folder\input.png`,
		"screen_compare_key_click: tab 0 0 1 1 12.25 x.png",
	}

	for _, line := range lines {
		cmd, err := ParseLine(line)
		require.NoError(t, err, line)
		assert.Equal(t, line, cmd.String())
	}
}
