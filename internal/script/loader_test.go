package script

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeeftor/qmp-macro/internal/keys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	src := strings.Join([]string{
		"\ufeffkey: meta click",
		"",
		"wait: 9",
		"   ",
		"this is a typo",
		"mouse_move: 500 200",
		"key_sequence: done",
	}, "\r\n")

	s, err := Load(strings.NewReader(src), "test.txt")
	require.NoError(t, err)

	require.Len(t, s.Lines, 5)
	assert.Equal(t, []int{1, 3, 5, 6, 7}, lineNumbers(s))
	assert.Equal(t, []Command{
		KeyUse{Target: NamedTarget(keys.Meta), Action: Click},
		Wait{Millis: 9},
		Wait{Millis: 1},
		MouseMove{X: 500, Y: 200},
		KeySequence{Text: "done"},
	}, s.Commands())

	assert.False(t, s.Valid())
	require.Len(t, s.Diagnostics, 1)
	assert.Equal(t, 5, s.Diagnostics[0].Line)
	assert.Equal(t, "this is a typo", s.Diagnostics[0].Text)
	assert.ErrorIs(t, s.Diagnostics[0], ErrUnknownKeyword)
	assert.Contains(t, s.Diagnostics[0].Error(), "line 5")
}

func TestLoadEmpty(t *testing.T) {
	s, err := Load(strings.NewReader("\n\n"), "empty")
	require.NoError(t, err)
	assert.Empty(t, s.Lines)
	assert.True(t, s.Valid())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.txt")
	require.NoError(t, os.WriteFile(path, []byte("key: d click\nwait: 10\n"), 0o644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Name)
	assert.Len(t, s.Lines, 2)
	assert.True(t, s.Valid())
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func lineNumbers(s *Script) []int {
	nums := make([]int, len(s.Lines))
	for i, l := range s.Lines {
		nums[i] = l.Number
	}
	return nums
}
