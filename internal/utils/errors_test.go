package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeOf(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want ErrorExitCode
	}{
		{"untagged", base, ExitCodeGeneral},
		{"connection", ConnectionError("106", base), ExitCodeConnection},
		{"filesystem", FileSystemError("load script", "x.macro", base), ExitCodeFileSystem},
		{"wrapped", fmt.Errorf("run: %w", ConnectionError("106", base)), ExitCodeConnection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeOf(tt.err))
			assert.ErrorIs(t, tt.err, base)
		})
	}

	assert.NoError(t, WithExitCode(nil, ExitCodeFileSystem))
}

func TestMultiError(t *testing.T) {
	m := NewMultiError("check")
	assert.NoError(t, m.ErrorOrNil())

	first := errors.New("first")
	m.Add(first)
	m.Add(nil)
	assert.EqualError(t, m.ErrorOrNil(), "first")

	m.Add(errors.New("second"))
	err := m.ErrorOrNil()
	assert.ErrorIs(t, err, first)
	assert.Contains(t, err.Error(), "2 errors occurred")
}
