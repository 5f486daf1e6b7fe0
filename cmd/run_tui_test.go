package cmd

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jeeftor/qmp-macro/internal/interp"
	"github.com/jeeftor/qmp-macro/internal/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func loadTestScript(t *testing.T, src string) *script.Script {
	t.Helper()
	s, err := script.Load(strings.NewReader(src), "test.macro")
	require.NoError(t, err)
	return s
}

func update(t *testing.T, m RunTUIModel, msg tea.Msg) (RunTUIModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(RunTUIModel)
	require.True(t, ok)
	return model, cmd
}

func TestRunTUIModelLineStates(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := loadTestScript(t, "wait: 10\nkey: a click\nwait: 5\n")
	m := NewRunTUIModel(s, "106", 2, nil)
	require.Len(t, m.lines, 3)

	m, _ = update(t, m, commandDoneMsg{event: interp.Event{Index: 0}})
	m, _ = update(t, m, commandDoneMsg{event: interp.Event{Index: 1, Compared: true, MatchPercent: 42}})
	m, _ = update(t, m, commandDoneMsg{event: interp.Event{Index: 2, Err: errors.New("boom")}})

	assert.Equal(t, LineDone, m.lines[0].State)
	assert.Equal(t, LineSkipped, m.lines[1].State)
	assert.Equal(t, "42.0%", m.lines[1].Detail)
	assert.Equal(t, LineFailed, m.lines[2].State)
	assert.Equal(t, "boom", m.lines[2].Detail)
	assert.Equal(t, 3, m.current)

	// the first command of the next pass resets the view
	m, _ = update(t, m, passDoneMsg{pass: 1, elapsed: time.Second})
	m, _ = update(t, m, commandDoneMsg{event: interp.Event{Index: 0}})
	assert.Equal(t, 2, m.pass)
	assert.Equal(t, LineDone, m.lines[0].State)
	assert.Equal(t, LinePending, m.lines[1].State)
	assert.Empty(t, m.lines[2].Detail)
}

func TestRunTUIModelQuit(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := loadTestScript(t, "wait: 10\n")
	cancelled := false
	m := NewRunTUIModel(s, "106", 0, func() { cancelled = true })

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.True(t, cancelled)
	assert.True(t, m.quitting)
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "stopping")

	m, cmd = update(t, m, runFinishedMsg{passes: 3})
	assert.True(t, m.finished)
	assert.Equal(t, 3, m.passesDone)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestRunTUIModelView(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := loadTestScript(t, "wait: 10\nnot a command\n")
	m := NewRunTUIModel(s, "106", 0, nil)

	view := m.View()
	assert.Contains(t, view, "test.macro")
	assert.Contains(t, view, "pass 1/∞")
	assert.Contains(t, view, "   1  ")
	assert.Contains(t, view, "   2  ")

	empty := NewRunTUIModel(loadTestScript(t, "\n\n"), "106", 1, nil)
	assert.Contains(t, empty.View(), "(empty script)")
}
