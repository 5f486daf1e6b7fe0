package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jeeftor/qmp-macro/internal/constants"
	"github.com/jeeftor/qmp-macro/internal/interp"
	"github.com/jeeftor/qmp-macro/internal/logging"
	"github.com/jeeftor/qmp-macro/internal/script"
	"github.com/jeeftor/qmp-macro/internal/styles"
)

// LineState is the display state of a script line in the current pass
type LineState int

const (
	LinePending LineState = iota
	LineDone
	LineSkipped
	LineFailed
)

// RunLine is one script line in the run view
type RunLine struct {
	Number int
	Text   string
	State  LineState
	Detail string
}

// RunTUIModel is the Bubble Tea model for the live run view
type RunTUIModel struct {
	name      string
	target    string
	lines     []RunLine
	current   int
	maxPasses int

	pass       int
	passesDone int
	lastPass   time.Duration
	startTime  time.Time

	progress progress.Model
	spinner  spinner.Model

	cancel   context.CancelFunc
	quitting bool
	finished bool
	err      error
	height   int
}

// Message types
type commandDoneMsg struct{ event interp.Event }
type passDoneMsg struct {
	pass    int
	elapsed time.Duration
}
type runFinishedMsg struct {
	passes int
	err    error
}

var (
	runTitleStyle   = styles.TitleStyle
	runBoxStyle     = styles.BoxStyle.BorderForeground(lipgloss.Color(styles.TextMuted)).Padding(0, 1)
	pendingStyle    = styles.MutedStyle
	doneStyle       = styles.SuccessStyle
	skippedStyle    = styles.WarningStyle
	failedStyle     = styles.ErrorStyle
	currentStyle    = styles.BoldStyle.Background(lipgloss.Color(styles.BackgroundCard))
	runStatusStyle  = styles.InfoStyle
	runFooterStyle  = styles.MutedStyle
	maxVisibleLines = 15
)

// NewRunTUIModel creates the run view for a loaded script
func NewRunTUIModel(s *script.Script, target string, maxPasses int, cancel context.CancelFunc) RunTUIModel {
	lines := make([]RunLine, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = RunLine{Number: l.Number, Text: l.Command.String()}
	}
	return RunTUIModel{
		name:      s.Name,
		target:    target,
		lines:     lines,
		maxPasses: maxPasses,
		pass:      1,
		startTime: time.Now(),
		progress:  progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Spinner{Frames: spinner.Dot.Frames, FPS: constants.TUITickInterval})),
		cancel:    cancel,
	}
}

// Init initializes the model
func (m RunTUIModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and updates the model
func (m RunTUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.progress.Width = max(10, msg.Width-10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.finished {
				return m, tea.Quit
			}
			// stop after the current command; runFinishedMsg ends the program
			m.quitting = true
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil

	case commandDoneMsg:
		e := msg.event
		if e.Index == 0 {
			for i := range m.lines {
				m.lines[i].State = LinePending
				m.lines[i].Detail = ""
			}
		}
		if e.Index < len(m.lines) {
			line := &m.lines[e.Index]
			switch {
			case e.Err != nil:
				line.State = LineFailed
				line.Detail = e.Err.Error()
			case e.Compared && !e.Fired:
				line.State = LineSkipped
				line.Detail = fmt.Sprintf("%.1f%%", e.MatchPercent)
			case e.Compared:
				line.State = LineDone
				line.Detail = fmt.Sprintf("%.1f%%", e.MatchPercent)
			default:
				line.State = LineDone
			}
		}
		m.current = e.Index + 1
		return m, m.progress.SetPercent(float64(m.current) / float64(max(1, len(m.lines))))

	case passDoneMsg:
		m.passesDone = msg.pass
		m.lastPass = msg.elapsed
		m.pass = msg.pass + 1
		return m, nil

	case runFinishedMsg:
		m.finished = true
		m.passesDone = msg.passes
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd
	}

	return m, nil
}

// View renders the run view
func (m RunTUIModel) View() string {
	var b strings.Builder

	b.WriteString(runTitleStyle.Render(fmt.Sprintf("qmp-macro: %s → %s", m.name, m.target)))
	b.WriteString("\n\n")

	passes := "∞"
	if m.maxPasses > 0 {
		passes = fmt.Sprintf("%d", m.maxPasses)
	}
	status := fmt.Sprintf("%s pass %d/%s  elapsed %s", m.spinner.View(), m.pass, passes,
		time.Since(m.startTime).Round(time.Second))
	if m.lastPass > 0 {
		status += fmt.Sprintf("  last pass %s", m.lastPass.Round(time.Millisecond))
	}
	if m.quitting {
		status += "  stopping..."
	}
	b.WriteString(runStatusStyle.Render(status))
	b.WriteString("\n")
	b.WriteString(m.progress.View())
	b.WriteString("\n\n")

	b.WriteString(runBoxStyle.Render(m.renderLines()))
	b.WriteString("\n")
	b.WriteString(runFooterStyle.Render("q: stop"))
	return b.String()
}

func (m RunTUIModel) renderLines() string {
	visible := maxVisibleLines
	if m.height > 0 {
		visible = max(3, min(visible, m.height-10))
	}
	start := max(0, m.current-visible/2)
	end := min(len(m.lines), start+visible)

	var rows []string
	for i := start; i < end; i++ {
		l := m.lines[i]
		text := fmt.Sprintf("%4d  %s", l.Number, l.Text)
		if l.Detail != "" {
			text += "  (" + l.Detail + ")"
		}

		var style lipgloss.Style
		switch l.State {
		case LineDone:
			style = doneStyle
		case LineSkipped:
			style = skippedStyle
		case LineFailed:
			style = failedStyle
		default:
			style = pendingStyle
		}
		if i == m.current && !m.finished {
			style = currentStyle
		}
		rows = append(rows, style.Render(text))
	}
	if len(rows) == 0 {
		return pendingStyle.Render("(empty script)")
	}
	return strings.Join(rows, "\n")
}

// runWithTUI runs the script under the live view. Console logging is
// suspended while the view owns the terminal.
func runWithTUI(ctx context.Context, sess *session, s *script.Script, opts interp.RepeatOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logging.SetOutput(io.Discard)
	defer logging.SetOutput(os.Stdout)

	p := tea.NewProgram(NewRunTUIModel(s, sess.target, opts.Passes, cancel), tea.WithAltScreen())

	in := sess.newInterpreter(interp.WithObserver(func(e interp.Event) {
		p.Send(commandDoneMsg{event: e})
	}))

	finished := make(chan runFinishedMsg, 1)
	go func() {
		passes, err := in.Repeat(ctx, s.Commands(), opts, func(pass int, elapsed time.Duration) {
			p.Send(passDoneMsg{pass: pass, elapsed: elapsed})
		})
		msg := runFinishedMsg{passes: passes, err: err}
		finished <- msg
		p.Send(msg)
	}()

	final, err := p.Run()
	cancel()
	result := <-finished

	logging.SetOutput(os.Stdout)
	if err != nil {
		return fmt.Errorf("run view failed: %w", err)
	}
	if m, ok := final.(RunTUIModel); ok && m.quitting {
		logging.UserWarnf("Stopped by user after %d pass(es)", result.passes)
	}
	if result.err != nil {
		logging.Fail(s.Name, result.err.Error())
		return result.err
	}
	logging.Complete(fmt.Sprintf("%s: %d pass(es)", s.Name, result.passes))
	return nil
}
