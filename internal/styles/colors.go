package styles

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Color constants using a consistent palette
const (
	// Primary colors
	Primary     = "#7D56F4"
	PrimaryText = "#FAFAFA"

	// Status colors
	Success = "#04B575"
	Warning = "#FFA500"
	Error   = "#FF6B6B"
	Info    = "#00CED1"

	// Text colors
	Text      = "#FAFAFA"
	TextMuted = "#626262"
	TextBold  = "#90EE90"

	BackgroundCard = "#444444"
)

// Predefined styles for common use cases
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(PrimaryText)).
			Background(lipgloss.Color(Primary)).
			Padding(0, 1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Success)).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Error)).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Warning)).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Info)).
			Bold(true)

	BoldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(TextBold)).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(TextMuted)).
			Italic(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Primary)).
			Padding(1, 1).
			Margin(0, 1)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(Primary)).
			Padding(0, 1)

	CellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Text)).
			Padding(0, 1)

	CodeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Primary)).
			Bold(true)
)

// NewTable returns a bordered table with the shared header and cell styles.
// rowStyle may override the style of individual data cells; it can be nil.
func NewTable(headers []string, rows [][]string, rowStyle func(row, col int) (lipgloss.Style, bool)) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(TextMuted))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle
			}
			if rowStyle != nil {
				if s, ok := rowStyle(row, col); ok {
					return s.Padding(0, 1)
				}
			}
			return CellStyle
		})
}

// PrintStyled prints text with a lipgloss style to the writer
func PrintStyled(w io.Writer, style lipgloss.Style, text string) {
	fmt.Fprint(w, style.Render(text))
}

// PrintStyledln prints text with a lipgloss style and adds a newline
func PrintStyledln(w io.Writer, style lipgloss.Style, text string) {
	fmt.Fprintln(w, style.Render(text))
}
