package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/jeeftor/qmp-macro/internal/logging"
	"github.com/jeeftor/qmp-macro/internal/script"
	"github.com/jeeftor/qmp-macro/internal/styles"
	"github.com/jeeftor/qmp-macro/internal/utils"
	"github.com/spf13/cobra"
)

var checkQuiet bool

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [script...]",
	Short: "Parse scripts and report malformed lines",
	Long: `Parse one or more scripts without running them.

Every line is listed with the command it parsed to. Lines that would run
as the 1ms fallback wait are marked with the reason. The command exits
non-zero if any script has a malformed line.

Examples:
  qmp-macro check login.macro
  qmp-macro check --quiet scripts/*.macro`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		errs := utils.NewMultiError("check")
		for _, path := range args {
			s, err := script.LoadFile(path)
			if err != nil {
				errs.Add(utils.FileSystemError("load script", path, err))
				continue
			}
			if !checkQuiet {
				renderCheck(os.Stdout, s)
			}
			for _, d := range s.Diagnostics {
				errs.Add(fmt.Errorf("%s: %w", path, d))
			}
			if s.Valid() {
				logging.Successf("%s: %d command(s) OK", path, len(s.Lines))
			}
		}
		return utils.WithExitCode(errs.ErrorOrNil(), utils.ExitCodeValidation)
	},
}

func init() {
	checkCmd.Flags().BoolVarP(&checkQuiet, "quiet", "q", false, "only report problems")
	rootCmd.AddCommand(checkCmd)
}

// renderCheck writes one table row per script line
func renderCheck(w io.Writer, s *script.Script) {
	diagnostics := make(map[int]*script.ParseError, len(s.Diagnostics))
	for _, d := range s.Diagnostics {
		diagnostics[d.Line] = d
	}

	rows := make([][]string, 0, len(s.Lines))
	for _, l := range s.Lines {
		status := "ok"
		if d, ok := diagnostics[l.Number]; ok {
			status = d.Err.Error()
		}
		rows = append(rows, []string{strconv.Itoa(l.Number), l.Command.String(), status})
	}

	t := styles.NewTable([]string{"Line", "Command", "Status"}, rows, func(row, col int) (lipgloss.Style, bool) {
		if col != 2 || row < 0 || row >= len(rows) {
			return lipgloss.Style{}, false
		}
		if rows[row][2] == "ok" {
			return styles.SuccessStyle, true
		}
		return styles.ErrorStyle, true
	})

	styles.PrintStyledln(w, styles.TitleStyle, s.Name)
	fmt.Fprintln(w, t.Render())
}
