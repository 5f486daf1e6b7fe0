package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jeeftor/qmp-macro/internal/interp"
	"github.com/jeeftor/qmp-macro/internal/logging"
	"github.com/jeeftor/qmp-macro/internal/script"
	"github.com/jeeftor/qmp-macro/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	runStartDelay time.Duration
	runRepeat     int
	runDuration   time.Duration
	runDryRun     bool
	runTUI        bool
	runStrict     bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [vmid] [script]",
	Short: "Replay a macro script into a VM",
	Long: `Replay a macro script into a VM.

Each non-blank line is one command:
` + grammarHelp() + `
Malformed lines run as a 1ms wait and are reported as warnings.

Examples:
  qmp-macro run 106 login.macro
  qmp-macro run 106 farm.macro --repeat 0 --duration 2h --start-delay 5s
  QMP_MACRO_VM_ID=106 qmp-macro run login.macro
  qmp-macro run --dry-run login.macro`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		vmid, rest, err := resolver.SplitVMID(args, 1)
		if err != nil && !runDryRun {
			return utils.WithExitCode(err, utils.ExitCodeValidation)
		}
		if rest == nil {
			rest = args[len(args)-1:]
		}
		return runScript(vmid, rest[0])
	},
}

// scriptGrammar is the line syntax shown in the run help, each with a line
// that parses under it
var scriptGrammar = []struct {
	syntax  string
	example string
}{
	{"key_sequence: {text}", "key_sequence: hello"},
	{"key: {char|key name} {press|release|click}", "key: meta click"},
	{"wait: {milliseconds}", "wait: 250"},
	{"mouse_click: {left|right|middle}", "mouse_click: left"},
	{"mouse_down: {left|right|middle}", "mouse_down: right"},
	{"mouse_release: {left|right|middle}", "mouse_release: middle"},
	{"mouse_move: {x} {y}", "mouse_move: 500 200"},
	{"mouse_move_relative: {dx} {dy}", "mouse_move_relative: -10 5"},
	{"screen_compare_key_click: {char|key name} {x} {y} {width} {height} {threshold} {image path}",
		"screen_compare_key_click: g 400 100 40 40 95.5 refs/login.png"},
}

func grammarHelp() string {
	var b strings.Builder
	for _, g := range scriptGrammar {
		b.WriteString("  " + g.syntax + "\n")
	}
	return b.String()
}

func init() {
	runCmd.Flags().DurationVar(&runStartDelay, "start-delay", 0, "wait before the first pass")
	runCmd.Flags().IntVarP(&runRepeat, "repeat", "r", 1, "number of passes (0 = until --duration elapses or interrupted)")
	runCmd.Flags().DurationVar(&runDuration, "duration", 0, "stop starting new passes after this long")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "log actions without connecting; screen checks always match")
	runCmd.Flags().BoolVar(&runTUI, "tui", false, "show a live view of the run")
	runCmd.Flags().BoolVar(&runStrict, "strict", false, "refuse to run a script with malformed lines")
	runCmd.Flags().Int("key-delay", 0, "milliseconds between typed characters (overrides keyboard.delay)")

	viper.BindPFlag("keyboard.delay", runCmd.Flags().Lookup("key-delay"))
	rootCmd.AddCommand(runCmd)
}

func runScript(vmid, path string) (err error) {
	if runRepeat < 0 {
		return utils.WithExitCode(fmt.Errorf("--repeat must be >= 0"), utils.ExitCodeValidation)
	}

	logging.LoadFile(path)
	s, err := script.LoadFile(path)
	if err != nil {
		return utils.FileSystemError("load script", path, err)
	}
	if !s.Valid() {
		logging.UserWarnf("%d malformed line(s) in %s will run as 1ms waits", len(s.Diagnostics), path)
		if runStrict {
			return utils.WithExitCode(fmt.Errorf("script %s has %d malformed line(s)", path, len(s.Diagnostics)), utils.ExitCodeValidation)
		}
	}

	sess, err := openSession(vmid, runDryRun)
	if err != nil {
		return err
	}
	defer func() { sess.close(err) }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := interp.RepeatOptions{
		StartDelay: runStartDelay,
		Passes:     runRepeat,
		Duration:   runDuration,
	}

	if runTUI {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return runWithTUI(ctx, sess, s, opts)
		}
		logging.UserWarnf("--tui needs a terminal; falling back to log output")
	}

	return runPlain(ctx, sess, s, opts)
}

func runPlain(ctx context.Context, sess *session, s *script.Script, opts interp.RepeatOptions) error {
	logging.Start(fmt.Sprintf("%s on %s (%d commands)", s.Name, sess.target, len(s.Lines)))
	start := time.Now()

	in := sess.newInterpreter()
	passes, err := in.Repeat(ctx, s.Commands(), opts, func(pass int, elapsed time.Duration) {
		logging.Complete(fmt.Sprintf("pass %d in %s", pass, elapsed.Round(time.Millisecond)))
	})
	if err != nil {
		logging.Fail(s.Name, err.Error())
		return err
	}

	logging.Complete(fmt.Sprintf("%s: %d pass(es) in %s", s.Name, passes, time.Since(start).Round(time.Millisecond)))
	return nil
}
