package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jeeftor/qmp-macro/internal/logging"
	"github.com/jeeftor/qmp-macro/internal/screen"
	"github.com/jeeftor/qmp-macro/internal/utils"
	"github.com/spf13/cobra"
)

var (
	matchScreenshot string
	matchThreshold  float64
)

// ErrNoMatch is returned by match when --threshold is not reached
var ErrNoMatch = errors.New("region below threshold")

// matchCmd represents the match command
var matchCmd = &cobra.Command{
	Use:   "match [vmid] [image] [x] [y] [width] [height]",
	Short: "Report how much of a screen region matches a reference image",
	Long: `Compare a reference image against a region of the VM screen and print
the percentage of identical pixels. This is the same comparison a
screen_compare_key_click line makes, so it is the quickest way to pick
its threshold.

With --screenshot the region is read from a saved screenshot and no VM
is needed. With --threshold the command exits non-zero below it.
Put -- before the arguments when x or y is negative.

Examples:
  qmp-macro match 106 refs/login.png 320 180 200 40
  qmp-macro match --screenshot screen.png refs/login.png 320 180 200 40
  qmp-macro match 106 refs/login.png 320 180 200 40 --threshold 95`,
	Args: cobra.RangeArgs(5, 6),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			vmid string
			rest = args
		)
		if matchScreenshot == "" || len(args) == 6 {
			var err error
			vmid, rest, err = resolver.SplitVMID(args, 5)
			if err != nil && matchScreenshot == "" {
				return utils.WithExitCode(err, utils.ExitCodeValidation)
			}
			if matchScreenshot != "" {
				rest = args[len(args)-5:]
			}
		}

		path := rest[0]
		region, err := parseRegionArgs(rest[1:])
		if err != nil {
			return utils.WithExitCode(err, utils.ExitCodeValidation)
		}

		var percent float64
		if matchScreenshot != "" {
			capturer, err := screen.NewFileCapturer(matchScreenshot)
			if err != nil {
				return utils.FileSystemError("load screenshot", matchScreenshot, err)
			}
			percent, err = matchPercent(capturer, path, region)
			if err != nil {
				return err
			}
		} else {
			exec := utils.NewCommandExecutor(vmid, "match")
			if err := exec.ConnectToVM(ConnectToVM); err != nil {
				return err
			}
			percent, err = matchPercent(exec.Client, path, region)
			exec.Finish(err)
			if err != nil {
				return err
			}
		}

		fmt.Printf("%.2f%%\n", percent)
		return checkThreshold(cmd.Flags().Changed("threshold"), path, percent, matchThreshold)
	},
}

func init() {
	matchCmd.Flags().StringVar(&matchScreenshot, "screenshot", "", "read the region from a saved screenshot instead of a VM")
	matchCmd.Flags().Float64Var(&matchThreshold, "threshold", 0, "exit non-zero when the match percentage is below this")
	rootCmd.AddCommand(matchCmd)
}

// matchRegion is x, y, width, height
type matchRegion [4]int

// parseRegionArgs takes the same fields as a script gate: signed x and y,
// non-negative width and height. Off-screen regions fail at capture time.
func parseRegionArgs(args []string) (matchRegion, error) {
	var r matchRegion
	names := []string{"x", "y", "width", "height"}
	for i, name := range names {
		v, err := strconv.Atoi(args[i])
		if err != nil {
			return r, fmt.Errorf("invalid %s %q: expected an integer", name, args[i])
		}
		if i >= 2 && v < 0 {
			return r, fmt.Errorf("invalid %s %q: must not be negative", name, args[i])
		}
		r[i] = v
	}
	return r, nil
}

// matchPercent compares the reference image at path against the region
func matchPercent(c screen.Capturer, path string, r matchRegion) (float64, error) {
	logging.CompareScreen(path, r[0], r[1], r[2], r[3])
	ratio, err := screen.NewMatcher(c, nil).MatchFile(path, r[0], r[1], r[2], r[3])
	if err != nil {
		return 0, err
	}
	return ratio * 100, nil
}

func checkThreshold(enabled bool, path string, percent, threshold float64) error {
	if !enabled {
		return nil
	}
	matched := percent >= threshold
	logging.ScreenCompared(path, percent, threshold, matched)
	if !matched {
		return utils.WithExitCode(fmt.Errorf("%w: %.2f%% < %.2f%%", ErrNoMatch, percent, threshold), utils.ExitCodeGeneral)
	}
	return nil
}
