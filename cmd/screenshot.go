package cmd

import (
	"fmt"
	"image"
	"regexp"
	"strconv"
	"strings"

	"github.com/jeeftor/qmp-macro/internal/filesystem"
	"github.com/jeeftor/qmp-macro/internal/logging"
	"github.com/jeeftor/qmp-macro/internal/qmp"
	"github.com/jeeftor/qmp-macro/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	screenshotFormat string
	screenshotRegion string
)

// screenshotCmd represents the screenshot command
var screenshotCmd = &cobra.Command{
	Use:   "screenshot [vmid] [output-file]",
	Short: "Save the VM screen, or a region of it, to a file",
	Long: `Save the VM screen to a file.

Use --region to save only the part a screen_compare_key_click line will
check; the result can be used directly as that line's reference image.
Supported formats: png, ppm, jpg (taken from --format, screenshot.format
in the config, or the file extension, in that order).

When the socket is tunnelled from another host, --remote-temp leaves the
raw PPM dump on the QEMU host instead.

Examples:
  qmp-macro screenshot 106 screen.png
  qmp-macro screenshot 106 refs/login.png --region 200x40+320+180
  qmp-macro screenshot 106 screen --format ppm
  qmp-macro screenshot 106 screen.ppm --socket /tmp/qmp-106.sock --remote-temp /tmp/qmp-screenshot.ppm`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		vmid, rest, err := resolver.SplitVMID(args, 1)
		if err != nil {
			return utils.WithExitCode(err, utils.ExitCodeValidation)
		}

		output := withFormatExtension(rest[0], screenshotFormat)

		var region *image.Rectangle
		if screenshotRegion != "" {
			r, err := parseRegion(screenshotRegion)
			if err != nil {
				return utils.WithExitCode(err, utils.ExitCodeValidation)
			}
			region = &r
		}

		return utils.ExecuteWithConnection(vmid, "screenshot", ConnectToVM, func(client *qmp.Client) error {
			return takeScreenshot(client, output, region)
		})
	},
}

func init() {
	screenshotCmd.Flags().StringVarP(&screenshotFormat, "format", "f", "", "output format (png, ppm, jpg)")
	screenshotCmd.Flags().StringVar(&screenshotRegion, "region", "", "save only WIDTHxHEIGHT+X+Y")
	screenshotCmd.Flags().String("remote-temp", "", "leave the dump at this path on the QEMU host")

	viper.BindPFlag("screenshot.format", screenshotCmd.Flags().Lookup("format"))
	viper.BindPFlag("screenshot.remote_temp_path", screenshotCmd.Flags().Lookup("remote-temp"))
	rootCmd.AddCommand(screenshotCmd)
}

func takeScreenshot(client *qmp.Client, output string, region *image.Rectangle) error {
	if remote := resolver.ResolveRemoteTempPath(); remote != "" {
		logging.TakeScreenshot(remote, "ppm")
		return client.ScreenDump(output, remote)
	}

	format := filesystem.GetFileExtension(output)
	logging.TakeScreenshot(output, format)

	var (
		img image.Image
		err error
	)
	if region != nil {
		img, err = client.CaptureRegion(region.Min.X, region.Min.Y, region.Dx(), region.Dy())
	} else {
		img, err = client.Screen()
	}
	if err != nil {
		return err
	}

	if err := filesystem.SaveImage(output, img); err != nil {
		return utils.FileSystemError("save screenshot", output, err)
	}

	b := img.Bounds()
	logging.SaveFile(output, fmt.Sprintf("%dx%d %s", b.Dx(), b.Dy(), format))
	return nil
}

// withFormatExtension appends the configured format as an extension when
// the output file does not already carry it
func withFormatExtension(output, flagFormat string) string {
	format := strings.ToLower(flagFormat)
	if format == "" {
		format = strings.ToLower(viper.GetString("screenshot.format"))
	}
	if format == "" || filesystem.GetFileExtension(output) == format {
		return output
	}
	if format == "jpeg" && filesystem.GetFileExtension(output) == "jpg" {
		return output
	}
	return output + "." + format
}

var regionPattern = regexp.MustCompile(`^(\d+)x(\d+)\+(\d+)\+(\d+)$`)

// parseRegion parses WIDTHxHEIGHT+X+Y
func parseRegion(s string) (image.Rectangle, error) {
	m := regionPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return image.Rectangle{}, fmt.Errorf("invalid region %q: expected WIDTHxHEIGHT+X+Y", s)
	}

	n := make([]int, 4)
	for i := range n {
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("invalid region %q: %w", s, err)
		}
		n[i] = v
	}
	if n[0] == 0 || n[1] == 0 {
		return image.Rectangle{}, fmt.Errorf("invalid region %q: width and height must be positive", s)
	}
	return image.Rect(n[2], n[3], n[2]+n[0], n[3]+n[1]), nil
}
