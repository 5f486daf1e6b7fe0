package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// These variables will be set during the build using ldflags
var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildTime    = "unknown"
)

var (
	versionShort bool
	versionJSON  bool
)

// VersionInfo describes the running binary
type VersionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Built   string `json:"built"`
	Go      string `json:"go"`
	OSArch  string `json:"os_arch"`
}

// formatBuildTime accepts RFC3339 or a unix timestamp
func formatBuildTime(raw string) string {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.Format("2006-01-02 15:04:05 MST")
	}
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC().Format("2006-01-02 15:04:05 MST")
	}
	return raw
}

// currentVersion fills commit and build time from the embedded VCS stamp
// when the binary was built without ldflags
func currentVersion() VersionInfo {
	info := VersionInfo{
		Version: buildVersion,
		Commit:  buildCommit,
		Built:   formatBuildTime(buildTime),
		Go:      runtime.Version(),
		OSArch:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && info.Commit == "none":
				info.Commit = s.Value
			case s.Key == "vcs.time" && buildTime == "unknown":
				info.Built = formatBuildTime(s.Value)
			}
		}
	}
	return info
}

func printVersion(w io.Writer, info VersionInfo) {
	label := color.New(color.FgWhite)
	rows := []struct {
		name  string
		value string
		c     *color.Color
	}{
		{"Version:", info.Version, color.New(color.FgCyan, color.Bold)},
		{"Built:  ", info.Built, color.New(color.FgYellow)},
		{"Commit: ", info.Commit, color.New(color.FgGreen)},
		{"OS/Arch:", info.OSArch, color.New(color.FgMagenta)},
		{"Go:     ", info.Go, color.New(color.FgRed)},
	}
	for _, r := range rows {
		label.Fprint(w, r.name+" ")
		r.c.Fprintln(w, r.value)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := currentVersion()
		switch {
		case versionShort:
			fmt.Println(info.Version)
		case versionJSON:
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		default:
			printVersion(os.Stdout, info)
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVarP(&versionShort, "short", "n", false, "Print only version number")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version information as JSON")
	rootCmd.AddCommand(versionCmd)
}
