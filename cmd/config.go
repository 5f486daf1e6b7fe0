package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/jeeftor/qmp-macro/internal/filesystem"
	"github.com/jeeftor/qmp-macro/internal/logging"
	"github.com/jeeftor/qmp-macro/internal/styles"
	"github.com/jeeftor/qmp-macro/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Setting describes one configuration key
type Setting struct {
	Key         string
	Description string
}

// settings lists every key the commands read, in display order
var settings = []Setting{
	{"vm_id", "Default VM ID"},
	{"socket", "QMP socket path (overrides the /var/run/qemu-server default)"},
	{"log_level", "Log level (trace, debug, info, warn, error)"},
	{"log_file", "JSON log file, rotated"},
	{"log_max_size_mb", "Log file size before rotation"},
	{"log_max_backups", "Rotated log files to keep"},
	{"keyboard.delay", "Milliseconds between typed characters"},
	{"screen.width", "Guest screen width for mouse_move (0 = probe)"},
	{"screen.height", "Guest screen height for mouse_move (0 = probe)"},
	{"screenshot.format", "Default screenshot format (png, ppm, jpg)"},
	{"screenshot.remote_temp_path", "Dump path on the QEMU host when tunnelling"},
}

// envName returns the environment variable that overrides key
func envName(key string) string {
	return "QMP_MACRO_" + strings.ToUpper(envKeyReplacer.Replace(key))
}

// settingSource reports where the effective value of key comes from
func settingSource(key string) string {
	if _, ok := os.LookupEnv(envName(key)); ok {
		return "env"
	}
	if viper.InConfig(key) {
		return "config"
	}
	return "default"
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and create configuration",
	Long: `Show and create qmp-macro configuration.

Configuration files named .qmp-macro.yaml are searched in the current
directory, $HOME and /etc/qmp-macro. QMP_MACRO_* environment variables
override the file, and command-line flags override both.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display effective configuration values and their sources",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if used := viper.ConfigFileUsed(); used != "" {
			logging.UserInfof("Config file: %s", used)
		} else {
			logging.UserInfof("%s", "No config file loaded")
		}
		fmt.Println(configTable().Render())
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Display configuration file search paths",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, p := range configSearchPaths() {
			style, mark := styles.MutedStyle, "○"
			if filesystem.CheckFileExists(p) == nil {
				style, mark = styles.SuccessStyle, "●"
			}
			styles.PrintStyledln(os.Stdout, style, mark+" "+p)
		}
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [config-file]",
	Short: "Create a sample configuration file",
	Long: `Write a sample configuration file with every setting and its default.

Examples:
  qmp-macro config init                # ~/.qmp-macro.yaml
  qmp-macro config init .qmp-macro.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) > 0 {
			path = args[0]
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("could not determine home directory: %w", err)
			}
			path = filepath.Join(home, ".qmp-macro.yaml")
		}
		if err := writeSampleConfig(path); err != nil {
			return utils.FileSystemError("write config", path, err)
		}
		logging.Successf("Created configuration file: %s", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configPathCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func configSearchPaths() []string {
	if cfgFile != "" {
		return []string{cfgFile}
	}
	paths := []string{".qmp-macro.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".qmp-macro.yaml"))
	}
	return append(paths, "/etc/qmp-macro/.qmp-macro.yaml")
}

func configTable() *table.Table {
	rows := make([][]string, 0, len(settings))
	for _, s := range settings {
		value := viper.GetString(s.Key)
		if value == "" {
			value = "(unset)"
		}
		rows = append(rows, []string{s.Key, value, settingSource(s.Key), envName(s.Key)})
	}
	return styles.NewTable([]string{"Key", "Value", "Source", "Environment"}, rows, func(row, col int) (lipgloss.Style, bool) {
		if col == 2 && row >= 0 && row < len(rows) && rows[row][2] != "default" {
			return styles.InfoStyle, true
		}
		return lipgloss.Style{}, false
	})
}

// writeSampleConfig writes every setting with its current default. An
// existing file is never overwritten.
func writeSampleConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := filesystem.EnsureDirectoryForFile(path); err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("# qmp-macro configuration\n")
	section := ""
	for _, s := range settings {
		key := s.Key
		indent := ""
		if i := strings.IndexByte(key, '.'); i >= 0 {
			if key[:i] != section {
				section = key[:i]
				fmt.Fprintf(&b, "\n%s:\n", section)
			}
			key, indent = key[i+1:], "  "
		} else if section != "" {
			section = ""
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s# %s (%s)\n", indent, s.Description, envName(s.Key))
		if v, ok := viper.Get(s.Key).(string); ok {
			fmt.Fprintf(&b, "%s%s: %q\n", indent, key, v)
		} else {
			fmt.Fprintf(&b, "%s%s: %v\n", indent, key, viper.Get(s.Key))
		}
	}

	return os.WriteFile(path, []byte(b.String()), 0644)
}
