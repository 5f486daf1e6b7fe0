package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jeeftor/qmp-macro/internal/constants"
	"github.com/jeeftor/qmp-macro/internal/logging"
	"github.com/jeeftor/qmp-macro/internal/params"
	"github.com/jeeftor/qmp-macro/internal/qmp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile    string
	logLevel   string
	logFile    string
	socketPath string

	envKeyReplacer = strings.NewReplacer(".", "_")
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "qmp-macro",
	Short: "Replay input macros against QEMU virtual machines",
	Long: `qmp-macro replays recorded keyboard and mouse scripts into a QEMU guest
over QMP (QEMU Machine Protocol). Lines can be gated on a region of the
guest screen matching a reference image.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Default to info level if not specified
		if logLevel == "" {
			logLevel = "info"
		}

		// Initialize logging with the specified level
		logging.InitWithLevel(logLevel)

		if logFile != "" {
			logging.EnableFileOutput(logFile, viper.GetInt("log_max_size_mb"), viper.GetInt("log_max_backups"))
		}

		logging.Debug("Logging initialized", "level", logLevel, "file", logFile)
		logging.Debug("Using socket path", "path", GetSocketPath())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Close()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.qmp-macro.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write JSON logs to this file (rotated)")
	rootCmd.PersistentFlags().StringVarP(&socketPath, "socket", "s", "", "custom socket path (for SSH tunneling)")

	// Bind flags to Viper
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))
	viper.BindPFlag("socket", rootCmd.PersistentFlags().Lookup("socket"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// QMP_MACRO_SOCKET, QMP_MACRO_KEYBOARD_DELAY, ...
	viper.SetEnvPrefix("QMP_MACRO")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath("/etc/qmp-macro")

		viper.SetConfigType("yaml")
		viper.SetConfigName(".qmp-macro")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error occurred
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	}

	// Pick up values from config file or env vars
	if logLevel == "" {
		logLevel = viper.GetString("log_level")
	}
	if logFile == "" {
		logFile = viper.GetString("log_file")
	}
	socketPath = viper.GetString("socket")
}

func setDefaults() {
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_file", "")
	viper.SetDefault("log_max_size_mb", 10)
	viper.SetDefault("log_max_backups", 3)
	viper.SetDefault("socket", "")
	viper.SetDefault("vm_id", "")
	viper.SetDefault("keyboard.delay", int(constants.DefaultKeyDelay/time.Millisecond))
	viper.SetDefault("screen.width", 0)
	viper.SetDefault("screen.height", 0)
	viper.SetDefault("screenshot.format", "")
	viper.SetDefault("screenshot.remote_temp_path", "")
}

// GetSocketPath returns the socket path from config, env var, or flag
func GetSocketPath() string {
	if socketPath != "" {
		return socketPath
	}
	return viper.GetString("socket")
}

// resolver resolves positional VM IDs and configured defaults
var resolver = params.NewParameterResolver()

// ConnectToVM creates and connects a QMP client for the specified VM
func ConnectToVM(vmid string) (*qmp.Client, error) {
	socketPath := GetSocketPath()
	var client *qmp.Client

	err := logging.LogOperation("qmp_connect", vmid, func() error {
		if socketPath != "" {
			client = qmp.NewWithSocketPath(vmid, socketPath)
		} else {
			client = qmp.New(vmid)
		}

		logging.Connect(client.SocketPath())
		return client.Connect()
	})
	if err != nil {
		return nil, err
	}

	if err := applyScreenSize(client); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// applyScreenSize fixes the pointer scaling size when screen.width/height are configured
func applyScreenSize(client *qmp.Client) error {
	width, height, ok, err := resolver.ResolveScreenDimensions()
	if err != nil || !ok {
		return err
	}
	client.SetScreenSize(width, height)
	return nil
}
