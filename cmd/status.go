package cmd

import (
	"fmt"

	"github.com/jeeftor/qmp-macro/internal/qmp"
	"github.com/jeeftor/qmp-macro/internal/utils"
	"github.com/spf13/cobra"
)

var statusScreen bool

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status [vmid]",
	Short: "Query VM status",
	Long: `Query the run state of a VM over QMP. Useful to check the socket
before running a script.

The VM ID can be provided as an argument or set via QMP_MACRO_VM_ID.

Examples:
  qmp-macro status 106
  qmp-macro status 106 --screen`,
	Args: cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := resolver.ResolveVMIDWithInfo(args, 0)
		if err != nil {
			return utils.WithExitCode(err, utils.ExitCodeValidation)
		}

		return utils.ExecuteWithConnection(info.Value, "status", ConnectToVM, func(client *qmp.Client) error {
			status, err := client.QueryStatus()
			if err != nil {
				return fmt.Errorf("querying VM status: %w", err)
			}

			fmt.Printf("VM %s (%s)\n", info.Value, client.SocketPath())
			fmt.Printf("  Running: %v\n", status.Running)
			fmt.Printf("  Status:  %s\n", status.Status)

			if statusScreen {
				width, height, err := client.ScreenSize()
				if err != nil {
					return err
				}
				fmt.Printf("  Screen:  %dx%d\n", width, height)
			}
			return nil
		})
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusScreen, "screen", false, "also report the screen size used for mouse_move")
	rootCmd.AddCommand(statusCmd)
}
