package cmd

import (
	"fmt"
	"os"

	"github.com/jeeftor/qmp-macro/internal/keys"
	"github.com/jeeftor/qmp-macro/internal/qmp"
	"github.com/jeeftor/qmp-macro/internal/styles"
	"github.com/spf13/cobra"
)

// keysCmd represents the keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the key names scripts can use",
	Long: `List the key names accepted by key: and screen_compare_key_click: lines,
with the QEMU qcode each one sends. Any other single character is typed
as that character.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := keyRows()
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, styles.NewTable([]string{"Name", "QEMU qcode"}, rows, nil).Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
}

func keyRows() ([][]string, error) {
	var rows [][]string
	for _, token := range keys.Tokens() {
		k, _ := keys.Lookup(token)
		code, err := qmp.NamedQcode(k)
		if err != nil {
			return nil, err
		}
		rows = append(rows, []string{token, code})
	}
	return rows, nil
}
