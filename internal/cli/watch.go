package cli

import (
	"github.com/spf13/cobra"

	"github.com/lvonsydow/colama/internal/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show the menu in the terminal",
	Long: `Show the menu in the terminal and keep it in sync, like the menu bar item.

Keys: j/k to move, Enter to start or stop the selected container, s/S to
start or stop Docker, x to remove stopped containers, r to refresh, q to quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setupSearchPath(cmd.Context(), nil, nil); err != nil {
			return err
		}
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()
		return tui.Run(cmd.Context(), rt, opts.menuOptions())
	},
}
