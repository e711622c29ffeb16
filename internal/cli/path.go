package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lvonsydow/colama/internal/config"
	"github.com/lvonsydow/colama/internal/prompt"
)

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the directory colima and docker are run from",
	Long: `Show the directory colima and docker are run from.

The directory is stored in ~/.colama/path.txt and put in front of PATH at
every start.`,
	Args: cobra.NoArgs,
	RunE: runPathShow,
}

var pathSetCmd = &cobra.Command{
	Use:   "set <dir>",
	Short: "Store the search path",
	Args:  cobra.ExactArgs(1),
	RunE:  runPathSet,
}

var pathSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Ask for the search path again",
	Args:  cobra.NoArgs,
	RunE:  runPathSetup,
}

func init() {
	pathCmd.AddCommand(pathSetCmd)
	pathCmd.AddCommand(pathSetupCmd)
}

func runPathShow(cmd *cobra.Command, args []string) error {
	dir, err := config.LoadSearchPath()
	if err != nil {
		return err
	}
	if dir == "" {
		fmt.Fprintln(cmd.OutOrStdout(), styleHint.Render("No search path set. Run 'colama path setup'."))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), dir)
	return nil
}

func runPathSet(cmd *cobra.Command, args []string) error {
	dir := args[0]
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s is not a directory\n", styleWarning.Render("Warning:"), dir)
	}
	if err := config.SaveSearchPath(dir); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Search path set to %s\n", styleValue.Render(dir))
	return nil
}

func runPathSetup(cmd *cobra.Command, args []string) error {
	current, err := config.LoadSearchPath()
	if err != nil {
		return err
	}
	if current == "" {
		current = config.DefaultSearchPath
	}

	answer, ok, err := prompt.Default().Ask(cmd.Context(), "¡Hola!", "Directory where colima and docker are installed", current)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing changed.")
		return nil
	}
	return runPathSet(cmd, []string{answer})
}
