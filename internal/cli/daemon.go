package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lvonsydow/colama/internal/probe"
)

var errDockerNotRunning = errors.New("docker is not running; start it with 'colama start'")

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start Colima and its Docker daemon",
	Args:  cobra.NoArgs,
	RunE:  runStart,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop Colima and its Docker daemon",
	Args:  cobra.NoArgs,
	RunE:  runStop,
}

func runStart(cmd *cobra.Command, args []string) error {
	if err := setupSearchPath(cmd.Context(), nil, nil); err != nil {
		return err
	}
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	out := cmd.OutOrStdout()
	if rt.IsUp(cmd.Context()) {
		fmt.Fprintln(out, "Docker is already running.")
		return nil
	}

	fmt.Fprint(out, "Starting Docker...")
	if err := rt.StartRuntime(cmd.Context()); err != nil {
		fmt.Fprintln(out)
		return describeFailure("start Docker", err)
	}
	fmt.Fprintln(out, " "+styleSuccess.Render("started."))
	return nil
}

func runStop(cmd *cobra.Command, args []string) error {
	if err := setupSearchPath(cmd.Context(), nil, nil); err != nil {
		return err
	}
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	out := cmd.OutOrStdout()
	if !rt.IsUp(cmd.Context()) {
		fmt.Fprintln(out, "Docker is not running.")
		return nil
	}

	fmt.Fprint(out, "Stopping Docker...")
	if err := rt.StopRuntime(cmd.Context()); err != nil {
		fmt.Fprintln(out)
		return describeFailure("stop Docker", err)
	}
	fmt.Fprintln(out, " "+styleSuccess.Render("stopped."))
	return nil
}

// describeFailure turns a command error into the message shown to the user.
func describeFailure(action string, err error) error {
	if probe.IsTimeout(err) {
		return fmt.Errorf("failed to %s: timed out after %s", action, opts.commandTimeout)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
