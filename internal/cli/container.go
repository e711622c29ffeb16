package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lvonsydow/colama/internal/probe"
)

var containerCmd = &cobra.Command{
	Use:   "container",
	Short: "Start or stop a single container",
}

var containerStartCmd = &cobra.Command{
	Use:   "start <id>",
	Short: "Start a stopped container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runContainerOp(cmd, "start container "+args[0], func(ctx context.Context, rt *probe.Runtime) error {
			return rt.StartContainer(ctx, args[0])
		})
	},
}

var containerStopCmd = &cobra.Command{
	Use:   "stop <id>",
	Short: "Stop a running container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runContainerOp(cmd, "stop container "+args[0], func(ctx context.Context, rt *probe.Runtime) error {
			return rt.StopContainer(ctx, args[0])
		})
	},
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove stopped containers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runContainerOp(cmd, "remove stopped containers", func(ctx context.Context, rt *probe.Runtime) error {
			return rt.PruneStoppedContainers(ctx)
		})
	},
}

func init() {
	containerCmd.AddCommand(containerStartCmd)
	containerCmd.AddCommand(containerStopCmd)
}

// runContainerOp runs a container command after checking the daemon is up.
func runContainerOp(cmd *cobra.Command, action string, op func(context.Context, *probe.Runtime) error) error {
	if err := setupSearchPath(cmd.Context(), nil, nil); err != nil {
		return err
	}
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	if !rt.IsUp(cmd.Context()) {
		return errDockerNotRunning
	}
	if err := op(cmd.Context(), rt); err != nil {
		return describeFailure(action, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", styleSuccess.Render("Done:"), action)
	return nil
}
