// Package cli implements the colama commands.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lvonsydow/colama/internal/config"
	"github.com/lvonsydow/colama/internal/menu"
	"github.com/lvonsydow/colama/internal/probe"
)

// runOptions holds the flags shared by every command. None of them are
// persisted.
type runOptions struct {
	backend            string
	profile            string
	commandTimeout     time.Duration
	probeTimeout       time.Duration
	statusInterval     time.Duration
	containersInterval time.Duration
	includeStopped     bool
	foreground         bool
}

var opts runOptions

var rootCmd = &cobra.Command{
	Use:   "colama",
	Short: "Menu bar supervisor for Colima and Docker",
	Long: `Co-lama keeps a menu bar item in sync with the Docker daemon that Colima runs.

Without a subcommand it starts the menu bar item. The subcommands run the
same operations once from the shell.`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	PersistentPreRunE: validateOptions,
	RunE:              runRoot,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.backend, "backend", probe.BackendSDK, "Docker backend: sdk (Engine API) or cli (docker binary)")
	flags.StringVar(&opts.profile, "profile", config.DefaultProfile, "Colima profile")
	flags.DurationVar(&opts.commandTimeout, "command-timeout", probe.DefaultCommandTimeout, "Timeout for start, stop and prune commands")
	flags.DurationVar(&opts.probeTimeout, "probe-timeout", probe.DefaultProbeTimeout, "Timeout for reachability and list probes")
	flags.DurationVar(&opts.statusInterval, "status-interval", menu.DefaultStatusInterval, "How often the daemon status is probed")
	flags.DurationVar(&opts.containersInterval, "containers-interval", menu.DefaultContainersInterval, "How often the container list is probed")
	flags.BoolVar(&opts.includeStopped, "all", true, "Include stopped containers")

	rootCmd.Flags().BoolVar(&opts.foreground, "foreground", false, "Run without the menu bar item, logging menu changes")

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(containerCmd)
	rootCmd.AddCommand(containersCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(watchCmd)
}

func validateOptions(cmd *cobra.Command, args []string) error {
	switch opts.backend {
	case probe.BackendCLI, probe.BackendSDK:
	default:
		return fmt.Errorf("unknown backend %q (want %q or %q)", opts.backend, probe.BackendCLI, probe.BackendSDK)
	}
	for name, d := range map[string]time.Duration{
		"command-timeout":     opts.commandTimeout,
		"probe-timeout":       opts.probeTimeout,
		"status-interval":     opts.statusInterval,
		"containers-interval": opts.containersInterval,
	} {
		if d <= 0 {
			return fmt.Errorf("--%s must be positive, got %s", name, d)
		}
	}
	return nil
}

func (o runOptions) menuOptions() menu.Options {
	return menu.Options{
		StatusInterval:     o.statusInterval,
		ContainersInterval: o.containersInterval,
		IncludeStopped:     o.includeStopped,
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	if opts.foreground {
		return runForeground(cmd.Context())
	}
	return runTray(cmd.Context())
}
