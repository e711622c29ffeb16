package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lvonsydow/colama/internal/config"
	"github.com/lvonsydow/colama/internal/models"
)

var outputFormat string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the Docker daemon is up",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var containersCmd = &cobra.Command{
	Use:     "containers",
	Aliases: []string{"ls"},
	Short:   "List containers",
	Args:    cobra.NoArgs,
	RunE:    runContainers,
}

func init() {
	for _, c := range []*cobra.Command{statusCmd, containersCmd} {
		c.Flags().StringVarP(&outputFormat, "output", "o", outputText, "Output format: text, yaml or json")
	}
}

// statusReport is the result of one probe cycle.
type statusReport struct {
	Status     models.RuntimeStatus `yaml:"status" json:"status"`
	Profile    string               `yaml:"profile" json:"profile"`
	Backend    string               `yaml:"backend" json:"backend"`
	SearchPath string               `yaml:"search_path,omitempty" json:"search_path,omitempty"`
	Running    int                  `yaml:"running_containers" json:"running_containers"`
	Total      int                  `yaml:"total_containers" json:"total_containers"`
	Instance   *models.InstanceInfo `yaml:"instance,omitempty" json:"instance,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := validateOutput(outputFormat); err != nil {
		return err
	}
	if err := setupSearchPath(cmd.Context(), nil, nil); err != nil {
		return err
	}
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	report := statusReport{
		Status:  models.StatusFromProbe(rt.IsUp(cmd.Context())),
		Profile: opts.profile,
		Backend: opts.backend,
	}
	report.SearchPath, _ = config.LoadSearchPath()
	if running, info, err := config.IsInstanceRunning(); err == nil && running {
		report.Instance = info
	}
	if report.Status == models.StatusRunning {
		snapshot, err := rt.ListContainers(cmd.Context(), true)
		if err != nil {
			return err
		}
		report.Running = snapshot.RunningCount()
		report.Total = len(snapshot)
	}
	return writeStatus(cmd.OutOrStdout(), outputFormat, report)
}

func writeStatus(w io.Writer, format string, r statusReport) error {
	if format != outputText {
		return writeStructured(w, format, r)
	}

	state := styleError.Render("not running")
	if r.Status == models.StatusRunning {
		state = styleSuccess.Render("running")
	}
	fmt.Fprintf(w, "Docker is %s.\n", state)
	fmt.Fprintf(w, "  %s %s\n", styleLabel.Render("Profile:    "), styleValue.Render(r.Profile))
	fmt.Fprintf(w, "  %s %s\n", styleLabel.Render("Backend:    "), styleValue.Render(r.Backend))
	if r.SearchPath != "" {
		fmt.Fprintf(w, "  %s %s\n", styleLabel.Render("Search path:"), styleValue.Render(r.SearchPath))
	}
	if r.Status == models.StatusRunning {
		fmt.Fprintf(w, "  %s %d running, %d total\n", styleLabel.Render("Containers: "), r.Running, r.Total)
	}
	if r.Instance != nil {
		fmt.Fprintf(w, "  %s %s mode, PID %d\n", styleLabel.Render("Menu:       "), r.Instance.Mode, r.Instance.PID)
	}
	return nil
}

func runContainers(cmd *cobra.Command, args []string) error {
	if err := validateOutput(outputFormat); err != nil {
		return err
	}
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
	snapshot, err := rt.ListContainers(cmd.Context(), opts.includeStopped)
	if err != nil {
		return err
	}
	return writeContainers(cmd.OutOrStdout(), outputFormat, snapshot)
}

func writeContainers(w io.Writer, format string, s models.Snapshot) error {
	if format != outputText {
		if s == nil {
			s = models.Snapshot{}
		}
		return writeStructured(w, format, s)
	}

	if len(s) == 0 {
		fmt.Fprintln(w, styleHint.Render("No containers."))
		return nil
	}
	for _, r := range s {
		state := styleError.Render("stopped")
		if r.Running {
			state = styleSuccess.Render("running")
		}
		fmt.Fprintf(w, "  %s  %-7s  %s\n", r.ID, state, r.Label())
	}
	return nil
}
