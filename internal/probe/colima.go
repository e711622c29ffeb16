package probe

import (
	"context"

	"github.com/lvonsydow/colama/internal/config"
)

// Colima starts and stops the VM that hosts the docker daemon.
type Colima struct {
	runner  Runner
	profile string
}

// NewColima returns a supervisor for the given colima profile.
func NewColima(runner Runner, profile string) *Colima {
	if profile == "" {
		profile = config.DefaultProfile
	}
	return &Colima{runner: runner, profile: profile}
}

// Profile returns the colima profile name.
func (c *Colima) Profile() string {
	return c.profile
}

// Start runs `colima start` and waits for it to finish.
func (c *Colima) Start(ctx context.Context) error {
	_, err := c.runner.Run(ctx, "colima", "start", "--profile", c.profile)
	return err
}

// Stop runs `colima stop` and waits for it to finish.
func (c *Colima) Stop(ctx context.Context) error {
	_, err := c.runner.Run(ctx, "colima", "stop", "--profile", c.profile)
	return err
}

// Status reports whether colima considers the profile running.
func (c *Colima) Status(ctx context.Context) bool {
	_, err := c.runner.Run(ctx, "colima", "status", "--profile", c.profile)
	return err == nil
}
