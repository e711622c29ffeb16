package probe

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"

	"github.com/lvonsydow/colama/internal/config"
	"github.com/lvonsydow/colama/internal/models"
)

// DockerSDK talks to the daemon through the Docker Engine API.
type DockerSDK struct {
	cli *client.Client
}

// NewDockerSDK creates an API client. DOCKER_HOST wins when set; otherwise
// the socket of the given colima profile is used if it exists.
func NewDockerSDK(profile string) (*DockerSDK, error) {
	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if os.Getenv("DOCKER_HOST") == "" {
		if sock, err := config.DockerSocket(profile); err == nil && config.FileExists(sock) {
			opts = append(opts, client.WithHost("unix://"+sock))
		}
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &DockerSDK{cli: cli}, nil
}

// Ping checks that the daemon answers.
func (d *DockerSDK) Ping(ctx context.Context) error {
	if _, err := d.cli.Ping(ctx); err != nil {
		return sdkError(ctx, "docker ping", err)
	}
	return nil
}

// List returns the daemon's containers.
func (d *DockerSDK) List(ctx context.Context, all bool) ([]models.ContainerRecord, error) {
	summaries, err := d.cli.ContainerList(ctx, container.ListOptions{All: all})
	if err != nil {
		return nil, sdkError(ctx, "docker ps", err)
	}

	records := make([]models.ContainerRecord, 0, len(summaries))
	for _, s := range summaries {
		if s.ID == "" {
			continue
		}
		records = append(records, models.ContainerRecord{
			ID:      ShortID(s.ID),
			Name:    summaryName(s.Names),
			Image:   summaryImage(s.Image),
			Running: s.State == "running",
		})
	}
	return records, nil
}

// Start starts a container.
func (d *DockerSDK) Start(ctx context.Context, id string) error {
	if err := d.cli.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
		return sdkError(ctx, "docker start", err)
	}
	return nil
}

// Stop stops a container with the daemon's default grace period.
func (d *DockerSDK) Stop(ctx context.Context, id string) error {
	if err := d.cli.ContainerStop(ctx, id, container.StopOptions{}); err != nil {
		return sdkError(ctx, "docker stop", err)
	}
	return nil
}

// Prune removes all stopped containers.
func (d *DockerSDK) Prune(ctx context.Context) error {
	if _, err := d.cli.ContainersPrune(ctx, filters.NewArgs()); err != nil {
		return sdkError(ctx, "docker container prune", err)
	}
	return nil
}

// Close releases the client's transport.
func (d *DockerSDK) Close() error {
	return d.cli.Close()
}

func sdkError(ctx context.Context, op string, err error) error {
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%s: %w", op, ErrTimeout)
	}
	return &CommandError{Op: op, ExitCode: -1, Err: err}
}

func summaryName(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return strings.TrimPrefix(names[0], "/")
}

// summaryImage reports untagged images (listed by digest) as "none".
func summaryImage(image string) string {
	if image == "" || strings.HasPrefix(image, "sha256:") {
		return "none"
	}
	return image
}
