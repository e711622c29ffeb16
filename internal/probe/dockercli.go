package probe

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/lvonsydow/colama/internal/models"
)

// DockerCLI talks to the daemon through the docker command line.
type DockerCLI struct {
	runner Runner
}

// NewDockerCLI returns an engine backed by the docker binary.
func NewDockerCLI(runner Runner) *DockerCLI {
	return &DockerCLI{runner: runner}
}

// Ping runs `docker info`, which fails when the daemon is unreachable.
func (d *DockerCLI) Ping(ctx context.Context) error {
	_, err := d.runner.Run(ctx, "docker", "info", "--format", "{{.ServerVersion}}")
	return err
}

// List runs `docker ps` with JSON line output and parses it.
func (d *DockerCLI) List(ctx context.Context, all bool) ([]models.ContainerRecord, error) {
	args := []string{"ps", "--no-trunc", "--format", "{{json .}}"}
	if all {
		args = append(args, "--all")
	}
	out, err := d.runner.Run(ctx, "docker", args...)
	if err != nil {
		return nil, err
	}
	return ParsePSJSON(out), nil
}

// Start runs `docker start <id>`.
func (d *DockerCLI) Start(ctx context.Context, id string) error {
	_, err := d.runner.Run(ctx, "docker", "start", id)
	return err
}

// Stop runs `docker stop <id>`.
func (d *DockerCLI) Stop(ctx context.Context, id string) error {
	_, err := d.runner.Run(ctx, "docker", "stop", id)
	return err
}

// Prune removes all stopped containers.
func (d *DockerCLI) Prune(ctx context.Context) error {
	_, err := d.runner.Run(ctx, "docker", "container", "prune", "--force")
	return err
}

// Close is a no-op; the CLI holds no connection.
func (d *DockerCLI) Close() error {
	return nil
}

// psRow is one line of `docker ps --format '{{json .}}'`.
type psRow struct {
	ID     string `json:"ID"`
	Names  string `json:"Names"`
	Image  string `json:"Image"`
	State  string `json:"State"`
	Status string `json:"Status"`
}

// ParsePSJSON parses JSON-lines output of docker ps. Blank, malformed and
// id-less rows are skipped.
func ParsePSJSON(out []byte) []models.ContainerRecord {
	var records []models.ContainerRecord

	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var row psRow
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			log.Printf("[probe] skipping malformed docker ps row: %v", err)
			continue
		}
		if row.ID == "" {
			continue
		}

		records = append(records, models.ContainerRecord{
			ID:      ShortID(row.ID),
			Name:    firstName(row.Names),
			Image:   row.Image,
			Running: rowRunning(row),
		})
	}
	return records
}

// ShortID truncates a container id to the 12 characters docker displays.
func ShortID(id string) string {
	id = strings.TrimPrefix(id, "sha256:")
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func firstName(names string) string {
	name, _, _ := strings.Cut(names, ",")
	return strings.TrimPrefix(strings.TrimSpace(name), "/")
}

// rowRunning prefers the State column; older docker versions only have
// Status, which starts with "Up" for running containers.
func rowRunning(row psRow) bool {
	if row.State != "" {
		return row.State == "running"
	}
	fields := strings.Fields(row.Status)
	return len(fields) > 0 && fields[0] == "Up"
}
