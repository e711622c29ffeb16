// Package probe wraps the container runtime: colima for the VM lifecycle and
// docker (CLI or Engine API) for reachability and containers.
package probe

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lvonsydow/colama/internal/models"
)

// Default timeouts.
const (
	DefaultCommandTimeout = 60 * time.Second
	DefaultProbeTimeout   = 5 * time.Second
)

// Backend names accepted by NewEngine.
const (
	BackendCLI = "cli"
	BackendSDK = "sdk"
)

// Engine is the docker side of the runtime.
type Engine interface {
	Ping(ctx context.Context) error
	List(ctx context.Context, all bool) ([]models.ContainerRecord, error)
	Start(ctx context.Context, id string) error
	Stop(ctx context.Context, id string) error
	Prune(ctx context.Context) error
	Close() error
}

// Supervisor starts and stops the VM hosting the daemon.
type Supervisor interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Options tunes a Runtime.
type Options struct {
	CommandTimeout time.Duration // bound on every mutating command
	ProbeTimeout   time.Duration // bound on reachability and list calls
}

// Runtime is the probe and command surface used by the menu.
type Runtime struct {
	engine     Engine
	supervisor Supervisor
	opts       Options
}

// NewRuntime combines an engine and a supervisor.
func NewRuntime(engine Engine, supervisor Supervisor, opts Options) *Runtime {
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = DefaultCommandTimeout
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = DefaultProbeTimeout
	}
	return &Runtime{engine: engine, supervisor: supervisor, opts: opts}
}

// NewEngine builds the engine for a backend name.
func NewEngine(backend, profile string) (Engine, error) {
	switch backend {
	case BackendCLI:
		return NewDockerCLI(ExecRunner{}), nil
	case BackendSDK, "":
		return NewDockerSDK(profile)
	default:
		return nil, fmt.Errorf("unknown backend %q (want %q or %q)", backend, BackendCLI, BackendSDK)
	}
}

// IsUp reports whether the daemon is reachable. Every failure means down.
func (r *Runtime) IsUp(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, r.opts.ProbeTimeout)
	defer cancel()
	return r.engine.Ping(ctx) == nil
}

// ListContainers returns the current container set. A down daemon yields an
// empty snapshot and no error; an error means the daemon answered the ping
// but the listing itself failed.
func (r *Runtime) ListContainers(ctx context.Context, includeStopped bool) (models.Snapshot, error) {
	if !r.IsUp(ctx) {
		return models.Snapshot{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.ProbeTimeout)
	defer cancel()

	records, err := r.engine.List(ctx, includeStopped)
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}
	return models.NewSnapshot(records), nil
}

// StartRuntime starts the daemon and blocks until colima returns.
func (r *Runtime) StartRuntime(ctx context.Context) error {
	return r.command(ctx, "start runtime", r.supervisor.Start)
}

// StopRuntime stops the daemon and blocks until colima returns.
func (r *Runtime) StopRuntime(ctx context.Context) error {
	return r.command(ctx, "stop runtime", r.supervisor.Stop)
}

// StartContainer starts one container.
func (r *Runtime) StartContainer(ctx context.Context, id string) error {
	return r.command(ctx, "start container "+id, func(ctx context.Context) error {
		return r.engine.Start(ctx, id)
	})
}

// StopContainer stops one container.
func (r *Runtime) StopContainer(ctx context.Context, id string) error {
	return r.command(ctx, "stop container "+id, func(ctx context.Context) error {
		return r.engine.Stop(ctx, id)
	})
}

// PruneStoppedContainers removes every stopped container. A failure may
// leave some containers removed.
func (r *Runtime) PruneStoppedContainers(ctx context.Context) error {
	return r.command(ctx, "prune containers", r.engine.Prune)
}

// Close releases the engine.
func (r *Runtime) Close() error {
	return r.engine.Close()
}

func (r *Runtime) command(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.opts.CommandTimeout)
	defer cancel()

	start := time.Now()
	done := make(chan error, 1)
	go func() {
		done <- fn(ctx)
	}()

	var err error
	select {
	case err = <-done:
		if err == nil && ctx.Err() == context.DeadlineExceeded {
			err = ErrTimeout
		}
	case <-ctx.Done():
		// fn may ignore ctx; it is abandoned and its result dropped.
		err = ctx.Err()
		if err == context.DeadlineExceeded {
			err = ErrTimeout
		}
	}
	if err != nil {
		if IsTimeout(err) {
			log.Printf("[probe] %s timed out after %s", op, r.opts.CommandTimeout)
		} else {
			log.Printf("[probe] %s failed: %v", op, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	log.Printf("[probe] %s finished in %s", op, time.Since(start).Truncate(time.Millisecond))
	return nil
}
