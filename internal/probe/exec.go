package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Runner executes an external program and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs programs with os/exec. Programs resolve through PATH, so
// the configured search path must already be applied.
type ExecRunner struct{}

// Run runs name with args. A nonzero exit becomes a *CommandError, an
// expired context becomes ErrTimeout.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	op := name
	if len(args) > 0 {
		op = name + " " + args[0]
	}

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = 2 * time.Second

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return stdout.Bytes(), fmt.Errorf("%s: %w", op, ErrTimeout)
	}
	if err == nil {
		return stdout.Bytes(), nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.Bytes(), &CommandError{
			Op:       op,
			ExitCode: exitErr.ExitCode(),
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
	}
	return stdout.Bytes(), &CommandError{Op: op, ExitCode: -1, Err: err}
}
