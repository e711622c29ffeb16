package probe

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTimeout is returned when a runtime command does not finish within its
// deadline. The process is killed before the error is reported.
var ErrTimeout = errors.New("command timed out")

// CommandError is a runtime command that ran and failed.
type CommandError struct {
	Op       string // e.g. "colima start", "docker stop"
	ExitCode int    // -1 when the failure did not come from a process exit
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.ExitCode >= 0 {
		return fmt.Sprintf("%s: exit status %d: %s", e.Op, e.ExitCode, msg)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err is, or wraps, ErrTimeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
