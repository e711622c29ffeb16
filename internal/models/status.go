package models

import "fmt"

// RuntimeStatus is the daemon state shown on the status line.
type RuntimeStatus int

const (
	StatusUnknown RuntimeStatus = iota
	StatusStarting
	StatusRunning
	StatusStopping
	StatusStopped
)

var statusNames = map[RuntimeStatus]string{
	StatusUnknown:  "unknown",
	StatusStarting: "starting",
	StatusRunning:  "running",
	StatusStopping: "stopping",
	StatusStopped:  "stopped",
}

func (s RuntimeStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("RuntimeStatus(%d)", int(s))
}

// MarshalText lets the status render as a word in YAML and JSON output.
func (s RuntimeStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// StatusFromProbe maps a reachability probe to a settled status.
func StatusFromProbe(up bool) RuntimeStatus {
	if up {
		return StatusRunning
	}
	return StatusStopped
}

// Transitional reports whether s is one of the optimistic in-flight states.
func (s RuntimeStatus) Transitional() bool {
	return s == StatusStarting || s == StatusStopping
}
