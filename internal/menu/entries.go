// Package menu keeps the tray menu in sync with the container runtime.
//
// A single event loop (Synchronizer.Run) owns the daemon status and the last
// rendered container set. Timers, user commands, probe results and command
// completions all arrive on channels consumed by that loop; probes and
// mutating commands run on their own goroutines and report back through it.
// The menu itself is described by Entry values produced by pure render
// functions and handed to a View.
package menu

import (
	"github.com/lvonsydow/colama/internal/models"
)

// Entry is one item of the rendered menu. The set of entry types is closed.
type Entry interface {
	isEntry()
}

// StatusEntry is the informational status line.
type StatusEntry struct {
	Status models.RuntimeStatus
}

// Label returns the status line text.
func (e StatusEntry) Label() string {
	switch e.Status {
	case models.StatusRunning:
		return "🟢 Docker is up and running"
	case models.StatusStopped:
		return "🔴 Not running"
	case models.StatusStarting:
		return "🟡 Starting..."
	case models.StatusStopping:
		return "🟡 Stopping..."
	default:
		return "⚪ Checking..."
	}
}

// DaemonAction selects what a DaemonToggleEntry does.
type DaemonAction int

const (
	ActionStart DaemonAction = iota
	ActionStop
)

// DaemonToggleEntry starts or stops the daemon.
type DaemonToggleEntry struct {
	Action  DaemonAction
	Enabled bool
}

// Label returns the item title.
func (e DaemonToggleEntry) Label() string {
	if e.Action == ActionStop {
		return "Stop Docker"
	}
	return "Start Docker"
}

// Command returns the message a click sends.
func (e DaemonToggleEntry) Command() Command {
	if e.Action == ActionStop {
		return StopDaemon{}
	}
	return StartDaemon{}
}

// ContainerEntry is one container in the submenu.
type ContainerEntry struct {
	Record models.ContainerRecord
}

// Label returns "name (image)".
func (e ContainerEntry) Label() string {
	return e.Record.Label()
}

// Indicator returns the two-state running marker.
func (e ContainerEntry) Indicator() string {
	if e.Record.Running {
		return "🟢"
	}
	return "🔴"
}

// CleanupEntry prunes stopped containers.
type CleanupEntry struct{}

// Label returns the item title.
func (CleanupEntry) Label() string {
	return "Remove stopped containers"
}

// SeparatorEntry separates groups.
type SeparatorEntry struct{}

// SubmenuEntry groups entries under a title. Only the containers submenu uses it.
type SubmenuEntry struct {
	Title string
	Items []Entry
}

// QuitEntry exits the application.
type QuitEntry struct{}

// Label returns the item title.
func (QuitEntry) Label() string {
	return "Quit Co-lama"
}

func (StatusEntry) isEntry()       {}
func (DaemonToggleEntry) isEntry() {}
func (ContainerEntry) isEntry()    {}
func (CleanupEntry) isEntry()      {}
func (SeparatorEntry) isEntry()    {}
func (SubmenuEntry) isEntry()      {}
func (QuitEntry) isEntry()         {}
