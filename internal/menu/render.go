package menu

import (
	"fmt"

	"github.com/lvonsydow/colama/internal/models"
)

// ContainersTitle is the title of the containers submenu.
const ContainersTitle = "Containers"

// Header is the fixed top of the menu.
type Header struct {
	Status StatusEntry
	Start  DaemonToggleEntry
	Stop   DaemonToggleEntry
}

// Tooltip summarizes the header for the menu bar icon.
func (h Header) Tooltip() string {
	return fmt.Sprintf("Co-lama: Docker %s", h.Status.Status)
}

// RenderHeader renders the status line and daemon toggles. Start and Stop
// are mutually enabled by status and both disabled while a daemon command
// is in flight.
func RenderHeader(status models.RuntimeStatus, busy bool) Header {
	return Header{
		Status: StatusEntry{Status: status},
		Start:  DaemonToggleEntry{Action: ActionStart, Enabled: !busy && status != models.StatusRunning},
		Stop:   DaemonToggleEntry{Action: ActionStop, Enabled: !busy && status == models.StatusRunning},
	}
}

// ContainersAttached reports whether the containers submenu belongs in the
// menu for the given status.
func ContainersAttached(status models.RuntimeStatus) bool {
	return status == models.StatusRunning
}

// RenderContainers renders the containers submenu: the cleanup entry first,
// then one entry per record in snapshot order.
func RenderContainers(s models.Snapshot) []Entry {
	items := make([]Entry, 0, len(s)+2)
	items = append(items, CleanupEntry{})
	if len(s) == 0 {
		return items
	}
	items = append(items, SeparatorEntry{})
	for _, r := range s {
		items = append(items, ContainerEntry{Record: r})
	}
	return items
}

// Render renders the whole menu tree.
func Render(status models.RuntimeStatus, busy bool, s models.Snapshot) []Entry {
	h := RenderHeader(status, busy)
	entries := []Entry{h.Status, SeparatorEntry{}, h.Start, h.Stop, SeparatorEntry{}}
	if ContainersAttached(status) {
		entries = append(entries, SubmenuEntry{Title: ContainersTitle, Items: RenderContainers(s)}, SeparatorEntry{})
	}
	return append(entries, QuitEntry{})
}
