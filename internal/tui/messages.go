package tui

import (
	"github.com/lvonsydow/colama/internal/menu"
	"github.com/lvonsydow/colama/internal/models"
)

// headerMsg carries a rendered menu header.
type headerMsg struct {
	Header menu.Header
}

// containersMsg attaches the containers list with new entries.
type containersMsg struct {
	Items []menu.Entry
}

// hideContainersMsg detaches the containers list.
type hideContainersMsg struct{}

// notificationMsg carries a notification to show in the log pane.
type notificationMsg struct {
	Notification models.Notification
}
