package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lvonsydow/colama/internal/menu"
	"github.com/lvonsydow/colama/internal/models"
)

// maxNotifications is how many recent notifications stay on screen.
const maxNotifications = 5

// Model is the root Bubbletea model for the watch view.
type Model struct {
	send func(menu.Command) bool

	// Menu state as rendered by the synchronizer
	header   menu.Header
	entries  []menu.ContainerEntry
	attached bool
	notes    []models.Notification

	// UI state
	cursor   int
	width    int
	height   int
	quitting bool

	spinner spinner.Model
	help    help.Model
}

// NewModel creates the initial model. send forwards commands to the
// synchronizer.
func NewModel(send func(menu.Command) bool) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = notifyTitleStyle

	return Model{
		send:    send,
		header:  menu.RenderHeader(models.StatusUnknown, false),
		spinner: s,
		help:    help.New(),
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update processes messages and returns an updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case headerMsg:
		m.header = msg.Header
		return m, nil

	case containersMsg:
		m.attached = true
		m.entries = make([]menu.ContainerEntry, 0, len(msg.Items))
		for _, item := range msg.Items {
			if e, ok := item.(menu.ContainerEntry); ok {
				m.entries = append(m.entries, e)
			}
		}
		m.clampCursor()
		return m, nil

	case hideContainersMsg:
		m.attached = false
		m.entries = nil
		m.cursor = 0
		return m, nil

	case notificationMsg:
		m.notes = append(m.notes, msg.Notification)
		if len(m.notes) > maxNotifications {
			m.notes = m.notes[len(m.notes)-maxNotifications:]
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		m.send(menu.Quit{})
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Toggle):
		if m.attached && len(m.entries) > 0 {
			m.send(menu.ToggleContainer{ID: m.entries[m.cursor].Record.ID})
		}

	case key.Matches(msg, keys.Start):
		if m.header.Start.Enabled {
			m.send(m.header.Start.Command())
		}

	case key.Matches(msg, keys.Stop):
		if m.header.Stop.Enabled {
			m.send(m.header.Stop.Command())
		}

	case key.Matches(msg, keys.Prune):
		if m.attached {
			m.send(menu.Prune{})
		}

	case key.Matches(msg, keys.Resync):
		m.send(menu.Resync{})
	}
	return m, nil
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
