package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/lvonsydow/colama/internal/menu"
)

// View renders the model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	if m.attached {
		b.WriteString(m.renderContainers())
		b.WriteString("\n")
	}
	if len(m.notes) > 0 {
		b.WriteString(m.renderNotifications())
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderHeader() string {
	status := m.header.Status.Label()
	if m.header.Status.Status.Transitional() {
		status = m.spinner.View() + " " + status
	}
	toggles := renderToggle("s", m.header.Start) + "  " + renderToggle("S", m.header.Stop)
	return titleStyle.Render(menuTitle) + "  " + status + "\n" + toggles
}

const menuTitle = "🦙 Co-lama"

func renderToggle(k string, e menu.DaemonToggleEntry) string {
	style := disabledToggleStyle
	if e.Enabled {
		style = enabledToggleStyle
	}
	return style.Render("[" + k + "] " + e.Label())
}

func (m Model) renderContainers() string {
	width := m.contentWidth()
	lines := []string{
		titleStyle.Render(menu.ContainersTitle),
		dimStyle.Render("[x] " + menu.CleanupEntry{}.Label()),
	}
	if len(m.entries) == 0 {
		lines = append(lines, dimStyle.Render("No containers"))
	}
	for i, e := range m.entries {
		style := stoppedStyle
		if e.Record.Running {
			style = runningStyle
		}
		line := style.Render(e.Indicator()) + " " + ansi.Truncate(e.Label(), width-4, "…")
		if i == m.cursor {
			line = selectedItemStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return sectionStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderNotifications() string {
	var lines []string
	for _, n := range m.notes {
		title := notifyTitleStyle
		if n.Title == "Error" {
			title = errorTitleStyle
		}
		line := title.Render(n.Title) + " " + n.Message
		if n.Info != "" {
			line += " " + dimStyle.Render(n.Info)
		}
		lines = append(lines, ansi.Truncate(line, m.contentWidth(), "…"))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderStatusBar() string {
	hints := " " + m.help.View(keys)
	if m.width == 0 {
		return hints
	}
	return statusBarStyle.Width(m.width).Render(ansi.Truncate(hints, m.width, ""))
}

// contentWidth is the usable width inside the container box.
func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width - 4
}
