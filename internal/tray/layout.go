package tray

import (
	"fmt"

	"github.com/lvonsydow/colama/internal/menu"
)

type slot struct {
	title string
	id    string
}

type containerCounts struct {
	running int
	total   int
}

type slotLayout struct {
	slots    []slot
	overflow int
	counts   containerCounts
}

// layout assigns container entries to pre-allocated slots in order. The
// cleanup entry and separators have fixed items and take no slot.
func layout(items []menu.Entry, limit int) slotLayout {
	var l slotLayout
	for _, item := range items {
		e, ok := item.(menu.ContainerEntry)
		if !ok {
			continue
		}
		l.counts.total++
		if e.Record.Running {
			l.counts.running++
		}
		if len(l.slots) == limit {
			l.overflow++
			continue
		}
		l.slots = append(l.slots, slot{
			title: e.Indicator() + " " + e.Label(),
			id:    e.Record.ID,
		})
	}
	return l
}

func formatTooltip(h menu.Header, c containerCounts, attached bool) string {
	if !attached {
		return h.Tooltip()
	}
	return fmt.Sprintf("%s, %d/%d containers running", h.Tooltip(), c.running, c.total)
}
