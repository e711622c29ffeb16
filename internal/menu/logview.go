package menu

import (
	"log"
	"strings"
)

// LogView is a View that writes menu changes to a logger. It stands in for
// the tray when running headless.
type LogView struct {
	logger *log.Logger
}

// NewLogView creates a LogView writing to logger, or to the standard
// logger when logger is nil.
func NewLogView(logger *log.Logger) *LogView {
	if logger == nil {
		logger = log.Default()
	}
	return &LogView{logger: logger}
}

func (v *LogView) SetHeader(h Header) {
	var enabled []string
	for _, e := range []DaemonToggleEntry{h.Start, h.Stop} {
		if e.Enabled {
			enabled = append(enabled, e.Label())
		}
	}
	v.logger.Printf("[menu] %s [%s]", h.Status.Label(), strings.Join(enabled, ", "))
}

func (v *LogView) SetContainers(items []Entry) {
	var lines []string
	for _, item := range items {
		if e, ok := item.(ContainerEntry); ok {
			lines = append(lines, "  "+e.Indicator()+" "+e.Label()+" "+e.Record.ID)
		}
	}
	v.logger.Printf("[menu] %s (%d)", ContainersTitle, len(lines))
	for _, line := range lines {
		v.logger.Print(line)
	}
}

func (v *LogView) HideContainers() {
	v.logger.Printf("[menu] %s hidden", ContainersTitle)
}
