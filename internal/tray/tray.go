// Package tray renders the menu into the macOS menu bar.
package tray

import (
	"fmt"
	"log"
	"sync"

	"github.com/getlantern/systray"

	"github.com/lvonsydow/colama/internal/menu"
	"github.com/lvonsydow/colama/internal/models"
)

// Title is shown in the menu bar in place of an icon.
const Title = "🦙"

// MaxContainerSlots is the number of container items allocated up front.
// Containers beyond it are summarized in a single disabled item.
const MaxContainerSlots = 25

// Sender forwards a menu command to the synchronizer.
type Sender func(cmd menu.Command) bool

// Tray is a menu.View backed by the system tray. Create it with New.
type Tray struct {
	send Sender

	statusItem *systray.MenuItem
	startItem  *systray.MenuItem
	stopItem   *systray.MenuItem
	containers *systray.MenuItem
	cleanup    *systray.MenuItem
	slots      [MaxContainerSlots]*systray.MenuItem
	overflow   *systray.MenuItem
	quitItem   *systray.MenuItem

	// Maps slot index to the container ID it shows.
	slotMu  sync.RWMutex
	slotIDs [MaxContainerSlots]string

	tipMu    sync.Mutex
	header   menu.Header
	counts   containerCounts
	attached bool
}

// New creates an unbuilt tray. Its menu items exist once Run calls onReady.
func New() *Tray {
	return &Tray{}
}

// Run starts the tray. It blocks the calling goroutine, which must be the
// main one. Clicks are forwarded to send. onReady runs once the menu is
// built; onExit runs after the tray quits.
func (t *Tray) Run(send Sender, onReady, onExit func()) {
	t.send = send
	systray.Run(func() {
		t.build()
		if onReady != nil {
			onReady()
		}
	}, func() {
		if onExit != nil {
			onExit()
		}
	})
}

// Quit signals the tray to exit.
func Quit() {
	systray.Quit()
}

func (t *Tray) build() {
	systray.SetTitle(Title)
	systray.SetTooltip("Co-lama")

	h := menu.RenderHeader(models.StatusUnknown, false)
	t.statusItem = systray.AddMenuItem(h.Status.Label(), "")
	t.statusItem.Disable()
	systray.AddSeparator()

	t.startItem = systray.AddMenuItem(h.Start.Label(), "Start the Colima runtime")
	t.stopItem = systray.AddMenuItem(h.Stop.Label(), "Stop the Colima runtime")
	systray.AddSeparator()

	t.containers = systray.AddMenuItem(menu.ContainersTitle, "")
	t.cleanup = t.containers.AddSubMenuItem(menu.CleanupEntry{}.Label(), "Remove all stopped containers")
	for i := range t.slots {
		t.slots[i] = t.containers.AddSubMenuItem("", "")
		t.slots[i].Hide()
	}
	t.overflow = t.containers.AddSubMenuItem("", "")
	t.overflow.Disable()
	t.overflow.Hide()
	t.containers.Hide()

	systray.AddSeparator()
	t.quitItem = systray.AddMenuItem(menu.QuitEntry{}.Label(), "Quit Co-lama")

	t.forward(t.startItem, func() menu.Command { return menu.StartDaemon{} })
	t.forward(t.stopItem, func() menu.Command { return menu.StopDaemon{} })
	t.forward(t.cleanup, func() menu.Command { return menu.Prune{} })
	t.forward(t.quitItem, func() menu.Command { return menu.Quit{} })
	for i := range t.slots {
		n := i
		t.forward(t.slots[i], func() menu.Command { return t.slotCommand(n) })
	}
}

// forward turns clicks on item into commands. A nil command is dropped.
func (t *Tray) forward(item *systray.MenuItem, cmd func() menu.Command) {
	go func() {
		for range item.ClickedCh {
			c := cmd()
			if c == nil {
				continue
			}
			if !t.send(c) {
				return
			}
		}
	}()
}

func (t *Tray) slotCommand(n int) menu.Command {
	t.slotMu.RLock()
	id := t.slotIDs[n]
	t.slotMu.RUnlock()

	if id == "" {
		log.Printf("[tray] Click on empty slot %d", n)
		return nil
	}
	return menu.ToggleContainer{ID: id}
}

// SetHeader updates the status line, the daemon toggles and the tooltip.
func (t *Tray) SetHeader(h menu.Header) {
	t.statusItem.SetTitle(h.Status.Label())
	setEnabled(t.startItem, h.Start.Enabled)
	setEnabled(t.stopItem, h.Stop.Enabled)

	t.tipMu.Lock()
	t.header = h
	t.tipMu.Unlock()
	t.updateTooltip()
}

// SetContainers shows the containers submenu with items.
func (t *Tray) SetContainers(items []menu.Entry) {
	l := layout(items, MaxContainerSlots)

	t.slotMu.Lock()
	for i := range t.slotIDs {
		t.slotIDs[i] = ""
	}
	for i, s := range l.slots {
		t.slotIDs[i] = s.id
	}
	t.slotMu.Unlock()

	for i, item := range t.slots {
		if i < len(l.slots) {
			item.SetTitle(l.slots[i].title)
			item.Show()
		} else {
			item.Hide()
		}
	}
	if l.overflow > 0 {
		t.overflow.SetTitle(fmt.Sprintf("… and %d more", l.overflow))
		t.overflow.Show()
	} else {
		t.overflow.Hide()
	}
	t.containers.Show()

	t.tipMu.Lock()
	t.counts = l.counts
	t.attached = true
	t.tipMu.Unlock()
	t.updateTooltip()
}

// HideContainers detaches the containers submenu.
func (t *Tray) HideContainers() {
	t.slotMu.Lock()
	for i := range t.slotIDs {
		t.slotIDs[i] = ""
	}
	t.slotMu.Unlock()
	t.containers.Hide()

	t.tipMu.Lock()
	t.attached = false
	t.tipMu.Unlock()
	t.updateTooltip()
}

func (t *Tray) updateTooltip() {
	t.tipMu.Lock()
	tip := formatTooltip(t.header, t.counts, t.attached)
	t.tipMu.Unlock()
	systray.SetTooltip(tip)
}

func setEnabled(item *systray.MenuItem, enabled bool) {
	if enabled {
		item.Enable()
	} else {
		item.Disable()
	}
}
