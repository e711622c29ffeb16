// Package tui implements the terminal view of the menu, for watching the
// runtime from a shell.
package tui

import (
	"context"
	"errors"
	"log"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lvonsydow/colama/internal/config"
	"github.com/lvonsydow/colama/internal/menu"
	"github.com/lvonsydow/colama/internal/models"
)

// programRef is a shared reference to the tea.Program for goroutine sends.
// It's set after tea.NewProgram but before p.Run().
type programRef struct {
	mu sync.Mutex
	p  *tea.Program
}

func (r *programRef) Set(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = p
}

func (r *programRef) Send(msg tea.Msg) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Clear nils out the program reference, preventing post-exit sends.
func (r *programRef) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = nil
}

// programView forwards synchronizer output into the program as messages.
type programView struct {
	ref *programRef
}

func (v programView) SetHeader(h menu.Header) {
	v.ref.Send(headerMsg{Header: h})
}

func (v programView) SetContainers(items []menu.Entry) {
	v.ref.Send(containersMsg{Items: items})
}

func (v programView) HideContainers() {
	v.ref.Send(hideContainersMsg{})
}

func (v programView) Notify(n models.Notification) {
	v.ref.Send(notificationMsg{Notification: n})
}

// Run shows the menu in the terminal until the user quits. Logging goes to
// the log file for the duration so it does not tear the screen.
func Run(ctx context.Context, rt menu.Runtime, opts menu.Options) error {
	restore, err := redirectLog()
	if err != nil {
		return err
	}
	defer restore()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ref := &programRef{}
	view := programView{ref: ref}
	synchronizer := menu.New(rt, view, view, opts)
	model := NewModel(synchronizer.Send)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	ref.Set(p)

	syncErr := make(chan error, 1)
	go func() {
		syncErr <- synchronizer.Run(ctx)
	}()

	_, err = p.Run()
	ref.Clear()
	cancel()
	<-syncErr
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func redirectLog() (func(), error) {
	f, err := config.OpenLogFile()
	if err != nil {
		return nil, err
	}

	prev := log.Writer()
	log.SetOutput(f)
	return func() {
		log.SetOutput(prev)
		_ = f.Close()
	}, nil
}
