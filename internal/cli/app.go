package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lvonsydow/colama/internal/config"
	"github.com/lvonsydow/colama/internal/menu"
	"github.com/lvonsydow/colama/internal/models"
	"github.com/lvonsydow/colama/internal/notify"
	"github.com/lvonsydow/colama/internal/probe"
	"github.com/lvonsydow/colama/internal/prompt"
	"github.com/lvonsydow/colama/internal/tray"
	"github.com/lvonsydow/colama/internal/watcher"
)

// newRuntime builds the runtime for the current flags.
func newRuntime() (*probe.Runtime, error) {
	engine, err := probe.NewEngine(opts.backend, opts.profile)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s backend: %w", opts.backend, err)
	}
	supervisor := probe.NewColima(probe.ExecRunner{}, opts.profile)
	return probe.NewRuntime(engine, supervisor, probe.Options{
		CommandTimeout: opts.commandTimeout,
		ProbeTimeout:   opts.probeTimeout,
	}), nil
}

// setupSearchPath loads the stored search path, asking for it when none is
// stored, and puts it in front of PATH.
func setupSearchPath(ctx context.Context, asker config.Asker, notifier menu.Notifier) error {
	dir, saved, err := config.EnsureSearchPath(ctx, asker)
	if err != nil {
		return err
	}
	if saved && notifier != nil {
		notifier.Notify(models.Notification{Title: "Thanks", Message: "I will remember that", Info: dir})
	}
	if dir == "" {
		log.Println("[config] No search path configured, using PATH as is")
		return nil
	}
	log.Printf("[config] Search path: %s", dir)
	return config.ApplySearchPath(dir)
}

// watchSocket resyncs the menu whenever the profile's docker socket appears
// or disappears. A missing profile directory only disables the watch.
func watchSocket(ctx context.Context, synchronizer *menu.Synchronizer) {
	sock, err := config.DockerSocket(opts.profile)
	if err != nil {
		log.Printf("[watcher] Socket watch disabled: %v", err)
		return
	}
	w, err := watcher.New(sock)
	if err != nil {
		log.Printf("[watcher] Socket watch disabled: %v", err)
		return
	}
	if err := w.Start(); err != nil {
		log.Printf("[watcher] Socket watch disabled: %v", err)
		w.Stop()
		return
	}

	go func() {
		defer w.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.Events():
				log.Println("[watcher] Docker socket changed, resyncing")
				if !synchronizer.Send(menu.Resync{}) {
					return
				}
			}
		}
	}()
}

// claimInstance records this process as the running menu instance. It
// fails when another instance is alive. The returned func releases it.
func claimInstance(mode string) (func(), error) {
	running, info, err := config.IsInstanceRunning()
	if err != nil {
		return nil, fmt.Errorf("failed to check for a running instance: %w", err)
	}
	if running {
		return nil, fmt.Errorf("co-lama is already running (%s mode, PID %d)", info.Mode, info.PID)
	}

	info = models.NewInstanceInfo(mode, opts.backend, opts.profile, os.Getpid())
	if err := config.SaveInstanceInfo(info); err != nil {
		return nil, fmt.Errorf("failed to write instance info: %w", err)
	}
	return func() {
		if err := config.RemoveInstanceInfo(); err != nil {
			log.Printf("Failed to remove instance info: %v", err)
		}
	}, nil
}

// logToFile copies log output into ~/.colama/colama.log. A menu bar app
// started from Finder has nowhere else to write.
func logToFile() func() {
	f, err := config.OpenLogFile()
	if err != nil {
		log.Printf("Logging to stderr only: %v", err)
		return func() {}
	}
	prev := log.Writer()
	log.SetOutput(io.MultiWriter(prev, f))
	return func() {
		log.SetOutput(prev)
		_ = f.Close()
	}
}

// runTray runs the menu bar item on the main goroutine until Quit.
func runTray(ctx context.Context) error {
	defer logToFile()()

	release, err := claimInstance("tray")
	if err != nil {
		return err
	}
	defer release()

	notifier := notify.NewDesktop()
	if err := setupSearchPath(ctx, prompt.NewDialog(), notifier); err != nil {
		return err
	}

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t := tray.New()
	synchronizer := menu.New(rt, t, notifier, opts.menuOptions())

	onReady := func() {
		go func() {
			if err := synchronizer.Run(ctx); err != nil && ctx.Err() == nil {
				log.Printf("[menu] Synchronizer stopped: %v", err)
			}
			tray.Quit()
		}()
		watchSocket(ctx, synchronizer)
		log.Println("[tray] Menu bar item ready")
	}
	onExit := func() {
		cancel()
		log.Println("[tray] Exiting")
	}

	t.Run(synchronizer.Send, onReady, onExit)
	return nil
}

// runForeground runs the synchronizer without a menu bar item, blocking on
// signals.
func runForeground(ctx context.Context) error {
	release, err := claimInstance("foreground")
	if err != nil {
		return err
	}
	defer release()

	notifier := notify.NewLog(nil)
	if err := setupSearchPath(ctx, prompt.Default(), notifier); err != nil {
		return err
	}

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("Running in foreground mode (no menu bar item)")
	synchronizer := menu.New(rt, menu.NewLogView(nil), notifier, opts.menuOptions())
	watchSocket(ctx, synchronizer)

	err = synchronizer.Run(ctx)
	if ctx.Err() != nil {
		log.Println("Received signal, shutting down...")
		return nil
	}
	return err
}
