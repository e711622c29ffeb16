package menu

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/lvonsydow/colama/internal/models"
	"github.com/lvonsydow/colama/internal/probe"
)

// Default poll intervals.
const (
	DefaultStatusInterval     = 15 * time.Second
	DefaultContainersInterval = 10 * time.Second
)

// Runtime is the probe and command surface the Synchronizer drives.
type Runtime interface {
	IsUp(ctx context.Context) bool
	ListContainers(ctx context.Context, includeStopped bool) (models.Snapshot, error)
	StartRuntime(ctx context.Context) error
	StopRuntime(ctx context.Context) error
	StartContainer(ctx context.Context, id string) error
	StopContainer(ctx context.Context, id string) error
	PruneStoppedContainers(ctx context.Context) error
}

// View is the rendering target. All calls come from the Synchronizer's loop.
type View interface {
	SetHeader(h Header)
	// SetContainers attaches the containers submenu and replaces its entries.
	SetContainers(items []Entry)
	// HideContainers detaches the containers submenu.
	HideContainers()
}

// Notifier shows user-visible notifications.
type Notifier interface {
	Notify(n models.Notification)
}

// Options tunes the Synchronizer.
type Options struct {
	StatusInterval     time.Duration
	ContainersInterval time.Duration
	IncludeStopped     bool
}

// DefaultOptions returns the standard intervals, listing stopped containers too.
func DefaultOptions() Options {
	return Options{
		StatusInterval:     DefaultStatusInterval,
		ContainersInterval: DefaultContainersInterval,
		IncludeStopped:     true,
	}
}

type opKind int

const (
	opStartDaemon opKind = iota
	opStopDaemon
	opStartContainer
	opStopContainer
	opPrune
)

func (k opKind) daemon() bool {
	return k == opStartDaemon || k == opStopDaemon
}

type probeResult struct {
	seq      uint64
	up       bool
	listed   bool
	snapshot models.Snapshot
	listErr  error
}

type completion struct {
	id     string
	kind   opKind
	target models.ContainerRecord
	err    error
}

// Synchronizer owns the daemon status, the last rendered container set and
// the menu. Its state is touched only by the goroutine running Run.
type Synchronizer struct {
	runtime  Runtime
	view     View
	notifier Notifier
	opts     Options

	commands    chan Command
	results     chan probeResult
	completions chan completion
	stopped     chan struct{}

	status     models.RuntimeStatus
	last       models.Snapshot
	attached   bool
	busy       bool
	probeSeq   uint64
	appliedSeq uint64
}

// New creates a Synchronizer. Zero intervals fall back to the defaults.
func New(rt Runtime, view View, notifier Notifier, opts Options) *Synchronizer {
	if opts.StatusInterval <= 0 {
		opts.StatusInterval = DefaultStatusInterval
	}
	if opts.ContainersInterval <= 0 {
		opts.ContainersInterval = DefaultContainersInterval
	}
	return &Synchronizer{
		runtime:     rt,
		view:        view,
		notifier:    notifier,
		opts:        opts,
		commands:    make(chan Command, 16),
		results:     make(chan probeResult, 4),
		completions: make(chan completion, 4),
		stopped:     make(chan struct{}),
		status:      models.StatusUnknown,
	}
}

// Send queues a command from any goroutine. It returns false once the
// Synchronizer has stopped.
func (s *Synchronizer) Send(cmd Command) bool {
	select {
	case <-s.stopped:
		return false
	default:
	}
	select {
	case s.commands <- cmd:
		return true
	case <-s.stopped:
		return false
	}
}

// Run drives the menu until ctx is cancelled or a Quit command arrives.
func (s *Synchronizer) Run(ctx context.Context) error {
	defer close(s.stopped)

	s.renderHeader()
	s.probe(ctx, true)

	statusTicker := time.NewTicker(s.opts.StatusInterval)
	defer statusTicker.Stop()
	containersTicker := time.NewTicker(s.opts.ContainersInterval)
	defer containersTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-statusTicker.C:
			s.probe(ctx, false)
		case <-containersTicker.C:
			s.probe(ctx, true)
		case cmd := <-s.commands:
			if _, ok := cmd.(Quit); ok {
				log.Println("[menu] Quit requested")
				return nil
			}
			s.handle(ctx, cmd)
		case r := <-s.results:
			s.apply(ctx, r)
		case c := <-s.completions:
			s.complete(ctx, c)
		}
	}
}

// probe starts a probe cycle off the loop. Its result comes back on s.results.
func (s *Synchronizer) probe(ctx context.Context, withContainers bool) {
	s.probeSeq++
	seq := s.probeSeq
	includeStopped := s.opts.IncludeStopped

	go func() {
		r := probeResult{seq: seq, up: s.runtime.IsUp(ctx)}
		if r.up && withContainers {
			r.snapshot, r.listErr = s.runtime.ListContainers(ctx, includeStopped)
			r.listed = r.listErr == nil
		}
		select {
		case s.results <- r:
		case <-ctx.Done():
		}
	}()
}

// apply folds a probe result into the menu. Results older than the last
// applied one are dropped.
func (s *Synchronizer) apply(ctx context.Context, r probeResult) {
	if r.seq <= s.appliedSeq {
		return
	}
	s.appliedSeq = r.seq

	if r.listErr != nil {
		log.Printf("[menu] Container probe failed: %v", r.listErr)
	}

	// Optimistic Starting/Stopping stays until the command completes.
	if !s.busy {
		s.setStatus(models.StatusFromProbe(r.up))
	}

	if !ContainersAttached(s.status) {
		if s.attached {
			s.view.HideContainers()
			s.attached = false
			s.last = nil
		}
		return
	}

	if !s.attached {
		s.attached = true
		if r.listed {
			s.last = r.snapshot
		}
		s.view.SetContainers(RenderContainers(s.last))
		if !r.listed {
			s.probe(ctx, true)
		}
		return
	}

	if r.listed && models.Diff(s.last, r.snapshot) == models.Changed {
		s.last = r.snapshot
		s.view.SetContainers(RenderContainers(s.last))
	}
}

func (s *Synchronizer) setStatus(status models.RuntimeStatus) {
	if status == s.status {
		return
	}
	prev := s.status
	s.status = status
	log.Printf("[menu] Docker status %s -> %s", prev, status)
	s.renderHeader()

	// Transitions caused by our own commands are reported by their outcome.
	if prev == models.StatusRunning && status == models.StatusStopped {
		s.notify("Docker Status", "Docker stopped", "")
	} else if prev == models.StatusStopped && status == models.StatusRunning {
		s.notify("Docker Status", "Docker is running", "")
	}
}

func (s *Synchronizer) renderHeader() {
	s.view.SetHeader(RenderHeader(s.status, s.busy))
}

func (s *Synchronizer) handle(ctx context.Context, cmd Command) {
	switch c := cmd.(type) {
	case StartDaemon:
		s.startDaemon(ctx)
	case StopDaemon:
		s.stopDaemon(ctx)
	case ToggleContainer:
		s.toggleContainer(ctx, c.ID)
	case Prune:
		s.prune(ctx)
	case Resync:
		s.probe(ctx, true)
	default:
		log.Printf("[menu] Ignoring unknown command %T", cmd)
	}
}

func (s *Synchronizer) startDaemon(ctx context.Context) {
	if s.busy {
		log.Println("[menu] Start ignored: a daemon command is already in flight")
		return
	}
	if s.status == models.StatusRunning {
		s.notify("Docker Status", "Docker is already running", "No action needed")
		return
	}

	s.busy = true
	s.status = models.StatusStarting
	s.renderHeader()
	s.notify("Docker Status", "Starting Docker", "Please wait...")
	s.issue(ctx, opStartDaemon, models.ContainerRecord{}, s.runtime.StartRuntime)
}

func (s *Synchronizer) stopDaemon(ctx context.Context) {
	if s.busy {
		log.Println("[menu] Stop ignored: a daemon command is already in flight")
		return
	}
	if s.status != models.StatusRunning {
		s.notify("Docker Status", "Docker is not running", "No action needed")
		return
	}

	s.busy = true
	s.status = models.StatusStopping
	s.renderHeader()
	if s.attached {
		s.view.HideContainers()
		s.attached = false
		s.last = nil
	}
	s.notify("Docker Status", "Stopping Docker", "Please wait...")
	s.issue(ctx, opStopDaemon, models.ContainerRecord{}, s.runtime.StopRuntime)
}

func (s *Synchronizer) toggleContainer(ctx context.Context, id string) {
	if s.status != models.StatusRunning {
		s.notify("Error", "Docker is not running", "Cannot change containers")
		return
	}
	rec, ok := s.last.Find(id)
	if !ok {
		log.Printf("[menu] Container %s is no longer listed", id)
		s.probe(ctx, true)
		return
	}

	if rec.Running {
		s.issue(ctx, opStopContainer, rec, func(ctx context.Context) error {
			return s.runtime.StopContainer(ctx, rec.ID)
		})
		return
	}
	s.issue(ctx, opStartContainer, rec, func(ctx context.Context) error {
		return s.runtime.StartContainer(ctx, rec.ID)
	})
}

func (s *Synchronizer) prune(ctx context.Context) {
	if s.status != models.StatusRunning {
		s.notify("Error", "Docker is not running", "Cannot remove containers")
		return
	}
	s.issue(ctx, opPrune, models.ContainerRecord{}, s.runtime.PruneStoppedContainers)
}

// issue runs a mutating command on its own goroutine so the loop keeps
// serving timers and clicks. Its outcome comes back on s.completions.
func (s *Synchronizer) issue(ctx context.Context, kind opKind, target models.ContainerRecord, fn func(context.Context) error) {
	id := uuid.NewString()[:8]
	if target.ID != "" {
		log.Printf("[menu] [%s] %s %s issued", id, kind, target.ID)
	} else {
		log.Printf("[menu] [%s] %s issued", id, kind)
	}

	go func() {
		err := fn(ctx)
		select {
		case s.completions <- completion{id: id, kind: kind, target: target, err: err}:
		case <-ctx.Done():
		}
	}()
}

// complete reports a finished command and forces a resync.
func (s *Synchronizer) complete(ctx context.Context, c completion) {
	if c.err != nil {
		log.Printf("[menu] [%s] %s failed: %v", c.id, c.kind, c.err)
	} else {
		log.Printf("[menu] [%s] %s succeeded", c.id, c.kind)
	}

	if c.kind.daemon() {
		s.busy = false
		s.renderHeader()
	}
	s.notifyOutcome(c)
	// Probes issued before the command finished describe the old state.
	s.appliedSeq = s.probeSeq
	s.probe(ctx, true)
}

func (s *Synchronizer) notifyOutcome(c completion) {
	if c.err != nil {
		info := "Please check the logs"
		if errors.Is(c.err, probe.ErrTimeout) {
			info = "The command timed out"
		}
		switch c.kind {
		case opStartDaemon:
			s.notify("Error", "Failed to start Docker", info)
		case opStopDaemon:
			s.notify("Error", "Failed to stop Docker", info)
		case opStartContainer:
			s.notify("Error", "Failed to start "+c.target.Name, info)
		case opStopContainer:
			s.notify("Error", "Failed to stop "+c.target.Name, info)
		case opPrune:
			s.notify("Error", "Failed to remove containers", info)
		}
		return
	}

	switch c.kind {
	case opStartDaemon:
		s.notify("Docker Status", "Docker Started", "Docker is now running")
	case opStopDaemon:
		s.notify("Docker Status", "Docker Stopped", "Docker has been stopped")
	case opStartContainer:
		s.notify("Container started", c.target.Name+" has been started", "")
	case opStopContainer:
		s.notify("Container stopped", c.target.Name+" has been stopped", "")
	case opPrune:
		s.notify("Cleanup", "Containers removed", "Stopped containers have been removed")
	}
}

func (s *Synchronizer) notify(title, message, info string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(models.Notification{Title: title, Message: message, Info: info})
}

func (k opKind) String() string {
	switch k {
	case opStartDaemon:
		return "start-daemon"
	case opStopDaemon:
		return "stop-daemon"
	case opStartContainer:
		return "start-container"
	case opStopContainer:
		return "stop-container"
	case opPrune:
		return "prune"
	default:
		return "unknown"
	}
}
