package menu

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lvonsydow/colama/internal/models"
	"github.com/lvonsydow/colama/internal/probe"
)

type fakeRuntime struct {
	mu         sync.Mutex
	up         bool
	containers []models.ContainerRecord
	startGate  chan struct{}
	startErr   error

	startCalls      int
	stopCalls       int
	containerStarts []string
	containerStops  []string
	prunes          int
}

func (f *fakeRuntime) IsUp(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.up
}

func (f *fakeRuntime) ListContainers(_ context.Context, includeStopped bool) (models.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.up {
		return models.Snapshot{}, nil
	}
	var records []models.ContainerRecord
	for _, r := range f.containers {
		if includeStopped || r.Running {
			records = append(records, r)
		}
	}
	return models.NewSnapshot(records), nil
}

func (f *fakeRuntime) StartRuntime(context.Context) error {
	f.mu.Lock()
	f.startCalls++
	gate := f.startGate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.up = true
	return nil
}

func (f *fakeRuntime) StopRuntime(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopCalls++
	f.up = false
	return nil
}

func (f *fakeRuntime) StartContainer(_ context.Context, id string) error {
	return f.setRunning(id, true, &f.containerStarts)
}

func (f *fakeRuntime) StopContainer(_ context.Context, id string) error {
	return f.setRunning(id, false, &f.containerStops)
}

func (f *fakeRuntime) setRunning(id string, running bool, calls *[]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	*calls = append(*calls, id)
	for i := range f.containers {
		if f.containers[i].ID == id {
			f.containers[i].Running = running
			return nil
		}
	}
	return errors.New("no such container: " + id)
}

func (f *fakeRuntime) PruneStoppedContainers(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prunes++
	var kept []models.ContainerRecord
	for _, r := range f.containers {
		if r.Running {
			kept = append(kept, r)
		}
	}
	f.containers = kept
	return nil
}

func (f *fakeRuntime) setUp(up bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.up = up
}

type fakeView struct {
	mu          sync.Mutex
	header      Header
	items       []Entry
	visible     bool
	rebuilds    int
	headerCalls int
}

func (v *fakeView) SetHeader(h Header) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.header = h
	v.headerCalls++
}

func (v *fakeView) SetContainers(items []Entry) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = items
	v.visible = true
	v.rebuilds++
}

func (v *fakeView) HideContainers() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = nil
	v.visible = false
}

func (v *fakeView) snapshot() (Header, []ContainerEntry, bool, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.header, containerEntries(v.items), v.visible, v.rebuilds
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []models.Notification
}

func (n *fakeNotifier) Notify(msg models.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
}

func (n *fakeNotifier) has(message string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, m := range n.sent {
		if m.Message == message {
			return true
		}
	}
	return false
}

func webRecord(running bool) models.ContainerRecord {
	return models.ContainerRecord{ID: "abc123", Name: "web", Image: "nginx", Running: running}
}

func newTestSync(rt *fakeRuntime) (*Synchronizer, *fakeView, *fakeNotifier) {
	view := &fakeView{}
	notifier := &fakeNotifier{}
	return New(rt, view, notifier, DefaultOptions()), view, notifier
}

func awaitResult(t *testing.T, s *Synchronizer) probeResult {
	t.Helper()
	select {
	case r := <-s.results:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for probe result")
	}
	return probeResult{}
}

func awaitCompletion(t *testing.T, s *Synchronizer) completion {
	t.Helper()
	select {
	case c := <-s.completions:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for command completion")
	}
	return completion{}
}

// cycle runs one probe through the differ and into the view.
func cycle(t *testing.T, ctx context.Context, s *Synchronizer) {
	t.Helper()
	s.probe(ctx, true)
	s.apply(ctx, awaitResult(t, s))
}

func TestProbeRendersContainers(t *testing.T) {
	ctx := context.Background()
	rt := &fakeRuntime{up: true, containers: []models.ContainerRecord{
		webRecord(true),
		{ID: "def456", Name: "db", Image: "postgres", Running: false},
	}}
	s, view, _ := newTestSync(rt)

	cycle(t, ctx, s)

	header, entries, visible, rebuilds := view.snapshot()
	if header.Status.Status != models.StatusRunning {
		t.Errorf("status = %s, want running", header.Status.Status)
	}
	if !visible {
		t.Fatal("containers submenu not attached while running")
	}
	if rebuilds != 1 {
		t.Errorf("rebuilds = %d, want 1", rebuilds)
	}
	if len(entries) != 2 {
		t.Fatalf("rendered %d containers, want 2", len(entries))
	}
	for _, e := range entries {
		rec, _ := s.last.Find(e.Record.ID)
		if e.Record.Running != rec.Running {
			t.Errorf("%s indicator running=%v, want %v", e.Record.ID, e.Record.Running, rec.Running)
		}
	}
}

func TestNoRebuildWhenUnchanged(t *testing.T) {
	ctx := context.Background()
	rt := &fakeRuntime{up: true, containers: []models.ContainerRecord{webRecord(true)}}
	s, view, _ := newTestSync(rt)

	cycle(t, ctx, s)
	cycle(t, ctx, s)
	cycle(t, ctx, s)

	if _, _, _, rebuilds := view.snapshot(); rebuilds != 1 {
		t.Errorf("rebuilds = %d after identical probes, want 1", rebuilds)
	}

	rt.mu.Lock()
	rt.containers[0].Running = false
	rt.mu.Unlock()
	cycle(t, ctx, s)

	if _, _, _, rebuilds := view.snapshot(); rebuilds != 2 {
		t.Errorf("rebuilds = %d after a change, want 2", rebuilds)
	}
}

func TestDaemonDownDetachesSubmenu(t *testing.T) {
	ctx := context.Background()
	rt := &fakeRuntime{up: true, containers: []models.ContainerRecord{webRecord(true)}}
	s, view, notifier := newTestSync(rt)

	cycle(t, ctx, s)
	rt.setUp(false)
	cycle(t, ctx, s)

	header, entries, visible, _ := view.snapshot()
	if visible || len(entries) != 0 {
		t.Errorf("containers submenu attached while daemon is down (%d entries)", len(entries))
	}
	if header.Status.Status != models.StatusStopped {
		t.Errorf("status = %s, want stopped", header.Status.Status)
	}
	if !header.Start.Enabled || header.Stop.Enabled {
		t.Errorf("toggles start=%v stop=%v, want start only", header.Start.Enabled, header.Stop.Enabled)
	}
	if !notifier.has("Docker stopped") {
		t.Error("no notification for the running -> stopped transition")
	}
}

func TestStatusProbeAttachThenLists(t *testing.T) {
	ctx := context.Background()
	rt := &fakeRuntime{up: true, containers: []models.ContainerRecord{webRecord(true)}}
	s, view, _ := newTestSync(rt)

	// A status-only probe attaches the submenu and asks for the containers.
	s.probe(ctx, false)
	s.apply(ctx, awaitResult(t, s))
	if _, entries, visible, _ := view.snapshot(); !visible || len(entries) != 0 {
		t.Fatalf("after status probe visible=%v entries=%d, want attached and empty", visible, len(entries))
	}

	s.apply(ctx, awaitResult(t, s))
	if _, entries, _, _ := view.snapshot(); len(entries) != 1 {
		t.Errorf("after follow-up probe rendered %d containers, want 1", len(entries))
	}
}

func TestStaleProbeResultDropped(t *testing.T) {
	ctx := context.Background()
	rt := &fakeRuntime{}
	s, view, _ := newTestSync(rt)

	s.appliedSeq = 0
	s.apply(ctx, probeResult{seq: 2, up: false})
	s.apply(ctx, probeResult{seq: 1, up: true, listed: true, snapshot: models.Snapshot{webRecord(true)}})

	header, _, visible, _ := view.snapshot()
	if header.Status.Status != models.StatusStopped || visible {
		t.Errorf("stale result applied: status=%s visible=%v", header.Status.Status, visible)
	}
}

func TestToggleContainerScenario(t *testing.T) {
	ctx := context.Background()
	rt := &fakeRuntime{up: true, containers: []models.ContainerRecord{webRecord(true)}}
	s, view, notifier := newTestSync(rt)

	cycle(t, ctx, s)
	_, entries, _, _ := view.snapshot()
	if len(entries) != 1 || entries[0].Label() != "web (nginx)" || entries[0].Indicator() != "🟢" {
		t.Fatalf("before click entries = %+v", entries)
	}

	s.handle(ctx, ToggleContainer{ID: "abc123"})
	s.complete(ctx, awaitCompletion(t, s))
	// The completion forces a probe without waiting for a timer.
	s.apply(ctx, awaitResult(t, s))

	rt.mu.Lock()
	stops := append([]string(nil), rt.containerStops...)
	rt.mu.Unlock()
	if len(stops) != 1 || stops[0] != "abc123" {
		t.Errorf("StopContainer calls = %v, want [abc123]", stops)
	}

	_, entries, _, _ = view.snapshot()
	if len(entries) != 1 || entries[0].Label() != "web (nginx)" {
		t.Fatalf("after click entries = %+v", entries)
	}
	if entries[0].Record.Running || entries[0].Indicator() != "🔴" {
		t.Errorf("after click entry running=%v, want stopped indicator", entries[0].Record.Running)
	}
	if !notifier.has("web has been stopped") {
		t.Error("no success notification for the stop")
	}

	// A second click starts it again.
	s.handle(ctx, ToggleContainer{ID: "abc123"})
	s.complete(ctx, awaitCompletion(t, s))
	s.apply(ctx, awaitResult(t, s))
	if _, entries, _, _ = view.snapshot(); !entries[0].Record.Running {
		t.Error("second click did not start the container")
	}
}

func TestDoubleStartIssuesOneCommand(t *testing.T) {
	ctx := context.Background()
	rt := &fakeRuntime{up: false, startGate: make(chan struct{})}
	s, view, notifier := newTestSync(rt)

	cycle(t, ctx, s)

	s.handle(ctx, StartDaemon{})
	header, _, _, _ := view.snapshot()
	if header.Status.Status != models.StatusStarting {
		t.Errorf("status = %s, want starting right after the click", header.Status.Status)
	}
	if header.Start.Enabled {
		t.Error("Start stays enabled while the start command is in flight")
	}
	if !notifier.has("Starting Docker") {
		t.Error("no notification on issuance")
	}

	s.handle(ctx, StartDaemon{})

	// A timer probe during the start does not clobber the optimistic status.
	rt.setUp(false)
	cycle(t, ctx, s)
	if header, _, _, _ := view.snapshot(); header.Status.Status != models.StatusStarting {
		t.Errorf("status = %s during start, want starting", header.Status.Status)
	}

	close(rt.startGate)
	s.complete(ctx, awaitCompletion(t, s))
	s.apply(ctx, awaitResult(t, s))

	rt.mu.Lock()
	calls := rt.startCalls
	rt.mu.Unlock()
	if calls != 1 {
		t.Errorf("StartRuntime called %d times, want 1", calls)
	}

	header, _, visible, _ := view.snapshot()
	if header.Status.Status != models.StatusRunning {
		t.Errorf("status = %s after start, want running", header.Status.Status)
	}
	if !visible {
		t.Error("containers submenu not attached after start")
	}
	if !notifier.has("Docker Started") {
		t.Error("no success notification")
	}
}

func TestProbeIssuedBeforeCompletionDropped(t *testing.T) {
	ctx := context.Background()
	rt := &fakeRuntime{up: false}
	s, view, notifier := newTestSync(rt)

	cycle(t, ctx, s)
	s.handle(ctx, StartDaemon{})

	// A timer probe starts while colima is still booting.
	s.probe(ctx, false)
	stale := awaitResult(t, s)

	s.complete(ctx, awaitCompletion(t, s))
	fresh := awaitResult(t, s)

	s.apply(ctx, stale)
	if header, _, _, _ := view.snapshot(); header.Status.Status == models.StatusStopped {
		t.Error("probe from before the completion flipped the status back to stopped")
	}
	s.apply(ctx, fresh)
	if header, _, _, _ := view.snapshot(); header.Status.Status != models.StatusRunning {
		t.Errorf("status = %s after the resync, want running", header.Status.Status)
	}
	if notifier.has("Docker is running") {
		t.Error("own start also reported as an external transition")
	}
}

func TestRedundantDaemonCommands(t *testing.T) {
	ctx := context.Background()
	rt := &fakeRuntime{up: true}
	s, _, notifier := newTestSync(rt)

	cycle(t, ctx, s)
	s.handle(ctx, StartDaemon{})
	if !notifier.has("Docker is already running") {
		t.Error("no notification for a redundant start")
	}

	rt.setUp(false)
	cycle(t, ctx, s)
	s.handle(ctx, StopDaemon{})
	if !notifier.has("Docker is not running") {
		t.Error("no notification for a redundant stop")
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.startCalls != 0 || rt.stopCalls != 0 {
		t.Errorf("redundant commands reached the runtime: start=%d stop=%d", rt.startCalls, rt.stopCalls)
	}
}

func TestStartFailureCorrectedByProbe(t *testing.T) {
	ctx := context.Background()
	rt := &fakeRuntime{up: false, startErr: errors.New("colima start: exit status 1")}
	s, view, notifier := newTestSync(rt)

	cycle(t, ctx, s)
	s.handle(ctx, StartDaemon{})
	s.complete(ctx, awaitCompletion(t, s))
	s.apply(ctx, awaitResult(t, s))

	header, _, _, _ := view.snapshot()
	if header.Status.Status != models.StatusStopped {
		t.Errorf("status = %s after failed start, want stopped", header.Status.Status)
	}
	if !header.Start.Enabled {
		t.Error("Start disabled after the failed command resolved")
	}
	if !notifier.has("Failed to start Docker") {
		t.Error("no failure notification")
	}
}

func TestTimeoutNotification(t *testing.T) {
	ctx := context.Background()
	rt := &fakeRuntime{up: false}
	s, _, notifier := newTestSync(rt)

	s.busy = true
	s.complete(ctx, completion{kind: opStartDaemon, err: probe.ErrTimeout})
	awaitResult(t, s)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	last := notifier.sent[len(notifier.sent)-1]
	if last.Message != "Failed to start Docker" || last.Info != "The command timed out" {
		t.Errorf("notification = %+v", last)
	}
	if s.busy {
		t.Error("daemon still marked busy after completion")
	}
}

func TestStopDaemon(t *testing.T) {
	ctx := context.Background()
	rt := &fakeRuntime{up: true, containers: []models.ContainerRecord{webRecord(true)}}
	s, view, notifier := newTestSync(rt)

	cycle(t, ctx, s)
	s.handle(ctx, StopDaemon{})

	header, _, visible, _ := view.snapshot()
	if header.Status.Status != models.StatusStopping {
		t.Errorf("status = %s, want stopping", header.Status.Status)
	}
	if visible {
		t.Error("containers submenu attached while stopping")
	}

	s.complete(ctx, awaitCompletion(t, s))
	s.apply(ctx, awaitResult(t, s))

	if header, _, _, _ := view.snapshot(); header.Status.Status != models.StatusStopped {
		t.Errorf("status = %s after stop, want stopped", header.Status.Status)
	}
	if !notifier.has("Docker Stopped") {
		t.Error("no success notification")
	}
	if notifier.has("Docker stopped") {
		t.Error("own stop also reported as an external transition")
	}
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	rt := &fakeRuntime{up: false}
	s, view, notifier := newTestSync(rt)

	cycle(t, ctx, s)
	s.handle(ctx, Prune{})
	if !notifier.has("Docker is not running") {
		t.Error("prune while down did not notify")
	}

	rt.mu.Lock()
	rt.up = true
	rt.containers = []models.ContainerRecord{
		webRecord(true),
		{ID: "def456", Name: "db", Image: "postgres", Running: false},
	}
	rt.mu.Unlock()
	cycle(t, ctx, s)

	s.handle(ctx, Prune{})
	s.complete(ctx, awaitCompletion(t, s))
	s.apply(ctx, awaitResult(t, s))

	if _, entries, _, _ := view.snapshot(); len(entries) != 1 || entries[0].Record.ID != "abc123" {
		t.Errorf("after prune entries = %+v, want only the running container", entries)
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.prunes != 1 {
		t.Errorf("prunes = %d, want 1", rt.prunes)
	}
}

func TestToggleUnknownContainerResyncs(t *testing.T) {
	ctx := context.Background()
	rt := &fakeRuntime{up: true}
	s, _, _ := newTestSync(rt)

	cycle(t, ctx, s)
	s.handle(ctx, ToggleContainer{ID: "gone"})
	awaitResult(t, s)

	rt.mu.Lock()
	defer rt.mu.Unlock()
	if len(rt.containerStarts)+len(rt.containerStops) != 0 {
		t.Error("toggle of an unlisted container reached the runtime")
	}
}

func TestRun(t *testing.T) {
	rt := &fakeRuntime{up: true, containers: []models.ContainerRecord{webRecord(true)}}
	view := &fakeView{}
	s := New(rt, view, &fakeNotifier{}, Options{
		StatusInterval:     time.Hour,
		ContainersInterval: time.Hour,
		IncludeStopped:     true,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Run(context.Background())
	}()

	eventually(t, "container rendered", func() bool {
		_, entries, _, _ := view.snapshot()
		return len(entries) == 1 && entries[0].Record.Running
	})

	if !s.Send(ToggleContainer{ID: "abc123"}) {
		t.Fatal("Send() = false on a running synchronizer")
	}
	eventually(t, "container stopped", func() bool {
		_, entries, _, _ := view.snapshot()
		return len(entries) == 1 && !entries[0].Record.Running
	})

	s.Send(Quit{})
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run() = %v, want nil after Quit", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after Quit")
	}

	if s.Send(Resync{}) {
		t.Error("Send() = true after the synchronizer stopped")
	}
}

func TestRunContextCancel(t *testing.T) {
	s := New(&fakeRuntime{}, &fakeView{}, nil, DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Run(ctx)
	}()
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
