package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newStarted(t *testing.T) (*Watcher, string) {
	t.Helper()
	dir := t.TempDir()
	sock := filepath.Join(dir, "docker.sock")

	w, err := New(sock)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(w.Stop)
	return w, sock
}

func expectEvent(t *testing.T, w *Watcher, what string) {
	t.Helper()
	select {
	case <-w.Events():
	case <-time.After(2 * time.Second):
		t.Fatalf("no event after %s", what)
	}
}

func expectQuiet(t *testing.T, w *Watcher, what string) {
	t.Helper()
	select {
	case <-w.Events():
		t.Fatalf("unexpected event after %s", what)
	case <-time.After(3 * DebounceDelay):
	}
}

func TestSocketCreateAndRemove(t *testing.T) {
	w, sock := newStarted(t)

	if err := os.WriteFile(sock, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	expectEvent(t, w, "socket created")

	if err := os.Remove(sock); err != nil {
		t.Fatal(err)
	}
	expectEvent(t, w, "socket removed")
}

func TestOtherFilesIgnored(t *testing.T) {
	w, sock := newStarted(t)

	other := filepath.Join(filepath.Dir(sock), "colima.yaml")
	if err := os.WriteFile(other, []byte("cpu: 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	expectQuiet(t, w, "unrelated file written")
}

func TestBurstIsDebounced(t *testing.T) {
	w, sock := newStarted(t)

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(sock, nil, 0o600); err != nil {
			t.Fatal(err)
		}
		if err := os.Remove(sock); err != nil {
			t.Fatal(err)
		}
	}
	expectEvent(t, w, "burst")
	expectQuiet(t, w, "the burst was delivered")
}

func TestStartMissingDir(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "missing", "docker.sock"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Stop()

	if err := w.Start(); err == nil {
		t.Error("Start() on a missing directory returned nil error")
	}
}

func TestStopTwice(t *testing.T) {
	w, _ := newStarted(t)
	w.Stop()
	w.Stop()
}
