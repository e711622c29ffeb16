package tray

import (
	"testing"

	"github.com/lvonsydow/colama/internal/menu"
	"github.com/lvonsydow/colama/internal/models"
)

func TestLayout(t *testing.T) {
	items := menu.RenderContainers(models.NewSnapshot([]models.ContainerRecord{
		{ID: "abc123", Name: "web", Image: "nginx", Running: true},
		{ID: "def456", Name: "db", Image: "postgres", Running: false},
	}))

	l := layout(items, MaxContainerSlots)
	want := []slot{
		{title: "🟢 web (nginx)", id: "abc123"},
		{title: "🔴 db (postgres)", id: "def456"},
	}
	if len(l.slots) != len(want) {
		t.Fatalf("layout() gave %d slots, want %d", len(l.slots), len(want))
	}
	for i := range want {
		if l.slots[i] != want[i] {
			t.Errorf("slot %d = %+v, want %+v", i, l.slots[i], want[i])
		}
	}
	if l.overflow != 0 {
		t.Errorf("overflow = %d, want 0", l.overflow)
	}
	if l.counts != (containerCounts{running: 1, total: 2}) {
		t.Errorf("counts = %+v, want 1 of 2 running", l.counts)
	}
}

func TestLayoutOverflow(t *testing.T) {
	var records []models.ContainerRecord
	for _, id := range []string{"a1", "b2", "c3", "d4", "e5"} {
		records = append(records, models.ContainerRecord{ID: id, Name: id, Running: true})
	}

	l := layout(menu.RenderContainers(models.NewSnapshot(records)), 3)
	if len(l.slots) != 3 || l.overflow != 2 {
		t.Errorf("layout() = %d slots, %d overflow, want 3, 2", len(l.slots), l.overflow)
	}
	if l.slots[2].id != "c3" {
		t.Errorf("last slot id = %q, want c3", l.slots[2].id)
	}
}

func TestLayoutCleanupOnly(t *testing.T) {
	l := layout(menu.RenderContainers(nil), MaxContainerSlots)
	if len(l.slots) != 0 || l.overflow != 0 {
		t.Errorf("layout() of an empty snapshot = %+v", l)
	}
}

func TestFormatTooltip(t *testing.T) {
	tests := []struct {
		status   models.RuntimeStatus
		counts   containerCounts
		attached bool
		want     string
	}{
		{models.StatusRunning, containerCounts{running: 2, total: 3}, true, "Co-lama: Docker running, 2/3 containers running"},
		{models.StatusStopped, containerCounts{}, false, "Co-lama: Docker stopped"},
		{models.StatusStarting, containerCounts{running: 1, total: 1}, false, "Co-lama: Docker starting"},
	}

	for _, tt := range tests {
		h := menu.RenderHeader(tt.status, false)
		if got := formatTooltip(h, tt.counts, tt.attached); got != tt.want {
			t.Errorf("formatTooltip(%s, %+v, %v) = %q, want %q", tt.status, tt.counts, tt.attached, got, tt.want)
		}
	}
}
