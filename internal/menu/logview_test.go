package menu

import (
	"bytes"
	"log"
	"testing"

	"github.com/lvonsydow/colama/internal/models"
)

func TestLogView(t *testing.T) {
	var buf bytes.Buffer
	v := NewLogView(log.New(&buf, "", 0))

	v.SetHeader(RenderHeader(models.StatusRunning, false))
	v.SetContainers(RenderContainers(models.NewSnapshot([]models.ContainerRecord{
		{ID: "abc123", Name: "web", Image: "nginx", Running: true},
	})))
	v.HideContainers()

	want := "[menu] 🟢 Docker is up and running [Stop Docker]\n" +
		"[menu] Containers (1)\n" +
		"  🟢 web (nginx) abc123\n" +
		"[menu] Containers hidden\n"
	if got := buf.String(); got != want {
		t.Errorf("LogView output =\n%s\nwant\n%s", got, want)
	}
}
