// Package notify delivers user-visible notifications.
package notify

import (
	"log"
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/lvonsydow/colama/internal/models"
)

// AppName is shown as the sender of desktop notifications.
const AppName = "Co-lama"

// Notifier shows a notification. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Notify(n models.Notification)
}

// Desktop posts notifications to the desktop notification center.
type Desktop struct {
	send func(title, body string) error
}

// NewDesktop creates a desktop notifier.
func NewDesktop() *Desktop {
	beeep.AppName = AppName
	return &Desktop{send: func(title, body string) error {
		return beeep.Notify(title, body, "")
	}}
}

// Notify posts n. Delivery failures are logged and otherwise ignored.
func (d *Desktop) Notify(n models.Notification) {
	if err := d.send(n.Title, n.Body()); err != nil {
		log.Printf("[notify] Failed to post %q: %v", n.Title, err)
	}
}

// Log writes notifications to a logger. Used when running without a
// desktop session.
type Log struct {
	logger *log.Logger
}

// NewLog creates a notifier writing to logger, or to the standard logger
// when logger is nil.
func NewLog(logger *log.Logger) *Log {
	if logger == nil {
		logger = log.Default()
	}
	return &Log{logger: logger}
}

func (l *Log) Notify(n models.Notification) {
	if n.Info != "" {
		l.logger.Printf("[notify] %s: %s (%s)", n.Title, n.Message, n.Info)
		return
	}
	l.logger.Printf("[notify] %s: %s", n.Title, n.Message)
}

// Multi fans a notification out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(n models.Notification) {
	for _, target := range m {
		if target != nil {
			target.Notify(n)
		}
	}
}

// Recorder keeps every notification it receives.
type Recorder struct {
	mu   sync.Mutex
	sent []models.Notification
}

func (r *Recorder) Notify(n models.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

// Sent returns a copy of the recorded notifications in arrival order.
func (r *Recorder) Sent() []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Notification(nil), r.sent...)
}
