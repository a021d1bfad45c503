package notify

import (
	"context"
	"sync"

	"route-planner/internal/ports"
)

// Recorder keeps every notification in memory. routectl uses it to print the
// outcome of a command; tests use it to assert on user-visible feedback.
type Recorder struct {
	mu    sync.Mutex
	notes []ports.Notification
	next  ports.Notifier
}

// NewRecorder returns a Recorder that also forwards to next when non-nil.
func NewRecorder(next ports.Notifier) *Recorder {
	return &Recorder{next: next}
}

func (r *Recorder) Notify(ctx context.Context, n ports.Notification) {
	r.mu.Lock()
	r.notes = append(r.notes, n)
	r.mu.Unlock()

	if r.next != nil {
		r.next.Notify(ctx, n)
	}
}

// All returns a copy of everything recorded so far.
func (r *Recorder) All() []ports.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ports.Notification, len(r.notes))
	copy(out, r.notes)
	return out
}

// Last returns the most recent notification.
func (r *Recorder) Last() (ports.Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return ports.Notification{}, false
	}
	return r.notes[len(r.notes)-1], true
}

// Kinds returns the kinds recorded, in order.
func (r *Recorder) Kinds() []ports.NotificationKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ports.NotificationKind, 0, len(r.notes))
	for _, n := range r.notes {
		out = append(out, n.Kind)
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.notes = nil
	r.mu.Unlock()
}
