package jobevents

import (
	"context"
	"sync"

	"github.com/Overland-East-Bay/job-tracker-api/internal/ports/out/jobevents"
)

// Recorder is an in-memory jobevents.Publisher that keeps every event.
// Tests use it to assert on published events.
type Recorder struct {
	mu     sync.Mutex
	events []jobevents.Event

	// Err, when set, is returned from Publish after recording.
	Err error
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(ctx context.Context, e jobevents.Event) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.Err
}

// Events returns a copy of the recorded events in publish order.
func (r *Recorder) Events() []jobevents.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]jobevents.Event, len(r.events))
	copy(out, r.events)
	return out
}
