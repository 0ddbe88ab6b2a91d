package game

import (
	"context"
	"sync"

	"github.com/mcoot/memorygame-go/internal/model"
)

// Publisher receives engine events after the state change they describe has been stored
type Publisher interface {
	Publish(ctx context.Context, event model.Event)
}

// NopPublisher discards all events
type NopPublisher struct{}

// Publish does nothing
func (NopPublisher) Publish(context.Context, model.Event) {}

// MultiPublisher fans an event out to several publishers in order
type MultiPublisher []Publisher

// Publish forwards the event to every publisher
func (m MultiPublisher) Publish(ctx context.Context, event model.Event) {
	for _, p := range m {
		p.Publish(ctx, event)
	}
}

// RecordingPublisher keeps every published event in memory
type RecordingPublisher struct {
	mu     sync.Mutex
	events []model.Event
}

// Publish appends the event
func (r *RecordingPublisher) Publish(_ context.Context, event model.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events
func (r *RecordingPublisher) Events() []model.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Drain returns the recorded events and clears the buffer
func (r *RecordingPublisher) Drain() []model.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}
