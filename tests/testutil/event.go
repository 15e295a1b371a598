package testutil

import (
	"context"
	"slices"
	"sync"

	"github.com/schoolms/backend/internal/domain/shared"
)

// RecordingHandler records the events it handles. It doubles as an
// EventPublisher so services can publish straight into it.
type RecordingHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
}

// NewRecordingHandler creates a handler for eventTypes; none means every event
func NewRecordingHandler(eventTypes ...string) *RecordingHandler {
	return &RecordingHandler{eventTypes: eventTypes}
}

// EventTypes returns the subscribed event types
func (h *RecordingHandler) EventTypes() []string {
	return h.eventTypes
}

// Handle records event and returns the configured error
func (h *RecordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

// Publish records events whose type is subscribed
func (h *RecordingHandler) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, e := range events {
		if len(h.eventTypes) > 0 && !slices.Contains(h.eventTypes, e.EventType()) {
			continue
		}
		if err := h.Handle(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// Handled returns a copy of the recorded events
func (h *RecordingHandler) Handled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.handled)
}

// Count returns how many events carry eventType
func (h *RecordingHandler) Count(eventType string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, e := range h.handled {
		if e.EventType() == eventType {
			n++
		}
	}
	return n
}

// SetError makes subsequent Handle calls fail with err
func (h *RecordingHandler) SetError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

var (
	_ shared.EventHandler   = (*RecordingHandler)(nil)
	_ shared.EventPublisher = (*RecordingHandler)(nil)
)
