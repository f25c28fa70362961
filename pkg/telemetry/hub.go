package telemetry

import (
	"sync"
	"time"
)

// EventType identifies a kind of navigation event.
type EventType string

const (
	// EventControllerAttached fires when a controller starts managing a
	// container.
	EventControllerAttached EventType = "controller.attached"
	// EventControllerClosed fires when a controller detaches.
	EventControllerClosed EventType = "controller.closed"
	// EventFocusChanged fires when real focus moves between elements.
	EventFocusChanged EventType = "focus.changed"
	// EventCurrentChanged fires when a controller designates a new
	// current element, or clears it on suspension.
	EventCurrentChanged EventType = "current.changed"
	// EventConfigReloaded fires after a configuration file change has
	// been applied.
	EventConfigReloaded EventType = "config.reloaded"
)

// Event is a single navigation telemetry event.
type Event struct {
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	Controller string         `json:"controller,omitempty"`
	Element    string         `json:"element,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
}

// Hub fans out navigation events to any number of subscribers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
	closed      bool
}

// NewHub constructs a telemetry hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[chan Event]struct{})}
}

// Publish notifies all subscribers of an event. Non-blocking; the event
// is dropped for subscribers whose buffer is full.
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe returns a channel that will receive future events and a
// cleanup func.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		empty := make(chan Event)
		close(empty)
		return empty, func() {}
	}
	ch := make(chan Event, 64)
	h.subscribers[ch] = struct{}{}
	unsubscribe := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
	}
	return ch, unsubscribe
}

// Close unsubscribes all listeners and prevents future publications.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subscribers {
		close(ch)
		delete(h.subscribers, ch)
	}
}
