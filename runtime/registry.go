package runtime

import (
	"sync"

	"github.com/Alex7k/websocket-chat/contract"
)

// Registry tracks the live real-time subscriptions. It is the single owner
// of the connection set: presence counts are recomputed from it on every
// change rather than tracked incrementally, so a missed event cannot make
// the count drift.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]contract.EventSink
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]contract.EventSink)}
}

// Subscribe registers a subscriber's active connection. Re-subscribing with
// the same id replaces the previous sink.
func (r *Registry) Subscribe(subscriberID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[subscriberID] = sink
}

// Unsubscribe removes a subscriber so no further events are delivered to it.
func (r *Registry) Unsubscribe(subscriberID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, subscriberID)
}

// Sinks returns a snapshot of the currently registered sinks. Fan-out
// iterates the snapshot so delivery never holds the registry lock.
func (r *Registry) Sinks() []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sinks := make([]contract.EventSink, 0, len(r.sessions))
	for _, sink := range r.sessions {
		sinks = append(sinks, sink)
	}
	return sinks
}

// Count returns the number of currently-open subscriptions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
