package workers

import (
	"context"
	"log/slog"

	"github.com/Alex7k/websocket-chat/contract"
	"github.com/Alex7k/websocket-chat/domain/event"
)

// EventFanout drains the broadcaster's event channel and delivers each event
// to every currently registered sink.
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// ordering, durability, or retries. EventFanout is not a message broker:
// subscribers that connect after an event was published never see it, and
// a slow subscriber loses events instead of stalling the others.
//
// EventFanout is safe for concurrent use by multiple goroutines.
type EventFanout struct {
	log      *slog.Logger
	events   <-chan event.DomainEvent
	registry contract.IRegistry
}

func NewEventFanout(log *slog.Logger, events <-chan event.DomainEvent, registry contract.IRegistry) *EventFanout {
	return &EventFanout{log: log, events: events, registry: registry}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping fan-out")
			return nil
		case evt := <-w.events:
			w.Fanout(ctx, evt)
		}
	}
}

// Fanout delivers one event to each sink registered at this instant.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	for _, sink := range w.registry.Sinks() {
		if err := sink.Consume(ctx, evt); err != nil {
			w.log.Debug("sink rejected event", "error", err)
		}
	}
}
