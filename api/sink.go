package api

import (
	"context"

	"github.com/Alex7k/websocket-chat/domain/event"
)

// websocketSink bridges the fan-out worker to one WebSocket connection.
// Consume hands the event to the connection's writer goroutine through a
// buffered channel; when the subscriber cannot keep up, events are dropped
// rather than applying backpressure to the fan-out loop.
type websocketSink struct {
	events chan event.DomainEvent
}

func newWebsocketSink(bufferSize int) *websocketSink {
	return &websocketSink{events: make(chan event.DomainEvent, bufferSize)}
}

// Consume is called by the fan-out worker. The WebSocket handler's writer
// loop takes it from here.
func (s *websocketSink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case s.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		// Subscriber buffer full; it will catch up via the history read.
		return nil
	}
}
