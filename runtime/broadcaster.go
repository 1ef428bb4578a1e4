package runtime

import (
	"log/slog"

	"github.com/Alex7k/websocket-chat/domain"
	"github.com/Alex7k/websocket-chat/domain/event"
)

// Broadcaster is the publish side of the real-time channel. Publishing
// pushes an event onto a buffered channel drained by the fan-out worker;
// when the buffer is full the event is dropped rather than blocking the
// ingress pipeline, since late subscribers catch up via the history read
// path anyway.
type Broadcaster struct {
	events chan event.DomainEvent
	log    *slog.Logger
}

func NewBroadcaster(bufferSize int, log *slog.Logger) *Broadcaster {
	return &Broadcaster{
		events: make(chan event.DomainEvent, bufferSize),
		log:    log,
	}
}

// Events exposes the channel drained by the fan-out worker.
func (b *Broadcaster) Events() <-chan event.DomainEvent {
	return b.events
}

func (b *Broadcaster) PublishMessage(msg domain.Message) {
	b.publish(event.MessagePosted{Message: msg})
}

func (b *Broadcaster) PublishPresence(count int) {
	b.publish(event.PresenceChanged{Count: count})
}

func (b *Broadcaster) publish(e event.DomainEvent) {
	select {
	case b.events <- e:
	default:
		b.log.Warn("event buffer full, dropping fan-out event")
	}
}
