// Package event defines the domain events flowing through the fan-out worker.
package event

import (
	"github.com/Alex7k/websocket-chat/domain"
)

type DomainEvent interface {
	isDomainEvent()
}

// MessagePosted is emitted after a message has been durably persisted.
type MessagePosted struct {
	Message domain.Message
}

// PresenceChanged carries the recomputed number of live subscribers.
// It is emitted on every connect and disconnect of the real-time channel.
type PresenceChanged struct {
	Count int
}

func (MessagePosted) isDomainEvent()   {}
func (PresenceChanged) isDomainEvent() {}
