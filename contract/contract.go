package contract

import (
	"context"
	"reflect"

	"github.com/Alex7k/websocket-chat/domain"
	"github.com/Alex7k/websocket-chat/domain/event"
)

// Worker doesn't protect itself.
// Can be silly, focused.
type Worker interface {
	Run(ctx context.Context) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker
// initialization or lifecycle events, avoiding the need for manual naming
// in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives fanned-out events for a single subscriber.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

type IRegistry interface {
	Subscribe(subscriberID string, sink EventSink)
	Unsubscribe(subscriberID string)
	Sinks() []EventSink
	Count() int
}

// IBroadcaster is the publish side of the real-time channel. Both calls are
// fire-and-forget: delivery is at most once per currently-connected
// subscriber and nothing is buffered for subscribers that are absent at
// publish time.
type IBroadcaster interface {
	PublishMessage(msg domain.Message)
	PublishPresence(count int)
}
