package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Alex7k/websocket-chat/domain"
	"github.com/Alex7k/websocket-chat/domain/event"
	apperrors "github.com/Alex7k/websocket-chat/errors"
	"github.com/Alex7k/websocket-chat/moderation"
	"github.com/Alex7k/websocket-chat/ratelimit"
	"github.com/Alex7k/websocket-chat/runtime"
)

// memoryRepository keeps messages in a slice so the pipeline can be tested
// without a database.
type memoryRepository struct {
	messages []domain.Message
	fail     bool
}

func (m *memoryRepository) StoreMessage(message domain.Message) (domain.Message, error) {
	if m.fail {
		return domain.Message{}, apperrors.ErrStoreFailure
	}
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	m.messages = append(m.messages, message)
	return message, nil
}

func (m *memoryRepository) RecentMessages(limit int) ([]domain.Message, error) {
	if m.fail {
		return nil, apperrors.ErrStoreFailure
	}
	if limit > len(m.messages) {
		limit = len(m.messages)
	}
	return m.messages[len(m.messages)-limit:], nil
}

func (m *memoryRepository) Ping() error { return nil }

func newTestService(repo *memoryRepository, max int) (*ChatService, *runtime.Broadcaster) {
	log := slog.Default()
	broadcaster := runtime.NewBroadcaster(16, log)
	return NewChatService(
		repo,
		ratelimit.NewLimiter(max, time.Minute),
		broadcaster,
		runtime.NewRegistry(),
		nil,
		log,
	), broadcaster
}

func TestPostMessage_SuccessPathPersistsAndPublishes(t *testing.T) {
	req := require.New(t)
	repo := &memoryRepository{}
	service, broadcaster := newTestService(repo, 10)

	stored, err := service.PostMessage(context.Background(), PostMessageCommand{
		ClientAddr: "10.0.0.1",
		Username:   "Swift-Otter-0482",
		Text:       "  hello  ",
	})
	req.NoError(err)
	req.Equal("hello", stored.Text)
	// Display name snapshots the identity when the client sent none
	req.Equal("Swift-Otter-0482", stored.DisplayName)
	req.NotEqual(uuid.Nil, stored.ID)
	req.Len(repo.messages, 1)

	// The persisted message was published for fan-out
	evt := <-broadcaster.Events()
	req.Equal(event.MessagePosted{Message: stored}, evt)
}

func TestPostMessage_ValidationShortCircuits(t *testing.T) {
	req := require.New(t)
	repo := &memoryRepository{}
	service, broadcaster := newTestService(repo, 10)

	_, err := service.PostMessage(context.Background(), PostMessageCommand{
		ClientAddr: "10.0.0.1",
		Username:   "Swift-Otter-0482",
		Text:       "   ",
	})
	req.ErrorIs(err, apperrors.ErrEmptyMessage)

	// Nothing persisted, nothing published, no rate budget consumed
	req.Empty(repo.messages)
	select {
	case <-broadcaster.Events():
		t.Fatal("validation failure must not publish")
	default:
	}
}

func TestPostMessage_RateLimitExit(t *testing.T) {
	req := require.New(t)
	repo := &memoryRepository{}
	service, _ := newTestService(repo, 2)

	cmd := PostMessageCommand{ClientAddr: "10.0.0.1", Username: "Swift-Otter-0482", Text: "hi"}
	_, err := service.PostMessage(context.Background(), cmd)
	req.NoError(err)
	_, err = service.PostMessage(context.Background(), cmd)
	req.NoError(err)

	_, err = service.PostMessage(context.Background(), cmd)
	req.ErrorIs(err, apperrors.ErrRateLimited)
	req.Len(repo.messages, 2)
}

func TestPostMessage_StoreFailureDoesNotPublish(t *testing.T) {
	req := require.New(t)
	repo := &memoryRepository{fail: true}
	service, broadcaster := newTestService(repo, 10)

	_, err := service.PostMessage(context.Background(), PostMessageCommand{
		ClientAddr: "10.0.0.1",
		Username:   "Swift-Otter-0482",
		Text:       "hello",
	})
	req.ErrorIs(err, apperrors.ErrStoreFailure)

	select {
	case <-broadcaster.Events():
		t.Fatal("failed append must not publish")
	default:
	}
}

func TestPostMessage_CensorsBeforePersisting(t *testing.T) {
	req := require.New(t)
	censor, err := moderation.NewCensor([]string{"badger"}, '*', slog.Default())
	req.NoError(err)

	repo := &memoryRepository{}
	log := slog.Default()
	service := NewChatService(
		repo,
		ratelimit.NewLimiter(10, time.Minute),
		runtime.NewBroadcaster(16, log),
		runtime.NewRegistry(),
		censor,
		log,
	)

	stored, err := service.PostMessage(context.Background(), PostMessageCommand{
		ClientAddr: "10.0.0.1",
		Username:   "Swift-Otter-0482",
		Text:       "the badger strikes",
	})
	req.NoError(err)
	req.Equal("the ****** strikes", stored.Text)
	// The stored copy is the censored one
	req.Equal("the ****** strikes", repo.messages[0].Text)
}

func TestSubscribe_PublishesRecomputedPresence(t *testing.T) {
	req := require.New(t)
	repo := &memoryRepository{}
	service, broadcaster := newTestService(repo, 10)

	service.Subscribe("first", nopSink{})
	req.Equal(event.PresenceChanged{Count: 1}, <-broadcaster.Events())
	service.Subscribe("second", nopSink{})
	req.Equal(event.PresenceChanged{Count: 2}, <-broadcaster.Events())

	service.Unsubscribe("first")
	req.Equal(event.PresenceChanged{Count: 1}, <-broadcaster.Events())
	req.Equal(1, service.PresenceCount())
}

type nopSink struct{}

func (nopSink) Consume(ctx context.Context, e event.DomainEvent) error { return nil }
