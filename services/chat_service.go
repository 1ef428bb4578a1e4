// Package services orchestrates the message ingress pipeline.
package services

import (
	"context"
	"log/slog"

	"github.com/Alex7k/websocket-chat/contract"
	"github.com/Alex7k/websocket-chat/domain"
	apperrors "github.com/Alex7k/websocket-chat/errors"
	"github.com/Alex7k/websocket-chat/moderation"
	"github.com/Alex7k/websocket-chat/ratelimit"
	"github.com/Alex7k/websocket-chat/repositories"
)

type IChatService interface {
	PostMessage(ctx context.Context, cmd PostMessageCommand) (domain.Message, error)
	GetMessages(limit int) ([]domain.Message, error)
	Subscribe(subscriberID string, sink contract.EventSink)
	Unsubscribe(subscriberID string)
	PresenceCount() int
}

// PostMessageCommand carries one inbound post through the pipeline.
// Username is the identity resolved by the transport layer; ClientAddr is
// the peer address used, together with the username, as the admission key.
type PostMessageCommand struct {
	ClientAddr  string
	Username    string
	DisplayName string
	Text        string
}

// ChatService runs each post through validate → censor → admit → append →
// publish, short-circuiting at the first failing stage. It holds no
// request-to-request state of its own; everything mutable lives in the
// limiter and the registry.
type ChatService struct {
	repository  repositories.IMessageRepository
	limiter     *ratelimit.Limiter
	broadcaster contract.IBroadcaster
	registry    contract.IRegistry
	censor      *moderation.Censor // nil when moderation is disabled
	log         *slog.Logger
}

func NewChatService(
	repository repositories.IMessageRepository,
	limiter *ratelimit.Limiter,
	broadcaster contract.IBroadcaster,
	registry contract.IRegistry,
	censor *moderation.Censor,
	log *slog.Logger,
) *ChatService {
	return &ChatService{
		repository:  repository,
		limiter:     limiter,
		broadcaster: broadcaster,
		registry:    registry,
		censor:      censor,
		log:         log,
	}
}

// PostMessage validates, admits and persists one message, then publishes it
// to the live subscribers. Publish happens only after the append has been
// confirmed: a message that failed to persist never reaches the channel.
func (s *ChatService) PostMessage(_ context.Context, cmd PostMessageCommand) (domain.Message, error) {
	text, err := domain.ValidateText(cmd.Text)
	if err != nil {
		return domain.Message{}, err
	}
	displayName, err := domain.ValidateDisplayName(cmd.DisplayName, cmd.Username)
	if err != nil {
		return domain.Message{}, err
	}

	if s.censor != nil {
		text = s.censor.Apply(text)
	}

	if !s.limiter.Allow(ratelimit.Key(cmd.ClientAddr, cmd.Username)) {
		return domain.Message{}, apperrors.ErrRateLimited
	}

	stored, err := s.repository.StoreMessage(domain.Message{
		Username:    cmd.Username,
		DisplayName: displayName,
		Text:        text,
	})
	if err != nil {
		return domain.Message{}, err
	}

	s.broadcaster.PublishMessage(stored)
	return stored, nil
}

// GetMessages returns the most recent messages in chronological ascending
// order. The repository clamps the limit to its own bounds.
func (s *ChatService) GetMessages(limit int) ([]domain.Message, error) {
	return s.repository.RecentMessages(limit)
}

// Subscribe registers a live subscriber and publishes the recomputed
// presence count.
func (s *ChatService) Subscribe(subscriberID string, sink contract.EventSink) {
	s.registry.Subscribe(subscriberID, sink)
	s.broadcaster.PublishPresence(s.registry.Count())
}

// Unsubscribe removes a live subscriber and publishes the recomputed
// presence count.
func (s *ChatService) Unsubscribe(subscriberID string) {
	s.registry.Unsubscribe(subscriberID)
	s.broadcaster.PublishPresence(s.registry.Count())
}

func (s *ChatService) PresenceCount() int {
	return s.registry.Count()
}
