package api

import (
	"github.com/Alex7k/websocket-chat/domain"
)

type PostMessageRequest struct {
	Text        string `json:"text" validate:"required"`
	DisplayName string `json:"displayName" validate:"omitempty,max=256"`
}

type MessagesResponse struct {
	Messages []domain.MessageDTO `json:"messages"`
}

type IdentityResponse struct {
	Username string `json:"username"`
}

type HealthResponse struct {
	Status      string  `json:"status"`
	Database    string  `json:"database"`
	Connections int     `json:"connections"`
	RAMBytes    uint64  `json:"ram_bytes,omitempty"`
	CPUPercent  float64 `json:"cpu_percent,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Error kinds are stable machine-readable identifiers; clients branch on
// them to decide between correcting input and backing off.
const (
	KindValidation  = "validation_error"
	KindRateLimited = "rate_limit_exceeded"
	KindServer      = "server_error"
)

// Real-time channel frame. Payload is a MessageDTO for "messages:new" and
// an integer for "presence:count".
type ChannelEvent struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

const (
	EventNewMessage    = "messages:new"
	EventPresenceCount = "presence:count"
)
