// Package domain contains core concepts of the chat system.
// This file defines Message and related rules.
// Messages are immutable and validated by the domain.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat message.
// Once created it is never updated or deleted; DisplayName is a snapshot
// taken at creation time, not a live reference to the author's current name.
type Message struct {
	ID          uuid.UUID
	Username    string
	DisplayName string
	Text        string
	CreatedAt   time.Time
}

// MessageDTO is the wire representation shared by the HTTP responses
// and the real-time channel payloads.
type MessageDTO struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	CreatedAt   string `json:"createdAt"`
}

func (m Message) ToDTO() MessageDTO {
	return MessageDTO{
		ID:          m.ID.String(),
		Text:        m.Text,
		Username:    m.Username,
		DisplayName: m.DisplayName,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339Nano),
	}
}
