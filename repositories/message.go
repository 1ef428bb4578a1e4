package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/Alex7k/websocket-chat/domain"
	apperrors "github.com/Alex7k/websocket-chat/errors"
)

const (
	messagePrefix = "msg:"

	// History reads are clamped to this many rows regardless of the
	// requested limit.
	MaxHistoryLimit = 200
)

type IMessageRepository interface {
	StoreMessage(message domain.Message) (domain.Message, error)
	RecentMessages(limit int) ([]domain.Message, error)
	Ping() error
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// diskMessage is the stored record. Kept separate from domain.Message so the
// on-disk encoding does not leak into the domain type.
type diskMessage struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
}

// StoreMessage persists a message, assigning the id and server timestamp
// when they are unset. The key is "msg:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order).
//  2. Prevent data loss by using the UUID as a collision disconnector if two
//     messages arrive at the same nanosecond.
//
// A failed transaction leaves no partial row behind: the message is either
// fully durable or not created at all.
func (m MessageRepository) StoreMessage(message domain.Message) (domain.Message, error) {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	key := fmt.Sprintf("%s%019d:%s", messagePrefix, message.CreatedAt.UnixNano(), message.ID)
	bytes, err := json.Marshal(fromDomain(message))
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: encoding: %v", apperrors.ErrStoreFailure, err)
	}

	err = m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
	if err != nil {
		m.log.Error("message append failed", "key", key, "error", err)
		return domain.Message{}, fmt.Errorf("%w: %v", apperrors.ErrStoreFailure, err)
	}
	return message, nil
}

// RecentMessages returns the most recent messages in chronological ascending
// order. Thanks to the padded timestamp in the key, a reverse prefix scan
// visits messages newest first; the collected slice is flipped before
// returning so readers render oldest to newest.
func (m MessageRepository) RecentMessages(limit int) ([]domain.Message, error) {
	limit = clampLimit(limit)

	var records []diskMessage
	err := m.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		prefix := []byte(messagePrefix)
		// Seek past every possible key under the prefix, then walk backwards.
		seekKey := append(append([]byte{}, prefix...), 0xFF)
		for it.Seek(seekKey); it.ValidForPrefix(prefix) && len(records) < limit; it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var record diskMessage
				if err := json.Unmarshal(val, &record); err != nil {
					return err
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		m.log.Error("history read failed", "error", err)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreFailure, err)
	}

	messages := make([]domain.Message, len(records))
	for i, record := range records {
		// Reverse in place: records are newest first.
		messages[len(records)-1-i] = toDomain(record)
	}
	return messages, nil
}

// Ping verifies the store is reachable by opening a read transaction.
func (m MessageRepository) Ping() error {
	return m.db.View(func(txn *badger.Txn) error { return nil })
}

func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return limit
}

func fromDomain(m domain.Message) diskMessage {
	return diskMessage{
		ID:          m.ID,
		Username:    m.Username,
		DisplayName: m.DisplayName,
		Text:        m.Text,
		CreatedAt:   m.CreatedAt,
	}
}

func toDomain(d diskMessage) domain.Message {
	return domain.Message{
		ID:          d.ID,
		Username:    d.Username,
		DisplayName: d.DisplayName,
		Text:        d.Text,
		CreatedAt:   d.CreatedAt,
	}
}
