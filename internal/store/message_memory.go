package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yudhapratama/desaku/backend/internal/model/chat"
)

// MemoryMessageStore implements MessageStore with in-memory slices. It backs
// tests and local development without a database.
type MemoryMessageStore struct {
	mu            sync.RWMutex
	conversations map[string][]chat.Message
}

// NewMemoryMessageStore returns an empty in-memory store.
func NewMemoryMessageStore() *MemoryMessageStore {
	return &MemoryMessageStore{
		conversations: make(map[string][]chat.Message),
	}
}

// ListMessages returns a copy of the conversation in insertion order.
func (s *MemoryMessageStore) ListMessages(_ context.Context, conversationID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := s.conversations[conversationID]
	copied := make([]chat.Message, len(messages))
	copy(copied, messages)
	return copied, nil
}

// Append stores the message with a fresh id and the current time.
func (s *MemoryMessageStore) Append(_ context.Context, conversationID, text string, sender chat.SenderKind) (chat.Message, error) {
	msg := chat.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Text:           text,
		Sender:         sender,
		CreatedAt:      time.Now().UTC(),
	}

	s.mu.Lock()
	s.conversations[conversationID] = append(s.conversations[conversationID], msg)
	s.mu.Unlock()

	return msg, nil
}

// CountMessages counts stored rows up to limit.
func (s *MemoryMessageStore) CountMessages(_ context.Context, conversationID string, limit int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := len(s.conversations[conversationID])
	if limit > 0 && count > limit {
		count = limit
	}
	return count, nil
}
