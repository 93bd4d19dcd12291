package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yudhapratama/desaku/backend/internal/model/chat"
)

// PostgresMessageStore implements MessageStore over Postgres. Timestamps are
// assigned by the database so that insertion order within a conversation is
// the single source of truth for display order.
type PostgresMessageStore struct {
	db *sqlx.DB
}

// NewPostgresMessageStore wraps the given connection.
func NewPostgresMessageStore(db *sqlx.DB) *PostgresMessageStore {
	return &PostgresMessageStore{db: db}
}

// ListMessages returns the full conversation, oldest first. The id tiebreak
// keeps the order stable when two rows share a timestamp.
func (s *PostgresMessageStore) ListMessages(ctx context.Context, conversationID string) ([]chat.Message, error) {
	const query = `SELECT id, conversation_id, text, sender, created_at
		FROM chat_messages WHERE conversation_id = $1
		ORDER BY created_at ASC, id ASC`

	messages := []chat.Message{}
	if err := s.db.SelectContext(ctx, &messages, query, conversationID); err != nil {
		return nil, fmt.Errorf("%w: list messages: %v", ErrUnavailable, err)
	}
	return messages, nil
}

// Append inserts a single message. There is deliberately no transaction
// around the caller's "check empty, then insert welcome" sequence; two
// concurrent session bootstraps can both see an empty conversation and each
// insert a welcome message. Accepted behavior, pending a product decision.
func (s *PostgresMessageStore) Append(ctx context.Context, conversationID, text string, sender chat.SenderKind) (chat.Message, error) {
	const query = `INSERT INTO chat_messages (id, conversation_id, text, sender, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING id, conversation_id, text, sender, created_at`

	var msg chat.Message
	err := s.db.GetContext(ctx, &msg, query, uuid.NewString(), conversationID, text, sender)
	if err != nil {
		return chat.Message{}, fmt.Errorf("%w: append message: %v", ErrUnavailable, err)
	}
	return msg, nil
}

// CountMessages counts conversation rows, scanning at most limit rows.
func (s *PostgresMessageStore) CountMessages(ctx context.Context, conversationID string, limit int) (int, error) {
	const query = `SELECT count(*) FROM (
		SELECT 1 FROM chat_messages WHERE conversation_id = $1 LIMIT $2
	) AS probe`

	var count int
	err := s.db.GetContext(ctx, &count, query, conversationID, limit)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: count messages: %v", ErrUnavailable, err)
	}
	return count, nil
}
