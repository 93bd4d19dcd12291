package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/yudhapratama/desaku/backend/internal/model/letter"
)

// PostgresLetterStore implements LetterStore over Postgres.
type PostgresLetterStore struct {
	db *sqlx.DB
}

// NewPostgresLetterStore wraps the given connection.
func NewPostgresLetterStore(db *sqlx.DB) *PostgresLetterStore {
	return &PostgresLetterStore{db: db}
}

// CreateRequest inserts a new document request.
func (s *PostgresLetterStore) CreateRequest(ctx context.Context, r letter.Request) error {
	const query = `INSERT INTO letter_requests (id, user_id, kind, purpose, status, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.ExecContext(ctx, query, r.ID, r.UserID, r.Kind, r.Purpose, r.Status, r.Note, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: create letter request: %v", ErrUnavailable, err)
	}
	return nil
}

// ListRequestsByUser returns a citizen's own requests, newest first.
func (s *PostgresLetterStore) ListRequestsByUser(ctx context.Context, userID string) ([]letter.Request, error) {
	const query = `SELECT id, user_id, kind, purpose, status, note, created_at, updated_at
		FROM letter_requests WHERE user_id = $1 ORDER BY created_at DESC`

	requests := []letter.Request{}
	if err := s.db.SelectContext(ctx, &requests, query, userID); err != nil {
		return nil, fmt.Errorf("%w: list letter requests: %v", ErrUnavailable, err)
	}
	return requests, nil
}

// ListAllRequests returns every request for the back-office queue.
func (s *PostgresLetterStore) ListAllRequests(ctx context.Context) ([]letter.Request, error) {
	const query = `SELECT id, user_id, kind, purpose, status, note, created_at, updated_at
		FROM letter_requests ORDER BY created_at DESC`

	requests := []letter.Request{}
	if err := s.db.SelectContext(ctx, &requests, query); err != nil {
		return nil, fmt.Errorf("%w: list all letter requests: %v", ErrUnavailable, err)
	}
	return requests, nil
}

// GetRequest returns one request by id.
func (s *PostgresLetterStore) GetRequest(ctx context.Context, id string) (letter.Request, error) {
	const query = `SELECT id, user_id, kind, purpose, status, note, created_at, updated_at
		FROM letter_requests WHERE id = $1`

	var r letter.Request
	err := s.db.GetContext(ctx, &r, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return letter.Request{}, ErrNotFound
	}
	if err != nil {
		return letter.Request{}, fmt.Errorf("%w: get letter request: %v", ErrUnavailable, err)
	}
	return r, nil
}

// UpdateRequestStatus moves a request through the workflow.
func (s *PostgresLetterStore) UpdateRequestStatus(ctx context.Context, id string, status letter.Status, note string) error {
	const query = `UPDATE letter_requests SET status = $2, note = $3, updated_at = now() WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, id, status, note)
	if err != nil {
		return fmt.Errorf("%w: update letter request: %v", ErrUnavailable, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
