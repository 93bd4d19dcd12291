package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/yudhapratama/desaku/backend/internal/model/activity"
)

// PostgresActivityStore implements ActivityStore over Postgres.
type PostgresActivityStore struct {
	db *sqlx.DB
}

// NewPostgresActivityStore wraps the given connection.
func NewPostgresActivityStore(db *sqlx.DB) *PostgresActivityStore {
	return &PostgresActivityStore{db: db}
}

// ListUpcoming returns activities that have not started yet, soonest first.
func (s *PostgresActivityStore) ListUpcoming(ctx context.Context) ([]activity.Activity, error) {
	const query = `SELECT id, title, description, location, starts_at, created_at
		FROM activities WHERE starts_at >= now() ORDER BY starts_at ASC`

	activities := []activity.Activity{}
	if err := s.db.SelectContext(ctx, &activities, query); err != nil {
		return nil, fmt.Errorf("%w: list upcoming activities: %v", ErrUnavailable, err)
	}
	return activities, nil
}

// CreateActivity inserts an agenda entry.
func (s *PostgresActivityStore) CreateActivity(ctx context.Context, a activity.Activity) error {
	const query = `INSERT INTO activities (id, title, description, location, starts_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query, a.ID, a.Title, a.Description, a.Location, a.StartsAt, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: create activity: %v", ErrUnavailable, err)
	}
	return nil
}
