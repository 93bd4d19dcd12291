package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/yudhapratama/desaku/backend/internal/model/user"
)

// PostgresUserStore implements UserStore over Postgres.
type PostgresUserStore struct {
	db *sqlx.DB
}

// NewPostgresUserStore wraps the given connection.
func NewPostgresUserStore(db *sqlx.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

// CreateUser inserts a new account row.
func (s *PostgresUserStore) CreateUser(ctx context.Context, u user.User) error {
	const query = `INSERT INTO users (id, email, password_hash, full_name, phone, address, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.ExecContext(ctx, query, u.ID, u.Email, u.PasswordHash, u.FullName, u.Phone, u.Address, u.Role, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: create user: %v", ErrUnavailable, err)
	}
	return nil
}

// GetUserByEmail looks up an account by email. Missing rows map to
// ErrNotFound.
func (s *PostgresUserStore) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	const query = `SELECT id, email, password_hash, full_name, phone, address, role, created_at
		FROM users WHERE email = $1`

	var u user.User
	err := s.db.GetContext(ctx, &u, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, ErrNotFound
	}
	if err != nil {
		return user.User{}, fmt.Errorf("%w: get user by email: %v", ErrUnavailable, err)
	}
	return u, nil
}

// GetUserByID looks up an account by id.
func (s *PostgresUserStore) GetUserByID(ctx context.Context, id string) (user.User, error) {
	const query = `SELECT id, email, password_hash, full_name, phone, address, role, created_at
		FROM users WHERE id = $1`

	var u user.User
	err := s.db.GetContext(ctx, &u, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, ErrNotFound
	}
	if err != nil {
		return user.User{}, fmt.Errorf("%w: get user by id: %v", ErrUnavailable, err)
	}
	return u, nil
}

// UpdateProfile updates the editable profile fields.
func (s *PostgresUserStore) UpdateProfile(ctx context.Context, id, fullName, phone, address string) error {
	const query = `UPDATE users SET full_name = $2, phone = $3, address = $4 WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, id, fullName, phone, address)
	if err != nil {
		return fmt.Errorf("%w: update profile: %v", ErrUnavailable, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRole changes the account role.
func (s *PostgresUserStore) SetRole(ctx context.Context, id string, role user.Role) error {
	const query = `UPDATE users SET role = $2 WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, id, role)
	if err != nil {
		return fmt.Errorf("%w: set role: %v", ErrUnavailable, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
