package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/yudhapratama/desaku/backend/internal/model/news"
)

// PostgresNewsStore implements NewsStore over Postgres.
type PostgresNewsStore struct {
	db *sqlx.DB
}

// NewPostgresNewsStore wraps the given connection.
func NewPostgresNewsStore(db *sqlx.DB) *PostgresNewsStore {
	return &PostgresNewsStore{db: db}
}

// ListPublished returns published articles, newest first.
func (s *PostgresNewsStore) ListPublished(ctx context.Context) ([]news.Article, error) {
	const query = `SELECT id, slug, title, summary, body, author_id, published, published_at, created_at
		FROM articles WHERE published = true ORDER BY published_at DESC`

	articles := []news.Article{}
	if err := s.db.SelectContext(ctx, &articles, query); err != nil {
		return nil, fmt.Errorf("%w: list published articles: %v", ErrUnavailable, err)
	}
	return articles, nil
}

// GetBySlug returns one article by its URL slug.
func (s *PostgresNewsStore) GetBySlug(ctx context.Context, slug string) (news.Article, error) {
	const query = `SELECT id, slug, title, summary, body, author_id, published, published_at, created_at
		FROM articles WHERE slug = $1`

	var a news.Article
	err := s.db.GetContext(ctx, &a, query, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return news.Article{}, ErrNotFound
	}
	if err != nil {
		return news.Article{}, fmt.Errorf("%w: get article: %v", ErrUnavailable, err)
	}
	return a, nil
}

// CreateArticle inserts a draft article.
func (s *PostgresNewsStore) CreateArticle(ctx context.Context, a news.Article) error {
	const query = `INSERT INTO articles (id, slug, title, summary, body, author_id, published, published_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.db.ExecContext(ctx, query, a.ID, a.Slug, a.Title, a.Summary, a.Body, a.AuthorID, a.Published, a.PublishedAt, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: create article: %v", ErrUnavailable, err)
	}
	return nil
}

// PublishArticle flips an article to published and stamps the publish time.
func (s *PostgresNewsStore) PublishArticle(ctx context.Context, id string) error {
	const query = `UPDATE articles SET published = true, published_at = now() WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%w: publish article: %v", ErrUnavailable, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
