package news

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yudhapratama/desaku/backend/internal/model/news"
	"github.com/yudhapratama/desaku/backend/internal/store"
)

var ErrInvalidArticle = errors.New("title and body are required")

// Service manages portal news articles.
type Service struct {
	articles store.NewsStore
}

// NewService builds the news service.
func NewService(articles store.NewsStore) *Service {
	return &Service{articles: articles}
}

// ListPublished returns the public news feed.
func (s *Service) ListPublished(ctx context.Context) ([]news.Article, error) {
	return s.articles.ListPublished(ctx)
}

// GetBySlug returns one published article. Drafts are hidden from the
// public read path.
func (s *Service) GetBySlug(ctx context.Context, slug string) (news.Article, error) {
	a, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		return news.Article{}, err
	}
	if !a.Published {
		return news.Article{}, store.ErrNotFound
	}
	return a, nil
}

// Create stores a draft article authored by the given admin.
func (s *Service) Create(ctx context.Context, authorID, title, summary, body string) (news.Article, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" || body == "" {
		return news.Article{}, ErrInvalidArticle
	}

	a := news.Article{
		ID:        uuid.NewString(),
		Slug:      slugify(title),
		Title:     title,
		Summary:   strings.TrimSpace(summary),
		Body:      body,
		AuthorID:  authorID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.articles.CreateArticle(ctx, a); err != nil {
		return news.Article{}, err
	}
	return a, nil
}

// Publish makes a draft visible on the public feed.
func (s *Service) Publish(ctx context.Context, id string) error {
	return s.articles.PublishArticle(ctx, id)
}

// slugify derives a URL slug from a title. Collisions get a short random
// suffix so publishing never blocks on a duplicate title.
func slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "berita"
	}
	return slug + "-" + uuid.NewString()[:8]
}
