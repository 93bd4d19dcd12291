package news

import "time"

// Article is a public news entry on the portal front page.
type Article struct {
	ID          string     `json:"id" db:"id"`
	Slug        string     `json:"slug" db:"slug"`
	Title       string     `json:"title" db:"title"`
	Summary     string     `json:"summary" db:"summary"`
	Body        string     `json:"body" db:"body"`
	AuthorID    string     `json:"authorId" db:"author_id"`
	Published   bool       `json:"published" db:"published"`
	PublishedAt *time.Time `json:"publishedAt,omitempty" db:"published_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
}
