package store

import (
	"context"
	"errors"

	"github.com/yudhapratama/desaku/backend/internal/model/activity"
	"github.com/yudhapratama/desaku/backend/internal/model/chat"
	"github.com/yudhapratama/desaku/backend/internal/model/letter"
	"github.com/yudhapratama/desaku/backend/internal/model/news"
	"github.com/yudhapratama/desaku/backend/internal/model/user"
)

// ErrUnavailable covers any failure reaching or reading from the backing
// store. Callers treat it as transient and recover locally.
var ErrUnavailable = errors.New("store unavailable")

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// MessageStore is the append-only persistence boundary for chat messages.
// Messages are immutable; there is no update or delete.
type MessageStore interface {
	// ListMessages returns the conversation ordered by creation time,
	// ascending.
	ListMessages(ctx context.Context, conversationID string) ([]chat.Message, error)
	// Append inserts a message and returns it with the store-assigned id
	// and creation timestamp.
	Append(ctx context.Context, conversationID, text string, sender chat.SenderKind) (chat.Message, error)
	// CountMessages counts rows in the conversation, scanning at most
	// limit rows. Callers use limit=1 as an emptiness probe.
	CountMessages(ctx context.Context, conversationID string, limit int) (int, error)
}

// UserStore persists portal accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u user.User) error
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	GetUserByID(ctx context.Context, id string) (user.User, error)
	UpdateProfile(ctx context.Context, id, fullName, phone, address string) error
	SetRole(ctx context.Context, id string, role user.Role) error
}

// NewsStore persists portal articles.
type NewsStore interface {
	ListPublished(ctx context.Context) ([]news.Article, error)
	GetBySlug(ctx context.Context, slug string) (news.Article, error)
	CreateArticle(ctx context.Context, a news.Article) error
	PublishArticle(ctx context.Context, id string) error
}

// ActivityStore persists the village agenda.
type ActivityStore interface {
	ListUpcoming(ctx context.Context) ([]activity.Activity, error)
	CreateActivity(ctx context.Context, a activity.Activity) error
}

// LetterStore persists citizen document requests.
type LetterStore interface {
	CreateRequest(ctx context.Context, r letter.Request) error
	ListRequestsByUser(ctx context.Context, userID string) ([]letter.Request, error)
	ListAllRequests(ctx context.Context) ([]letter.Request, error)
	GetRequest(ctx context.Context, id string) (letter.Request, error)
	UpdateRequestStatus(ctx context.Context, id string, status letter.Status, note string) error
}
