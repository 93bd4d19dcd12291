package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/yudhapratama/desaku/backend/internal/middleware"
	model "github.com/yudhapratama/desaku/backend/internal/model/chat"
	"github.com/yudhapratama/desaku/backend/internal/model/user"
	authservice "github.com/yudhapratama/desaku/backend/internal/service/auth"
	"github.com/yudhapratama/desaku/backend/internal/service/responder"
	"github.com/yudhapratama/desaku/backend/internal/store"
)

type singleUserStore struct {
	mu sync.Mutex
	u  user.User
}

func (s *singleUserStore) CreateUser(_ context.Context, u user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.u = u
	return nil
}

func (s *singleUserStore) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.u.Email != email {
		return user.User{}, store.ErrNotFound
	}
	return s.u, nil
}

func (s *singleUserStore) GetUserByID(_ context.Context, id string) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.u.ID != id {
		return user.User{}, store.ErrNotFound
	}
	return s.u, nil
}

func (s *singleUserStore) UpdateProfile(context.Context, string, string, string, string) error {
	return nil
}

func (s *singleUserStore) SetRole(_ context.Context, _ string, role user.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.u.Role = role
	return nil
}

func setupHistoryRouter(t *testing.T) (*chi.Mux, store.MessageStore, string, string) {
	t.Helper()

	authSvc := authservice.NewService(authservice.Options{
		Users:       &singleUserStore{},
		TokenSecret: "test-secret",
	})

	registered, err := authSvc.Register(context.Background(), "budi@desa.example", "rahasia-123", "Budi")
	if err != nil {
		t.Fatalf("Register err: %v", err)
	}
	_, token, err := authSvc.Login(context.Background(), "budi@desa.example", "rahasia-123")
	if err != nil {
		t.Fatalf("Login err: %v", err)
	}

	messages := store.NewMemoryMessageStore()
	handler := New(messages, responder.New(), authSvc, nil, nil, Config{})

	r := chi.NewRouter()
	r.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth(authSvc))
		handler.RegisterProtectedRoutes(protected)
	})
	return r, messages, registered.ID, token
}

func TestHistoryRequiresAuth(t *testing.T) {
	r, _, _, _ := setupHistoryRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/chat/history", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestHistoryReturnsOwnConversation(t *testing.T) {
	r, messages, userID, token := setupHistoryRouter(t)

	if _, err := messages.Append(context.Background(), userID, "halo", model.SenderUser); err != nil {
		t.Fatalf("Append err: %v", err)
	}
	// Another citizen's conversation must not bleed in.
	if _, err := messages.Append(context.Background(), uuid.NewString(), "rahasia orang lain", model.SenderUser); err != nil {
		t.Fatalf("Append err: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/chat/history", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", resp.Code, resp.Body.String())
	}

	var got []model.Message
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 message, got %d", len(got))
	}
	if got[0].ConversationID != userID || got[0].Text != "halo" {
		t.Fatalf("unexpected message: %+v", got[0])
	}
}
