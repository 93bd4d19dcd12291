package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/yudhapratama/desaku/backend/internal/model/user"
	"github.com/yudhapratama/desaku/backend/internal/service/auth"
	"github.com/yudhapratama/desaku/backend/internal/store"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]user.User // keyed by id
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]user.User)}
}

func (s *fakeUserStore) CreateUser(_ context.Context, u user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
	return nil
}

func (s *fakeUserStore) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, store.ErrNotFound
}

func (s *fakeUserStore) GetUserByID(_ context.Context, id string) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return user.User{}, store.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) UpdateProfile(_ context.Context, id, fullName, phone, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.FullName, u.Phone, u.Address = fullName, phone, address
	s.users[id] = u
	return nil
}

func (s *fakeUserStore) SetRole(_ context.Context, id string, role user.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.Role = role
	s.users[id] = u
	return nil
}

func newService(users store.UserStore, opts auth.Options) *auth.Service {
	opts.Users = users
	if opts.TokenSecret == "" {
		opts.TokenSecret = "test-secret"
	}
	return auth.NewService(opts)
}

func TestRegisterAndLogin(t *testing.T) {
	users := newFakeUserStore()
	svc := newService(users, auth.Options{})
	ctx := context.Background()

	registered, err := svc.Register(ctx, "Budi@Desa.example", "rahasia-123", "Budi Santoso")
	if err != nil {
		t.Fatalf("Register err: %v", err)
	}
	if registered.Email != "budi@desa.example" {
		t.Fatalf("email not normalized: %q", registered.Email)
	}
	if registered.Role != user.RoleWarga {
		t.Fatalf("new account role = %q, want warga", registered.Role)
	}
	if registered.PasswordHash == "rahasia-123" {
		t.Fatal("password stored in plain text")
	}

	loggedIn, token, err := svc.Login(ctx, "budi@desa.example", "rahasia-123")
	if err != nil {
		t.Fatalf("Login err: %v", err)
	}
	if loggedIn.ID != registered.ID {
		t.Fatal("login returned a different account")
	}

	identity, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken err: %v", err)
	}
	if identity.UserID != registered.ID || identity.Role != user.RoleWarga {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUserStore()
	svc := newService(users, auth.Options{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, "siti@desa.example", "rahasia-123", "Siti"); err != nil {
		t.Fatalf("Register err: %v", err)
	}
	_, err := svc.Register(ctx, "siti@desa.example", "rahasia-456", "Siti Kedua")
	if !errors.Is(err, auth.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	users := newFakeUserStore()
	svc := newService(users, auth.Options{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, "siti@desa.example", "rahasia-123", "Siti"); err != nil {
		t.Fatalf("Register err: %v", err)
	}

	if _, _, err := svc.Login(ctx, "siti@desa.example", "salah"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "tidak-ada@desa.example", "apapun"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAdminAllowlistPromotion(t *testing.T) {
	users := newFakeUserStore()
	svc := newService(users, auth.Options{AdminEmails: []string{"Kades@Desa.example"}})
	ctx := context.Background()

	if _, err := svc.Register(ctx, "kades@desa.example", "rahasia-123", "Pak Kades"); err != nil {
		t.Fatalf("Register err: %v", err)
	}

	loggedIn, _, err := svc.Login(ctx, "kades@desa.example", "rahasia-123")
	if err != nil {
		t.Fatalf("Login err: %v", err)
	}
	if loggedIn.Role != user.RoleAdmin {
		t.Fatalf("allowlisted account role = %q, want admin", loggedIn.Role)
	}

	stored, err := users.GetUserByID(ctx, loggedIn.ID)
	if err != nil {
		t.Fatalf("GetUserByID err: %v", err)
	}
	if stored.Role != user.RoleAdmin {
		t.Fatal("promotion not persisted")
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc := newService(newFakeUserStore(), auth.Options{})

	if _, err := svc.VerifyToken("not-a-token"); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestLoginPublishesAuthEvent(t *testing.T) {
	users := newFakeUserStore()
	feed := auth.NewFeed()
	svc := newService(users, auth.Options{Feed: feed})
	ctx := context.Background()

	registered, err := svc.Register(ctx, "budi@desa.example", "rahasia-123", "Budi")
	if err != nil {
		t.Fatalf("Register err: %v", err)
	}

	events, unsubscribe := feed.Subscribe()
	defer unsubscribe()

	if _, _, err := svc.Login(ctx, "budi@desa.example", "rahasia-123"); err != nil {
		t.Fatalf("Login err: %v", err)
	}

	select {
	case ev := <-events:
		if ev.UserID != registered.ID || !ev.LoggedIn {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no auth event published on login")
	}
}
