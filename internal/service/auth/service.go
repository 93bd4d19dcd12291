package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/yudhapratama/desaku/backend/internal/model/user"
	"github.com/yudhapratama/desaku/backend/internal/store"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Options configures the auth service.
type Options struct {
	Users  store.UserStore
	Feed   *Feed
	Logger *zap.Logger

	// TokenSecret signs access tokens; TokenTTL bounds their lifetime.
	TokenSecret string
	TokenTTL    time.Duration

	// AdminEmails are promoted to the admin role when they sign in.
	AdminEmails []string
}

// Service handles accounts: registration, login, token verification and the
// profile bootstrap that runs on every successful sign-in.
type Service struct {
	users       store.UserStore
	feed        *Feed
	logger      *zap.Logger
	tokenSecret []byte
	tokenTTL    time.Duration
	adminEmails map[string]bool
}

// NewService builds the auth service.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	admins := make(map[string]bool, len(opts.AdminEmails))
	for _, email := range opts.AdminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			admins[email] = true
		}
	}

	return &Service{
		users:       opts.Users,
		feed:        opts.Feed,
		logger:      logger,
		tokenSecret: []byte(opts.TokenSecret),
		tokenTTL:    ttl,
		adminEmails: admins,
	}
}

// Register creates an account with the citizen role.
func (s *Service) Register(ctx context.Context, email, password, fullName string) (user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return user.User{}, errors.New("a valid email is required")
	}
	if len(password) < 8 {
		return user.User{}, errors.New("password must be at least 8 characters")
	}

	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return user.User{}, ErrEmailTaken
	}
	if !errors.Is(err, store.ErrNotFound) {
		return user.User{}, fmt.Errorf("check existing account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := user.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(fullName),
		Role:         user.RoleWarga,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return user.User{}, fmt.Errorf("create account: %w", err)
	}

	s.logger.Info("account registered", zap.String("user_id", u.ID))
	return u, nil
}

// Login verifies credentials, bootstraps the profile and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (user.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return user.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return user.User{}, "", fmt.Errorf("look up account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return user.User{}, "", ErrInvalidCredentials
	}

	u, err = s.bootstrapProfile(ctx, u)
	if err != nil {
		return user.User{}, "", err
	}

	token, err := s.issueToken(u)
	if err != nil {
		return user.User{}, "", err
	}

	if s.feed != nil {
		s.feed.Publish(Event{UserID: u.ID, LoggedIn: true})
	}
	s.logger.Info("user signed in", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return u, token, nil
}

// bootstrapProfile derives the role on every sign-in: accounts on the admin
// allowlist are promoted, everything else keeps the citizen role.
func (s *Service) bootstrapProfile(ctx context.Context, u user.User) (user.User, error) {
	if s.adminEmails[u.Email] && u.Role != user.RoleAdmin {
		if err := s.users.SetRole(ctx, u.ID, user.RoleAdmin); err != nil {
			return user.User{}, fmt.Errorf("promote admin: %w", err)
		}
		u.Role = user.RoleAdmin
	}
	return u, nil
}

// UpdateProfile edits the signed-in user's profile fields.
func (s *Service) UpdateProfile(ctx context.Context, id, fullName, phone, address string) error {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return errors.New("full name is required")
	}
	return s.users.UpdateProfile(ctx, id, fullName, phone, address)
}

// GetUser returns the account for the given id.
func (s *Service) GetUser(ctx context.Context, id string) (user.User, error) {
	return s.users.GetUserByID(ctx, id)
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (s *Service) issueToken(u user.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	})

	signed, err := token.SignedString(s.tokenSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Identity is the verified subject of an access token.
type Identity struct {
	UserID string
	Role   user.Role
}

// VerifyToken parses and validates an access token.
func (s *Service) VerifyToken(tokenString string) (Identity, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.tokenSecret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: c.Subject, Role: user.Role(c.Role)}, nil
}
