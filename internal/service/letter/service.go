package letter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yudhapratama/desaku/backend/internal/mail"
	"github.com/yudhapratama/desaku/backend/internal/model/letter"
	"github.com/yudhapratama/desaku/backend/internal/store"
)

var (
	ErrUnknownKind   = errors.New("unknown letter kind")
	ErrInvalidStatus = errors.New("invalid request status")
	ErrEmptyPurpose  = errors.New("purpose is required")
)

// Service handles citizen document requests and the back-office workflow
// around them.
type Service struct {
	requests store.LetterStore
	users    store.UserStore
	mailer   mail.Mailer
	logger   *zap.Logger
}

// NewService builds the letter service.
func NewService(requests store.LetterStore, users store.UserStore, mailer mail.Mailer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{requests: requests, users: users, mailer: mailer, logger: logger}
}

// Submit creates a pending request for the signed-in citizen.
func (s *Service) Submit(ctx context.Context, userID, kind, purpose string) (letter.Request, error) {
	if !letter.KnownKind(kind) {
		return letter.Request{}, ErrUnknownKind
	}
	purpose = strings.TrimSpace(purpose)
	if purpose == "" {
		return letter.Request{}, ErrEmptyPurpose
	}

	now := time.Now().UTC()
	r := letter.Request{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Purpose:   purpose,
		Status:    letter.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.requests.CreateRequest(ctx, r); err != nil {
		return letter.Request{}, err
	}

	s.logger.Info("letter request submitted",
		zap.String("request_id", r.ID), zap.String("kind", kind))
	return r, nil
}

// ListMine returns the citizen's own requests.
func (s *Service) ListMine(ctx context.Context, userID string) ([]letter.Request, error) {
	return s.requests.ListRequestsByUser(ctx, userID)
}

// ListAll returns the back-office queue.
func (s *Service) ListAll(ctx context.Context) ([]letter.Request, error) {
	return s.requests.ListAllRequests(ctx)
}

// UpdateStatus moves a request through the workflow and notifies the
// citizen by email. Mail delivery is best effort; a failed send is logged
// and does not fail the update.
func (s *Service) UpdateStatus(ctx context.Context, id string, status letter.Status, note string) (letter.Request, error) {
	if !status.Valid() {
		return letter.Request{}, ErrInvalidStatus
	}

	if err := s.requests.UpdateRequestStatus(ctx, id, status, strings.TrimSpace(note)); err != nil {
		return letter.Request{}, err
	}
	r, err := s.requests.GetRequest(ctx, id)
	if err != nil {
		return letter.Request{}, err
	}

	s.notifyCitizen(ctx, r)
	return r, nil
}

func (s *Service) notifyCitizen(ctx context.Context, r letter.Request) {
	if s.mailer == nil {
		return
	}
	u, err := s.users.GetUserByID(ctx, r.UserID)
	if err != nil {
		s.logger.Warn("could not resolve requester for mail",
			zap.String("request_id", r.ID), zap.Error(err))
		return
	}

	subject := fmt.Sprintf("Permohonan surat %s: %s", r.Kind, r.Status)
	body := fmt.Sprintf(
		"Halo %s,\n\nStatus permohonan surat %s Anda kini: %s.\n",
		u.FullName, r.Kind, r.Status)
	if r.Note != "" {
		body += fmt.Sprintf("Catatan petugas: %s\n", r.Note)
	}
	body += "\nSalam,\nKantor Desa"

	if err := s.mailer.Send(u.Email, subject, body); err != nil {
		s.logger.Warn("failed to send status mail",
			zap.String("request_id", r.ID), zap.Error(err))
	}
}
