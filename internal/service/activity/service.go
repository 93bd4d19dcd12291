package activity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yudhapratama/desaku/backend/internal/model/activity"
	"github.com/yudhapratama/desaku/backend/internal/store"
)

var ErrInvalidActivity = errors.New("title and start time are required")

// Service manages the village agenda.
type Service struct {
	activities store.ActivityStore
}

// NewService builds the activity service.
func NewService(activities store.ActivityStore) *Service {
	return &Service{activities: activities}
}

// ListUpcoming returns the public agenda.
func (s *Service) ListUpcoming(ctx context.Context) ([]activity.Activity, error) {
	return s.activities.ListUpcoming(ctx)
}

// Create adds an agenda entry.
func (s *Service) Create(ctx context.Context, title, description, location string, startsAt time.Time) (activity.Activity, error) {
	title = strings.TrimSpace(title)
	if title == "" || startsAt.IsZero() {
		return activity.Activity{}, ErrInvalidActivity
	}

	a := activity.Activity{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(description),
		Location:    strings.TrimSpace(location),
		StartsAt:    startsAt,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.activities.CreateActivity(ctx, a); err != nil {
		return activity.Activity{}, err
	}
	return a, nil
}
