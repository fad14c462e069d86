package service

import (
	"Niyyah-Backend/internal/domain"
	"Niyyah-Backend/internal/metrics"
	"Niyyah-Backend/internal/repository"
	"context"
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	maxNiyyahLength = 120
	maxDeviceLength = 100
)

// ValidationError describes a rejected session field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// SessionService validates and stores completed sessions.
type SessionService struct {
	storage repository.SessionStore
	log     *zap.Logger
}

func NewSessionService(storage repository.SessionStore, log *zap.Logger) *SessionService {
	return &SessionService{
		storage: storage,
		log:     log,
	}
}

// List returns all sessions ordered by start time.
func (s *SessionService) List(ctx context.Context) ([]*domain.Session, error) {
	sessions, err := s.storage.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartTime.Before(sessions[j].StartTime)
	})
	return sessions, nil
}

// Daily returns per-day summaries, newest day first.
func (s *SessionService) Daily(ctx context.Context) ([]*domain.DaySummary, error) {
	sessions, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.GroupByDate(sessions), nil
}

// Create validates input and persists it. A *ValidationError means nothing
// was stored.
func (s *SessionService) Create(ctx context.Context, input domain.NewSession) (*domain.Session, error) {
	normalized, err := Validate(input)
	if err != nil {
		metrics.SessionValidationFailuresTotal.Inc()
		return nil, err
	}

	session, err := s.storage.CreateSession(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	metrics.SessionsCreatedTotal.Inc()
	metrics.FocusSecondsTotal.Add(float64(session.DurationSeconds))
	return session, nil
}

// Validate checks a create request and fills the date from the start time
// when it is missing.
func Validate(input domain.NewSession) (domain.NewSession, error) {
	if input.StartTime.IsZero() {
		return input, invalid("startTime", "is required")
	}
	if input.DurationSeconds <= 0 {
		return input, invalid("durationSeconds", "must be a positive number of seconds")
	}
	if input.EndTime != nil {
		if input.EndTime.Before(input.StartTime) {
			return input, invalid("endTime", "must not precede startTime")
		}
		// активное время не может превышать интервал между началом и концом
		if wall := int64(input.EndTime.Sub(input.StartTime) / time.Second); input.DurationSeconds > wall {
			return input, invalid("durationSeconds", fmt.Sprintf("must not exceed the %d seconds between startTime and endTime", wall))
		}
	}
	if input.Date == "" {
		input.Date = domain.DateOf(input.StartTime)
	} else if _, err := time.Parse(domain.DateLayout, input.Date); err != nil {
		return input, invalid("date", "must be formatted as YYYY-MM-DD")
	}
	if input.Niyyah != nil && utf8.RuneCountInString(*input.Niyyah) > maxNiyyahLength {
		return input, invalid("niyyah", fmt.Sprintf("must be at most %d characters", maxNiyyahLength))
	}
	if input.Device != nil && utf8.RuneCountInString(*input.Device) > maxDeviceLength {
		return input, invalid("device", fmt.Sprintf("must be at most %d characters", maxDeviceLength))
	}
	return input, nil
}
