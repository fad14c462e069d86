package repository

import (
	"Niyyah-Backend/internal/domain"
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")
)

// SessionStore is the persistence boundary of a focus session.
type SessionStore interface {
	ListSessions(ctx context.Context) ([]*domain.Session, error)
	CreateSession(ctx context.Context, input domain.NewSession) (*domain.Session, error)
}

type Storage interface {
	SessionStore

	// Saved prayer location
	GetSavedLocation(ctx context.Context) (*domain.SavedLocation, error)
	SaveLocation(ctx context.Context, loc *domain.SavedLocation) error

	// Ping reports whether the backend is reachable
	Ping(ctx context.Context) error
}
