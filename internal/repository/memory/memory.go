package memory

import (
	"Niyyah-Backend/internal/domain"
	"Niyyah-Backend/internal/repository"
	"context"
	"sync"
	"time"
)

type MemStorage struct {
	mu       sync.RWMutex
	sessions []*domain.Session
	counter  int64
	location *domain.SavedLocation
	now      func() time.Time
}

func New() *MemStorage {
	return &MemStorage{now: time.Now}
}

// --- Session Methods ---

func (s *MemStorage) ListSessions(_ context.Context) ([]*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	// копии, чтобы вызывающий код не менял хранилище
	out := make([]*domain.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		c := *session
		out = append(out, &c)
	}
	return out, nil
}

func (s *MemStorage) CreateSession(_ context.Context, input domain.NewSession) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counter++
	session := input.ToSession()
	session.ID = s.counter
	now := s.now()
	session.CreatedAt = now
	session.UpdatedAt = now
	s.sessions = append(s.sessions, session)

	c := *session
	return &c, nil
}

// --- Location Methods ---

func (s *MemStorage) GetSavedLocation(_ context.Context) (*domain.SavedLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.location == nil {
		return nil, repository.ErrNotFound
	}
	c := *s.location
	return &c, nil
}

func (s *MemStorage) SaveLocation(_ context.Context, loc *domain.SavedLocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *loc
	c.ID = 1
	c.UpdatedAt = s.now()
	s.location = &c
	return nil
}

func (s *MemStorage) Ping(_ context.Context) error {
	return nil
}
