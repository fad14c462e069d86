package service

import (
	"Niyyah-Backend/internal/domain"
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
)

// MockSessionStore is a mock implementation of repository.SessionStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) ListSessions(ctx context.Context) ([]*domain.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Session), args.Error(1)
}

func (m *MockSessionStore) CreateSession(ctx context.Context, input domain.NewSession) (*domain.Session, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

// blockingStore holds every CreateSession until release is closed.
type blockingStore struct {
	entered chan struct{}
	release chan struct{}

	mu    sync.Mutex
	calls int
}

func newBlockingStore() *blockingStore {
	return &blockingStore{entered: make(chan struct{}, 8), release: make(chan struct{})}
}

func (s *blockingStore) ListSessions(context.Context) ([]*domain.Session, error) {
	return nil, nil
}

func (s *blockingStore) CreateSession(_ context.Context, input domain.NewSession) (*domain.Session, error) {
	s.mu.Lock()
	s.calls++
	id := int64(s.calls)
	s.mu.Unlock()

	s.entered <- struct{}{}
	<-s.release
	session := input.ToSession()
	session.ID = id
	return session, nil
}

func (s *blockingStore) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
