package memory

import (
	"Niyyah-Backend/internal/domain"
	"Niyyah-Backend/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStorage_CreateAssignsMonotonicIDs(t *testing.T) {
	s := New()
	ctx := context.Background()
	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	first, err := s.CreateSession(ctx, domain.NewSession{StartTime: start, DurationSeconds: 60, Date: "2026-10-19"})
	require.NoError(t, err)
	second, err := s.CreateSession(ctx, domain.NewSession{StartTime: start.Add(time.Hour), DurationSeconds: 120, Date: "2026-10-19"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.False(t, first.CreatedAt.IsZero())

	sessions, err := s.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, int64(120), sessions[1].DurationSeconds)
}

func TestMemStorage_ListReturnsCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, err := s.CreateSession(ctx, domain.NewSession{StartTime: time.Now(), DurationSeconds: 60, Date: "2026-10-19"})
	require.NoError(t, err)

	sessions, err := s.ListSessions(ctx)
	require.NoError(t, err)
	sessions[0].DurationSeconds = 0

	again, err := s.ListSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(60), again[0].DurationSeconds)
}

func TestMemStorage_SavedLocation(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.GetSavedLocation(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, s.SaveLocation(ctx, &domain.SavedLocation{Latitude: 51.5, Longitude: -0.12, Label: "London"}))
	require.NoError(t, s.SaveLocation(ctx, &domain.SavedLocation{Latitude: 40.7, Longitude: -74, Label: "New York"}))

	loc, err := s.GetSavedLocation(ctx)
	require.NoError(t, err)
	assert.Equal(t, "New York", loc.Label)
	assert.Equal(t, int64(1), loc.ID)
}
