package prayer

import (
	"context"
	"errors"
	"testing"
	"time"

	"Niyyah-Backend/internal/domain"
	"Niyyah-Backend/internal/repository"
	"Niyyah-Backend/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// blockingGeolocator answers only after release is closed, ignoring ctx.
type blockingGeolocator struct {
	release chan struct{}
	coords  domain.Coordinates
}

func (g *blockingGeolocator) Locate(context.Context) (domain.Coordinates, error) {
	<-g.release
	return g.coords, nil
}

type failingStore struct{}

func (failingStore) GetSavedLocation(context.Context) (*domain.SavedLocation, error) {
	return nil, errors.New("disk on fire")
}

func (failingStore) SaveLocation(context.Context, *domain.SavedLocation) error {
	return errors.New("disk on fire")
}

func TestLocator_DeviceFixIsSaved(t *testing.T) {
	store := memory.New()
	locator := NewLocator(StaticGeolocator(london), store, nil, time.Second, zap.NewNop())

	loc := locator.Resolve(context.Background())
	assert.Equal(t, domain.SourceDevice, loc.Source)
	assert.Equal(t, london, loc.Coordinates)

	saved, err := store.GetSavedLocation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, london.Latitude, saved.Latitude)
	assert.Equal(t, "My Location", saved.Label)
}

func TestLocator_DeniedFallsBackToSaved(t *testing.T) {
	store := memory.New()
	require.NoError(t, store.SaveLocation(context.Background(), &domain.SavedLocation{Latitude: 40.7, Longitude: -74, Label: "New York"}))
	locator := NewLocator(UnsupportedGeolocator{}, store, nil, time.Second, zap.NewNop())

	loc := locator.Resolve(context.Background())
	assert.Equal(t, domain.SourceSaved, loc.Source)
	assert.Equal(t, "New York", loc.Label)
}

func TestLocator_DeniedWithoutSavedUsesDefault(t *testing.T) {
	locator := NewLocator(UnsupportedGeolocator{}, memory.New(), nil, time.Second, zap.NewNop())

	loc := locator.Resolve(context.Background())
	assert.Equal(t, DefaultLocation, loc)
}

func TestLocator_CustomDefault(t *testing.T) {
	fallback := &domain.Location{Coordinates: london, Label: "London", Source: domain.SourceSaved}
	locator := NewLocator(nil, nil, fallback, 0, zap.NewNop())

	loc := locator.Resolve(context.Background())
	assert.Equal(t, "London", loc.Label)
	assert.Equal(t, domain.SourceDefault, loc.Source)
}

func TestLocator_TimeoutDiscardsLateFix(t *testing.T) {
	store := memory.New()
	geo := &blockingGeolocator{release: make(chan struct{}), coords: london}
	locator := NewLocator(geo, store, nil, 20*time.Millisecond, zap.NewNop())

	loc := locator.Resolve(context.Background())
	assert.Equal(t, DefaultLocation, loc)

	close(geo.release)
	assert.Never(t, func() bool {
		_, err := store.GetSavedLocation(context.Background())
		return err == nil
	}, 100*time.Millisecond, 10*time.Millisecond)
}

func TestLocator_InvalidDeviceFixIsIgnored(t *testing.T) {
	store := memory.New()
	locator := NewLocator(StaticGeolocator{Latitude: 120}, store, nil, time.Second, zap.NewNop())

	loc := locator.Resolve(context.Background())
	assert.Equal(t, domain.SourceDefault, loc.Source)

	_, err := store.GetSavedLocation(context.Background())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLocator_StoreErrorUsesDefault(t *testing.T) {
	locator := NewLocator(UnsupportedGeolocator{}, failingStore{}, nil, time.Second, zap.NewNop())

	assert.Equal(t, DefaultLocation, locator.Resolve(context.Background()))
}

func TestLocator_SaveRejectsInvalid(t *testing.T) {
	locator := NewLocator(nil, memory.New(), nil, time.Second, zap.NewNop())

	err := locator.Save(context.Background(), domain.Location{Coordinates: domain.Coordinates{Latitude: 0, Longitude: 200}})
	assert.ErrorIs(t, err, domain.ErrInvalidCoordinates)
}
