package prayer

import (
	"context"
	"errors"
	"time"

	"Niyyah-Backend/internal/domain"
	"Niyyah-Backend/internal/repository"

	"go.uber.org/zap"
)

// DefaultGeolocationTimeout bounds a device geolocation request.
const DefaultGeolocationTimeout = 5 * time.Second

// DefaultLocation is used when neither the device nor a saved preference
// provides coordinates.
var DefaultLocation = domain.Location{
	Coordinates: domain.Coordinates{Latitude: 21.4225, Longitude: 39.8262},
	Label:       "Mecca",
	Source:      domain.SourceDefault,
}

var ErrGeolocationUnsupported = errors.New("geolocation is not supported")

// Geolocator obtains the device position.
type Geolocator interface {
	Locate(ctx context.Context) (domain.Coordinates, error)
}

// LocationStore persists the saved location preference.
type LocationStore interface {
	GetSavedLocation(ctx context.Context) (*domain.SavedLocation, error)
	SaveLocation(ctx context.Context, loc *domain.SavedLocation) error
}

// Locator resolves coordinates: device first (bounded by a timeout), then
// the saved preference, then the default location. Resolution never fails.
type Locator struct {
	geo      Geolocator
	store    LocationStore
	fallback domain.Location
	timeout  time.Duration
	log      *zap.Logger
}

// NewLocator creates a Locator. geo and store may be nil.
func NewLocator(geo Geolocator, store LocationStore, fallback *domain.Location, timeout time.Duration, log *zap.Logger) *Locator {
	def := DefaultLocation
	if fallback != nil {
		def = *fallback
		def.Source = domain.SourceDefault
	}
	if timeout <= 0 {
		timeout = DefaultGeolocationTimeout
	}
	return &Locator{
		geo:      geo,
		store:    store,
		fallback: def,
		timeout:  timeout,
		log:      log,
	}
}

// Default returns the hardcoded fallback location.
func (l *Locator) Default() domain.Location { return l.fallback }

// Resolve returns the best available location. A device fix is saved as
// the new preference; a fix arriving after the timeout is discarded.
func (l *Locator) Resolve(ctx context.Context) domain.Location {
	if l.geo == nil {
		return l.Fallback(ctx)
	}

	geoCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	type fix struct {
		coords domain.Coordinates
		err    error
	}
	// buffered: a late sender must not block once nobody is listening
	results := make(chan fix, 1)
	go func() {
		coords, err := l.geo.Locate(geoCtx)
		results <- fix{coords: coords, err: err}
	}()

	select {
	case r := <-results:
		if r.err == nil {
			r.err = r.coords.Validate()
		}
		if r.err != nil {
			l.log.Debug("geolocation failed, using fallback", zap.Error(r.err))
			return l.Fallback(ctx)
		}
		loc := domain.Location{Coordinates: r.coords, Label: "My Location", Source: domain.SourceDevice}
		l.save(ctx, loc)
		return loc
	case <-geoCtx.Done():
		l.log.Debug("geolocation timed out, using fallback", zap.Duration("timeout", l.timeout))
		return l.Fallback(ctx)
	}
}

// Fallback returns the saved preference, or the default location.
func (l *Locator) Fallback(ctx context.Context) domain.Location {
	if l.store == nil {
		return l.fallback
	}
	saved, err := l.store.GetSavedLocation(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			l.log.Warn("failed to load saved location", zap.Error(err))
		}
		return l.fallback
	}
	loc := saved.Location()
	if err := loc.Validate(); err != nil {
		l.log.Warn("ignoring invalid saved location", zap.Error(err))
		return l.fallback
	}
	return loc
}

// Save stores loc as the preference.
func (l *Locator) Save(ctx context.Context, loc domain.Location) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	if l.store == nil {
		return nil
	}
	return l.store.SaveLocation(ctx, &domain.SavedLocation{
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Label:     loc.Label,
	})
}

func (l *Locator) save(ctx context.Context, loc domain.Location) {
	if err := l.Save(ctx, loc); err != nil {
		l.log.Warn("failed to save location preference", zap.Error(err))
	}
}
