package prayer

import (
	"context"
	"sync"
	"time"

	"Niyyah-Backend/internal/domain"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// DefaultRefreshInterval is how often a watched view recomputes prayer info.
// It is deliberately independent of the cache duration.
const DefaultRefreshInterval = time.Minute

// Snapshot is the state a prayer view renders.
type Snapshot struct {
	Location domain.Location
	Info     *domain.PrayerInfo
	Err      error
}

// Tracker keeps the prayer state of one view: its location, the last good
// PrayerInfo and the last calculation error.
type Tracker struct {
	engine  *Engine
	locator *Locator
	clock   clockwork.Clock
	log     *zap.Logger

	mu       sync.Mutex
	location *domain.Location
	info     *domain.PrayerInfo
	err      error
}

func NewTracker(engine *Engine, locator *Locator, clock clockwork.Clock, log *zap.Logger) *Tracker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Tracker{
		engine:  engine,
		locator: locator,
		clock:   clock,
		log:     log,
	}
}

// Locate resolves the location through the Locator and adopts it.
func (t *Tracker) Locate(ctx context.Context) domain.Location {
	loc := t.locator.Resolve(ctx)
	t.SetLocation(loc)
	return loc
}

// SetLocation replaces the tracked location.
func (t *Tracker) SetLocation(loc domain.Location) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.location = &loc
}

// Refresh recomputes prayer info for the tracked location, resolving the
// location first when none is set. On failure the error is kept for
// display, the last good info is retained, and when there is none yet the
// default location is used instead.
func (t *Tracker) Refresh(ctx context.Context) Snapshot {
	t.mu.Lock()
	loc := t.location
	t.mu.Unlock()

	if loc == nil {
		resolved := t.Locate(ctx)
		loc = &resolved
	}

	info, err := t.engine.Info(loc.Coordinates)

	t.mu.Lock()
	defer t.mu.Unlock()

	if err == nil {
		t.info = &info
		t.err = nil
		return t.snapshotLocked()
	}

	t.log.Warn("failed to compute prayer info",
		zap.Float64("latitude", loc.Latitude),
		zap.Float64("longitude", loc.Longitude),
		zap.Error(err))
	t.err = err

	if t.info == nil {
		fallback := t.locator.Default()
		if fbInfo, fbErr := t.engine.Info(fallback.Coordinates); fbErr == nil {
			t.info = &fbInfo
			t.location = &fallback
		} else {
			t.log.Error("failed to compute prayer info for default location", zap.Error(fbErr))
		}
	}
	return t.snapshotLocked()
}

// Retry clears the recorded error and recomputes.
func (t *Tracker) Retry(ctx context.Context) Snapshot {
	t.mu.Lock()
	t.err = nil
	t.mu.Unlock()
	return t.Refresh(ctx)
}

// Snapshot returns the current state without recomputing.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Watch refreshes immediately and then every interval, calling fn with
// each result, until ctx is done. The ticker is released on return.
func (t *Tracker) Watch(ctx context.Context, interval time.Duration, fn func(Snapshot)) {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	ticker := t.clock.NewTicker(interval)
	defer ticker.Stop()

	fn(t.Refresh(ctx))
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			fn(t.Refresh(ctx))
		}
	}
}

func (t *Tracker) snapshotLocked() Snapshot {
	s := Snapshot{Err: t.err}
	if t.location != nil {
		s.Location = *t.location
	}
	if t.info != nil {
		info := *t.info
		s.Info = &info
	}
	return s
}
