package prayer

import (
	"context"
	"sync"
	"testing"
	"time"

	"Niyyah-Backend/internal/domain"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestTracker(at time.Time, geo Geolocator) (*Tracker, *stubCalculator, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClockAt(at)
	calc := &stubCalculator{}
	engine := NewEngine(calc, NewCache(clock, DefaultCacheDuration, 0), clock, EngineConfig{Location: time.UTC}, zap.NewNop())
	locator := NewLocator(geo, nil, nil, time.Second, zap.NewNop())
	return NewTracker(engine, locator, clock, zap.NewNop()), calc, clock
}

func TestTracker_RefreshResolvesLocation(t *testing.T) {
	tracker, _, _ := newTestTracker(day(12, 10), StaticGeolocator(london))

	snap := tracker.Refresh(context.Background())
	require.NoError(t, snap.Err)
	require.NotNil(t, snap.Info)
	assert.Equal(t, domain.SourceDevice, snap.Location.Source)
	assert.Equal(t, "Dhuhr", snap.Info.Name)
	assert.True(t, snap.Info.IsPrayerTimeNow)
}

func TestTracker_ErrorKeepsLastInfo(t *testing.T) {
	tracker, calc, clock := newTestTracker(day(12, 10), nil)
	tracker.SetLocation(domain.Location{Coordinates: london, Label: "London", Source: domain.SourceSaved})

	good := tracker.Refresh(context.Background())
	require.NotNil(t, good.Info)

	calc.FailWhen(func(domain.Coordinates) bool { return true })
	clock.Advance(10 * time.Minute)

	snap := tracker.Refresh(context.Background())
	assert.ErrorIs(t, snap.Err, errPolar)
	require.NotNil(t, snap.Info)
	assert.Equal(t, *good.Info, *snap.Info)
	assert.Equal(t, "London", snap.Location.Label)

	calc.FailWhen(nil)
	retried := tracker.Retry(context.Background())
	assert.NoError(t, retried.Err)
	assert.Equal(t, day(12, 20), retried.Info.CachedAt)
}

func TestTracker_FirstFailureFallsBackToDefault(t *testing.T) {
	tracker, calc, _ := newTestTracker(day(12, 10), nil)
	calc.FailWhen(func(c domain.Coordinates) bool { return c.Latitude > 66 })
	tracker.SetLocation(domain.Location{Coordinates: domain.Coordinates{Latitude: 78.2, Longitude: 15.6}, Label: "Svalbard"})

	snap := tracker.Refresh(context.Background())
	assert.ErrorIs(t, snap.Err, errPolar)
	require.NotNil(t, snap.Info)
	assert.Equal(t, DefaultLocation, snap.Location)
}

func TestTracker_WatchRefreshesOnTick(t *testing.T) {
	tracker, calc, clock := newTestTracker(day(9, 0), nil)
	tracker.SetLocation(domain.Location{Coordinates: london})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var snaps []Snapshot
	done := make(chan struct{})
	go func() {
		defer close(done)
		tracker.Watch(ctx, time.Minute, func(s Snapshot) {
			mu.Lock()
			snaps = append(snaps, s)
			mu.Unlock()
		})
	}()

	// the refresh interval is shorter than the cache duration, so ticks
	// are served from the cache until it expires
	assert.Eventually(t, func() bool {
		clock.Advance(time.Minute)
		mu.Lock()
		defer mu.Unlock()
		return len(snaps) >= 7
	}, 2*time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, calc.Calls(), 2)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
