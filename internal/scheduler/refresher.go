package scheduler

import (
	"Niyyah-Backend/internal/metrics"
	"Niyyah-Backend/internal/prayer"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Config holds configuration for the background refresher
type Config struct {
	RefreshInterval time.Duration // How often the server location is recomputed
	PurgeInterval   time.Duration // How often expired cache entries are dropped
	ShutdownTimeout time.Duration // Time to wait for graceful shutdown
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		RefreshInterval: prayer.DefaultRefreshInterval,
		PurgeInterval:   prayer.DefaultCacheDuration,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Refresher keeps the server's own prayer location warm and the prayer
// cache trimmed while the server runs.
type Refresher struct {
	config  Config
	tracker *prayer.Tracker
	cache   *prayer.Cache
	clock   clockwork.Clock
	log     *zap.Logger

	wg      sync.WaitGroup
	cancel  context.CancelFunc
	started bool
	mu      sync.RWMutex

	refreshes int
	purged    int
	lastErr   error
}

// NewRefresher creates a new refresher
func NewRefresher(tracker *prayer.Tracker, cache *prayer.Cache, clock clockwork.Clock, log *zap.Logger, config Config) *Refresher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	def := DefaultConfig()
	if config.RefreshInterval <= 0 {
		config.RefreshInterval = def.RefreshInterval
	}
	if config.PurgeInterval <= 0 {
		config.PurgeInterval = def.PurgeInterval
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = def.ShutdownTimeout
	}
	return &Refresher{
		config:  config,
		tracker: tracker,
		cache:   cache,
		clock:   clock,
		log:     log,
	}
}

// Start launches the refresh and purge workers
func (r *Refresher) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return fmt.Errorf("refresher already started")
	}

	r.log.Info("starting prayer refresher",
		zap.Duration("refresh_interval", r.config.RefreshInterval),
		zap.Duration("purge_interval", r.config.PurgeInterval),
	)

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	r.wg.Add(2)
	go r.refreshWorker(ctx)
	go r.purgeWorker(ctx)

	r.started = true
	return nil
}

// Stop gracefully shuts down the workers
func (r *Refresher) Stop() error {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return fmt.Errorf("refresher not started")
	}
	r.log.Info("stopping prayer refresher")
	r.cancel()
	r.started = false
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.log.Info("prayer refresher stopped gracefully")
		return nil
	case <-time.After(r.config.ShutdownTimeout):
		r.log.Warn("prayer refresher shutdown timeout reached")
		return fmt.Errorf("shutdown timeout reached")
	}
}

func (r *Refresher) refreshWorker(ctx context.Context) {
	defer r.wg.Done()

	r.tracker.Watch(ctx, r.config.RefreshInterval, func(snap prayer.Snapshot) {
		r.mu.Lock()
		r.refreshes++
		r.lastErr = snap.Err
		r.mu.Unlock()

		if snap.Err != nil {
			r.log.Warn("prayer refresh failed", zap.Error(snap.Err))
			return
		}
		if snap.Info != nil {
			r.log.Debug("prayer info refreshed",
				zap.String("location", snap.Location.Label),
				zap.String("current", snap.Info.Name),
				zap.String("next", snap.Info.NextPrayerName))
		}
	})
}

func (r *Refresher) purgeWorker(ctx context.Context) {
	defer r.wg.Done()

	ticker := r.clock.NewTicker(r.config.PurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			removed := r.cache.Purge()
			metrics.PrayerCacheEntries.Set(float64(r.cache.Len()))

			r.mu.Lock()
			r.purged += removed
			r.mu.Unlock()

			if removed > 0 {
				r.log.Debug("purged expired prayer cache entries", zap.Int("removed", removed))
			}
		}
	}
}

// GetStats returns refresher statistics
func (r *Refresher) GetStats() map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       r.started,
		"refreshes":     r.refreshes,
		"purged":        r.purged,
		"cache_entries": r.cache.Len(),
	}
	if r.lastErr != nil {
		stats["last_error"] = r.lastErr.Error()
	}
	return stats
}
