// Package prayer answers "which prayer is now, which is next" for a location,
// caching each answer for a short validity window.
package prayer

import (
	"fmt"
	"math"
	"time"

	"Niyyah-Backend/internal/domain"
	"Niyyah-Backend/internal/metrics"
	"Niyyah-Backend/pkg/salat"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// DefaultPrayerWindow is how long after a period starts it counts as "prayer time now".
const DefaultPrayerWindow = 20 * time.Minute

// Calculator computes a day's prayer times.
type Calculator interface {
	Compute(coords domain.Coordinates, date time.Time) (*salat.Times, error)
}

// SalatCalculator is the astronomical Calculator.
type SalatCalculator struct {
	Params salat.Params
}

func (c SalatCalculator) Compute(coords domain.Coordinates, date time.Time) (*salat.Times, error) {
	return salat.Compute(coords.Latitude, coords.Longitude, date, c.Params)
}

// EngineConfig tunes an Engine. Zero values fall back to defaults.
type EngineConfig struct {
	PrayerWindow time.Duration
	// Location is the zone results are reported in.
	Location *time.Location
	// DayZone fixes the zone deciding the calendar day. When nil the day is
	// the solar day at the coordinates, see SolarZone.
	DayZone *time.Location
}

// SolarZone approximates the civil zone at coords from its longitude, one
// hour per 15 degrees. Zero offset is UTC.
func SolarZone(coords domain.Coordinates) *time.Location {
	hours := int(math.Round(coords.Longitude / 15))
	if hours == 0 {
		return time.UTC
	}
	return time.FixedZone(fmt.Sprintf("UTC%+d", hours), hours*60*60)
}

// Engine computes PrayerInfo, serving cached results while they are valid.
type Engine struct {
	calc   Calculator
	cache  *Cache
	clock  clockwork.Clock
	window time.Duration
	loc    *time.Location
	day    *time.Location
	log    *zap.Logger
}

// NewEngine wires a calculator to a cache. The cache and the engine must
// share the same clock.
func NewEngine(calc Calculator, cache *Cache, clock clockwork.Clock, cfg EngineConfig, log *zap.Logger) *Engine {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	window := cfg.PrayerWindow
	if window <= 0 {
		window = DefaultPrayerWindow
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &Engine{
		calc:   calc,
		cache:  cache,
		clock:  clock,
		window: window,
		loc:    loc,
		day:    cfg.DayZone,
		log:    log,
	}
}

// Location returns the zone results are reported in.
func (e *Engine) Location() *time.Location { return e.loc }

// Cache exposes the engine's cache for maintenance.
func (e *Engine) Cache() *Cache { return e.cache }

// Info returns the prayer state at coords on the engine's calendar day.
func (e *Engine) Info(coords domain.Coordinates) (domain.PrayerInfo, error) {
	return e.InfoIn(coords, nil)
}

// InfoIn returns the prayer state at coords, with the calendar day taken in
// loc. A nil loc uses the engine's day zone.
func (e *Engine) InfoIn(coords domain.Coordinates, loc *time.Location) (domain.PrayerInfo, error) {
	if err := coords.Validate(); err != nil {
		return domain.PrayerInfo{}, err
	}
	out := e.loc
	if loc != nil {
		out = loc
	}

	now := e.clock.Now().In(e.dayZone(coords, loc))
	key := NewCacheKey(coords, now)
	if info, ok := e.cache.Get(key); ok {
		metrics.PrayerCacheHitsTotal.Inc()
		e.log.Debug("prayer info served from cache", zap.Stringer("key", key))
		return info.In(out), nil
	}

	metrics.PrayerCacheMissesTotal.Inc()

	info, err := e.compute(coords, now)
	if err != nil {
		metrics.PrayerCalculationErrorsTotal.Inc()
		return domain.PrayerInfo{}, err
	}
	e.cache.Put(key, info, now)
	info.CachedAt = now

	e.log.Debug("prayer info computed",
		zap.Stringer("key", key),
		zap.String("current", info.Name),
		zap.String("next", info.NextPrayerName),
		zap.Time("next_time", info.NextPrayerTime))
	return info.In(out), nil
}

// Schedule returns the full prayer times for the current calendar day.
func (e *Engine) Schedule(coords domain.Coordinates) (*salat.Times, error) {
	if err := coords.Validate(); err != nil {
		return nil, err
	}
	return e.calc.Compute(coords, e.clock.Now().In(e.dayZone(coords, nil)))
}

func (e *Engine) dayZone(coords domain.Coordinates, loc *time.Location) *time.Location {
	switch {
	case loc != nil:
		return loc
	case e.day != nil:
		return e.day
	default:
		return SolarZone(coords)
	}
}

func (e *Engine) compute(coords domain.Coordinates, now time.Time) (domain.PrayerInfo, error) {
	times, err := e.calc.Compute(coords, now)
	if err != nil {
		return domain.PrayerInfo{}, fmt.Errorf("failed to compute prayer times: %w", err)
	}

	current := times.Current(now)
	next := times.Next(now)
	nextTime := times.TimeFor(next)

	// past Isha, or today's periods already over in the day zone: take tomorrow's
	if next == salat.None || !nextTime.After(now) {
		tomorrow, err := e.calc.Compute(coords, now.AddDate(0, 0, 1))
		if err != nil {
			return domain.PrayerInfo{}, fmt.Errorf("failed to compute next day prayer times: %w", err)
		}
		next = tomorrow.Next(now)
		nextTime = tomorrow.TimeFor(next)
		if next == salat.None {
			return domain.PrayerInfo{}, fmt.Errorf("no prayer after %s at lat=%v lon=%v", now.Format(time.RFC3339), coords.Latitude, coords.Longitude)
		}
	}

	info := domain.PrayerInfo{
		Name:           current.String(),
		Time:           now,
		NextPrayerName: next.String(),
		NextPrayerTime: nextTime,
	}
	if current != salat.None {
		start := times.TimeFor(current)
		info.Time = start
		since := now.Sub(start)
		info.IsPrayerTimeNow = since >= 0 && since < e.window
	}
	return info, nil
}
