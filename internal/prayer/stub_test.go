package prayer

import (
	"errors"
	"sync"
	"time"

	"Niyyah-Backend/internal/domain"
	"Niyyah-Backend/pkg/salat"
)

var errPolar = errors.New("sun does not set")

// stubCalculator returns a fixed schedule for every day:
// Fajr 05:00, Sunrise 06:15, Dhuhr 12:00, Asr 15:30, Maghrib 18:00, Isha 19:30.
type stubCalculator struct {
	mu    sync.Mutex
	calls int
	fail  func(domain.Coordinates) bool
}

func (s *stubCalculator) Compute(coords domain.Coordinates, date time.Time) (*salat.Times, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.fail != nil && s.fail(coords) {
		return nil, errPolar
	}
	y, m, d := date.Date()
	at := func(h, min int) time.Time { return time.Date(y, m, d, h, min, 0, 0, date.Location()) }
	return &salat.Times{
		Fajr:    at(5, 0),
		Sunrise: at(6, 15),
		Dhuhr:   at(12, 0),
		Asr:     at(15, 30),
		Maghrib: at(18, 0),
		Isha:    at(19, 30),
	}, nil
}

func (s *stubCalculator) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubCalculator) FailWhen(fn func(domain.Coordinates) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fn
}

func day(h, min int) time.Time {
	return time.Date(2026, 10, 19, h, min, 0, 0, time.UTC)
}

var london = domain.Coordinates{Latitude: 51.5074, Longitude: -0.1278}
