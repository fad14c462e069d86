package service

import (
	"Niyyah-Backend/internal/domain"
	"Niyyah-Backend/internal/repository"
	"Niyyah-Backend/internal/timer"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

var (
	ErrZeroDuration   = errors.New("session has no elapsed time")
	ErrFinishInFlight = errors.New("session is already being saved")
)

// FocusService drives one focus session at a time: the elapsed-time
// accumulator plus the write of the finished Session.
type FocusService struct {
	clock  clockwork.Clock
	store  repository.SessionStore
	device *string
	log    *zap.Logger

	mu        sync.Mutex
	acc       *timer.Accumulator
	niyyah    string
	finishing bool
	saved     *domain.Session
}

func NewFocusService(clock clockwork.Clock, store repository.SessionStore, log *zap.Logger) *FocusService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &FocusService{
		clock: clock,
		store: store,
		log:   log,
		acc:   timer.New(clock),
	}
}

// SetDevice labels sessions written by this service.
func (s *FocusService) SetDevice(device string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if device == "" {
		s.device = nil
		return
	}
	s.device = &device
}

// Start begins a new session. A finished session is replaced.
func (s *FocusService) Start(niyyah string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finishing {
		return ErrFinishInFlight
	}
	if s.acc.State() == timer.Finished {
		s.acc = timer.New(s.clock)
		s.saved = nil
	}
	if err := s.acc.Start(); err != nil {
		return err
	}
	s.niyyah = domain.NormalizeNiyyah(niyyah)
	s.log.Debug("focus session started", zap.String("niyyah", s.niyyah))
	return nil
}

func (s *FocusService) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finishing {
		return ErrFinishInFlight
	}
	return s.acc.Pause()
}

func (s *FocusService) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finishing {
		return ErrFinishInFlight
	}
	return s.acc.Resume()
}

// Elapsed is the active time so far, recomputed from the clock.
func (s *FocusService) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acc.Elapsed()
}

func (s *FocusService) State() timer.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acc.State()
}

func (s *FocusService) Niyyah() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.niyyah
}

// Finishing reports whether a Finish write is in flight.
func (s *FocusService) Finishing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finishing
}

// Finish persists the session. The accumulator is only finished once the
// write succeeds; on failure it is left exactly as it was and the error is
// returned. Once saved, further calls return the same Session.
func (s *FocusService) Finish(ctx context.Context) (*domain.Session, error) {
	s.mu.Lock()
	if s.saved != nil {
		saved := s.saved
		s.mu.Unlock()
		return saved, nil
	}
	if s.finishing {
		s.mu.Unlock()
		return nil, ErrFinishInFlight
	}
	state := s.acc.State()
	if state != timer.Running && state != timer.Paused {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: cannot finish from %s", timer.ErrInvalidTransition, state)
	}

	end := s.clock.Now()
	seconds := int64(s.acc.ElapsedAt(end) / time.Second)
	if seconds == 0 {
		s.mu.Unlock()
		return nil, ErrZeroDuration
	}
	start := s.acc.StartedAt()
	niyyah := s.niyyah
	input := domain.NewSession{
		StartTime:       start,
		EndTime:         &end,
		DurationSeconds: seconds,
		Date:            domain.DateOf(start),
		Niyyah:          &niyyah,
		Device:          s.device,
	}
	s.finishing = true
	s.mu.Unlock()

	session, err := s.store.CreateSession(ctx, input)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.finishing = false

	if err != nil {
		s.log.Warn("failed to save focus session, timer left running",
			zap.Int64("duration_seconds", seconds),
			zap.Error(err))
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	if _, err := s.acc.FinishAt(end); err != nil {
		// the session is stored; the accumulator state is secondary
		s.log.Error("failed to finish accumulator", zap.Error(err))
	}
	s.saved = session
	s.log.Info("focus session saved",
		zap.Int64("session_id", session.ID),
		zap.Int64("duration_seconds", session.DurationSeconds),
		zap.String("date", session.Date))
	return session, nil
}

// Abandon drops the active session without saving it.
func (s *FocusService) Abandon() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finishing {
		return ErrFinishInFlight
	}
	state := s.acc.State()
	if state != timer.Running && state != timer.Paused {
		return fmt.Errorf("%w: cannot abandon from %s", timer.ErrInvalidTransition, state)
	}
	s.log.Debug("focus session abandoned", zap.Duration("elapsed", s.acc.Elapsed()))
	s.acc = timer.New(s.clock)
	s.saved = nil
	return nil
}
