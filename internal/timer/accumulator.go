// Package timer tracks active focus time across pause/resume cycles.
//
// Elapsed time is always derived from wall-clock timestamps, so missed ticks
// (a suspended process, a slow terminal) never lose or double-count time.
package timer

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

var ErrInvalidTransition = errors.New("invalid timer transition")

// State is the lifecycle state of an Accumulator.
type State int

const (
	Idle State = iota
	Running
	Paused
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Accumulator sums the Running intervals of a single focus session.
// It is not safe for concurrent use; callers serialize access.
type Accumulator struct {
	clock       clockwork.Clock
	state       State
	accumulated time.Duration
	lastResume  time.Time
	startedAt   time.Time
	finishedAt  time.Time
}

// New creates an idle accumulator. A nil clock means the real clock.
func New(clock clockwork.Clock) *Accumulator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Accumulator{clock: clock}
}

func (a *Accumulator) State() State { return a.state }

// StartedAt returns the wall-clock time of Start; zero while Idle.
func (a *Accumulator) StartedAt() time.Time { return a.startedAt }

// FinishedAt returns the wall-clock time of Finish; zero until Finished.
func (a *Accumulator) FinishedAt() time.Time { return a.finishedAt }

// Start moves Idle → Running.
func (a *Accumulator) Start() error {
	if a.state != Idle {
		return a.transitionError("start")
	}
	now := a.clock.Now()
	a.startedAt = now
	a.lastResume = now
	a.accumulated = 0
	a.state = Running
	return nil
}

// Pause moves Running → Paused, folding the current interval into the total.
func (a *Accumulator) Pause() error {
	if a.state != Running {
		return a.transitionError("pause")
	}
	a.fold(a.clock.Now())
	a.state = Paused
	return nil
}

// Resume moves Paused → Running.
func (a *Accumulator) Resume() error {
	if a.state != Paused {
		return a.transitionError("resume")
	}
	a.lastResume = a.clock.Now()
	a.state = Running
	return nil
}

// Finish ends the session now and returns the total active duration.
func (a *Accumulator) Finish() (time.Duration, error) {
	return a.FinishAt(a.clock.Now())
}

// FinishAt ends the session as of t. t must not precede the last resume.
func (a *Accumulator) FinishAt(t time.Time) (time.Duration, error) {
	switch a.state {
	case Running:
		if t.Before(a.lastResume) {
			return 0, fmt.Errorf("%w: finish at %s precedes last resume", ErrInvalidTransition, t.Format(time.RFC3339))
		}
		a.fold(t)
	case Paused:
	default:
		return 0, a.transitionError("finish")
	}
	a.finishedAt = t
	a.state = Finished
	return a.accumulated, nil
}

// Elapsed returns the active duration as of now.
func (a *Accumulator) Elapsed() time.Duration {
	return a.ElapsedAt(a.clock.Now())
}

// ElapsedAt returns the active duration as of t.
func (a *Accumulator) ElapsedAt(t time.Time) time.Duration {
	if a.state != Running {
		return a.accumulated
	}
	d := a.accumulated + t.Sub(a.lastResume)
	if d < a.accumulated {
		// clock stepped backwards
		return a.accumulated
	}
	return d
}

// Seconds returns the whole seconds of active time as of now.
func (a *Accumulator) Seconds() int64 {
	return int64(a.Elapsed() / time.Second)
}

func (a *Accumulator) fold(t time.Time) {
	if elapsed := t.Sub(a.lastResume); elapsed > 0 {
		a.accumulated += elapsed
	}
	a.lastResume = time.Time{}
}

func (a *Accumulator) transitionError(op string) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidTransition, op, a.state)
}
