// Package tui is the terminal focus timer: intention picker, the running
// session and a prayer countdown.
package tui

import (
	"time"

	"Niyyah-Backend/internal/domain"
	"Niyyah-Backend/internal/prayer"
	"Niyyah-Backend/internal/service"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

type phase int

const (
	phaseIntention phase = iota
	phaseFocus
	phaseSaved
)

// Options configures a Model. Tracker may be nil to hide the prayer panel.
type Options struct {
	Focus           *service.FocusService
	Tracker         *prayer.Tracker
	Clock           clockwork.Clock
	Log             *zap.Logger
	RefreshInterval time.Duration
	// Niyyah skips the picker and starts right away.
	Niyyah     string
	Intentions []string
}

// Model is the main TUI model
type Model struct {
	focus      *service.FocusService
	tracker    *prayer.Tracker
	clock      clockwork.Clock
	log        *zap.Logger
	refresh    time.Duration
	intentions []string

	phase       phase
	cursor      int
	prayer      prayer.Snapshot
	hasPrayer   bool
	last        *domain.Session
	message     string
	isError     bool
	confirmQuit bool
	width       int
}

func New(opts Options) Model {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	intentions := opts.Intentions
	if len(intentions) == 0 {
		intentions = domain.DefaultIntentions
	}
	refresh := opts.RefreshInterval
	if refresh <= 0 {
		refresh = prayer.DefaultRefreshInterval
	}

	m := Model{
		focus:      opts.Focus,
		tracker:    opts.Tracker,
		clock:      clock,
		log:        log,
		refresh:    refresh,
		intentions: intentions,
	}
	if opts.Niyyah != "" {
		m.start(opts.Niyyah)
	}
	return m
}

// LastSession is the most recently saved session, if any.
func (m Model) LastSession() *domain.Session { return m.last }

func (m *Model) start(niyyah string) {
	if err := m.focus.Start(niyyah); err != nil {
		m.setError("Could not start: " + err.Error())
		return
	}
	m.phase = phaseFocus
	m.clearMessage()
}

func (m *Model) setError(msg string) {
	m.message = msg
	m.isError = true
}

func (m *Model) setInfo(msg string) {
	m.message = msg
	m.isError = false
}

func (m *Model) clearMessage() {
	m.message = ""
	m.isError = false
}
