package tui

import (
	"context"
	"errors"
	"time"

	"Niyyah-Backend/internal/domain"
	"Niyyah-Backend/internal/prayer"
	"Niyyah-Backend/internal/service"
	"Niyyah-Backend/internal/timer"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// finishTimeout bounds one save attempt.
const finishTimeout = 15 * time.Second

// tickMsg is sent every second to redraw the timer
type tickMsg time.Time

// prayerTickMsg asks for a prayer recompute
type prayerTickMsg time.Time

// prayerMsg carries a fresh prayer snapshot
type prayerMsg prayer.Snapshot

// finishedMsg is the result of a save attempt
type finishedMsg struct {
	session *domain.Session
	err     error
}

// Init starts the clock and the first prayer refresh
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if m.tracker != nil {
		cmds = append(cmds, m.refreshPrayer(false), m.prayerTick())
	}
	return tea.Batch(cmds...)
}

func tickCmd() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) prayerTick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return prayerTickMsg(t)
	})
}

func (m Model) refreshPrayer(retry bool) tea.Cmd {
	tracker := m.tracker
	return func() tea.Msg {
		ctx := context.Background()
		if retry {
			return prayerMsg(tracker.Retry(ctx))
		}
		return prayerMsg(tracker.Refresh(ctx))
	}
}

func (m Model) finish() tea.Cmd {
	focus := m.focus
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), finishTimeout)
		defer cancel()
		session, err := focus.Finish(ctx)
		return finishedMsg{session: session, err: err}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		// время пересчитывается из часов в View, тик только перерисовывает
		return m, tickCmd()

	case prayerTickMsg:
		return m, tea.Batch(m.refreshPrayer(false), m.prayerTick())

	case prayerMsg:
		m.prayer = prayer.Snapshot(msg)
		m.hasPrayer = true
		return m, nil

	case finishedMsg:
		return m.handleFinished(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleFinished(msg finishedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		switch {
		case errors.Is(msg.err, service.ErrFinishInFlight):
			m.setInfo("Saving…")
		case errors.Is(msg.err, service.ErrZeroDuration):
			m.setError("Nothing to save yet: focus for at least a second")
		default:
			m.log.Warn("failed to save session", zap.Error(msg.err))
			m.setError("Could not save session: " + msg.err.Error() + " (press f to retry)")
		}
		return m, nil
	}
	m.last = msg.session
	m.phase = phaseSaved
	m.setInfo("Session saved")
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		return m.quit()
	}
	m.confirmQuit = false

	if key.Matches(msg, keys.Retry) && m.tracker != nil {
		return m, m.refreshPrayer(true)
	}

	switch m.phase {
	case phaseIntention:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.intentions)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Enter):
			m.start(m.intentions[m.cursor])
		}

	case phaseFocus:
		if m.focus.Finishing() {
			// пока идёт запись, состояние таймера не меняем
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Pause):
			m.togglePause()
		case key.Matches(msg, keys.Finish):
			m.setInfo("Saving…")
			return m, m.finish()
		case key.Matches(msg, keys.Abandon):
			if err := m.focus.Abandon(); err != nil {
				m.setError(err.Error())
				return m, nil
			}
			m.phase = phaseIntention
			m.setInfo("Session discarded")
		}

	case phaseSaved:
		if key.Matches(msg, keys.New) || key.Matches(msg, keys.Enter) {
			m.phase = phaseIntention
			m.clearMessage()
		}
	}
	return m, nil
}

func (m *Model) togglePause() {
	var err error
	switch m.focus.State() {
	case timer.Running:
		err = m.focus.Pause()
	case timer.Paused:
		err = m.focus.Resume()
	}
	if err != nil {
		m.setError(err.Error())
		return
	}
	m.clearMessage()
}

// quit asks for confirmation while a session is active, since leaving
// discards it.
func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.phase == phaseFocus && !m.confirmQuit {
		m.confirmQuit = true
		m.setInfo("Session in progress: press q again to discard it and quit")
		return m, nil
	}
	return m, tea.Quit
}
