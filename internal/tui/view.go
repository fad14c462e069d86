package tui

import (
	"fmt"
	"strings"

	"Niyyah-Backend/internal/timer"

	"github.com/charmbracelet/lipgloss"
)

// View renders the UI
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render("Niyyah · focus with intention"))
	b.WriteString("\n\n")

	switch m.phase {
	case phaseIntention:
		b.WriteString(m.viewIntentions())
	case phaseFocus:
		b.WriteString(m.viewFocus())
	case phaseSaved:
		b.WriteString(m.viewSaved())
	}

	if m.message != "" {
		b.WriteString("\n")
		if m.isError {
			b.WriteString(ErrorStyle.Render(m.message))
		} else {
			b.WriteString(MutedStyle.Render(m.message))
		}
		b.WriteString("\n")
	}

	if m.tracker != nil {
		b.WriteString("\n")
		b.WriteString(PrayerStyle.Render(m.viewPrayer()))
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render(m.help()))
	return b.String()
}

func (m Model) viewIntentions() string {
	var b strings.Builder
	b.WriteString("What is your intention for this session?\n\n")
	for i, intention := range m.intentions {
		if i == m.cursor {
			b.WriteString(CursorStyle.Render("› " + intention))
		} else {
			b.WriteString("  " + intention)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewFocus() string {
	state := m.focus.State()
	clock := formatClock(m.focus.Elapsed())

	style := TimerStyle
	status := "focusing"
	if state == timer.Paused {
		style = PausedTimerStyle
		status = "paused"
	}
	if m.focus.Finishing() {
		status = "saving…"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		NiyyahStyle.Render(m.focus.Niyyah()),
		style.Render(clock),
		MutedStyle.Render(status),
	) + "\n"
}

func (m Model) viewSaved() string {
	if m.last == nil {
		return ""
	}
	niyyah := ""
	if m.last.Niyyah != nil {
		niyyah = *m.last.Niyyah
	}
	return SuccessStyle.Render(fmt.Sprintf("✓ %s of focus", formatDuration(m.last.Duration()))) +
		"\n" + NiyyahStyle.Render(niyyah) + "\n"
}

func (m Model) viewPrayer() string {
	if !m.hasPrayer {
		return MutedStyle.Render("Locating prayer times…")
	}
	s := m.prayer
	var lines []string

	if s.Info != nil {
		info := s.Info
		current := "Now: " + info.Name
		if info.IsPrayerTimeNow {
			current = PrayerNowStyle.Render(current + " · it is time to pray")
		}
		lines = append(lines, current)
		lines = append(lines, fmt.Sprintf("Next: %s at %s (in %s)",
			info.NextPrayerName,
			info.NextPrayerTime.Format("15:04"),
			formatDuration(info.TimeUntilNext(m.clock.Now()))))
		if s.Location.Label != "" {
			lines = append(lines, MutedStyle.Render(s.Location.Label))
		}
	}
	if s.Err != nil {
		lines = append(lines, ErrorStyle.Render("Prayer times unavailable: "+s.Err.Error()+" (press r to retry)"))
	}
	return strings.Join(lines, "\n")
}

func (m Model) help() string {
	var bindings []string
	switch m.phase {
	case phaseIntention:
		bindings = []string{keys.Up.Help().Key + "/" + keys.Down.Help().Key + " choose", helpOf(keys.Enter.Help())}
	case phaseFocus:
		bindings = []string{helpOf(keys.Pause.Help()), helpOf(keys.Finish.Help()), helpOf(keys.Abandon.Help())}
	case phaseSaved:
		bindings = []string{helpOf(keys.New.Help())}
	}
	if m.tracker != nil {
		bindings = append(bindings, helpOf(keys.Retry.Help()))
	}
	bindings = append(bindings, helpOf(keys.Quit.Help()))
	return strings.Join(bindings, " • ")
}
