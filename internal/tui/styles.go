package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Primary   = lipgloss.Color("#4ECDC4")
	Accent    = lipgloss.Color("#FFE66D")
	Success   = lipgloss.Color("#95E1A3")
	Danger    = lipgloss.Color("#FF6B6B")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
)

// Styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	TimerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(1, 4).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Primary)

	PausedTimerStyle = TimerStyle.
				BorderForeground(Accent).
				Foreground(Accent)

	NiyyahStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(Accent)

	CursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	PrayerStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border).
			Padding(0, 1)

	PrayerNowStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Success)

	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Danger)
	MutedStyle   = lipgloss.NewStyle().Foreground(TextMuted)
	HelpStyle    = lipgloss.NewStyle().Foreground(TextMuted).Padding(1, 1, 0, 1)
)
