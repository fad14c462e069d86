package cli

import (
	"fmt"

	"Niyyah-Backend/internal/service"
	"Niyyah-Backend/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newTimerCmd(a *app) *cobra.Command {
	var niyyah string
	var flags prayerFlags

	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Start a focus session",
		Long: `Start the interactive focus timer. Sessions are saved to the API server
when finished; if the save fails the timer keeps running so you can retry.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTimerWith(niyyah, flags)
		},
	}
	cmd.Flags().StringVar(&niyyah, "niyyah", "", "intention for the session (skips the picker)")
	flags.register(cmd)
	return cmd
}

func (a *app) runTimer(niyyah string) error {
	return a.runTimerWith(niyyah, prayerFlags{})
}

func (a *app) runTimerWith(niyyah string, flags prayerFlags) error {
	p, err := a.prefs.Load()
	if err != nil {
		return err
	}

	log := a.fileLogger()
	defer func() { _ = log.Sync() }()

	tracker, _, err := a.tracker(p, flags, log)
	if err != nil {
		return err
	}
	api := a.client(p, log)
	focus := service.NewFocusService(a.clock, api, log)

	log.Info("launching timer", zap.String("server", api.BaseURL()))
	m := tui.New(tui.Options{
		Focus:   focus,
		Tracker: tracker,
		Clock:   a.clock,
		Log:     log,
		Niyyah:  niyyah,
	})

	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		log.Error("TUI error", zap.Error(err))
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	if fm, ok := final.(tui.Model); ok && fm.LastSession() != nil {
		s := fm.LastSession()
		fmt.Fprintf(a.stdout, "Saved session #%d: %s of focus\n", s.ID, humanDuration(s.Duration()))
	}
	return nil
}
