package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	var days int
	var detail bool

	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"hist"},
		Short:   "Show focus time per day",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.prefs.Load()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			summaries, err := a.client(p, a.log).Daily(ctx)
			if err != nil {
				return fmt.Errorf("failed to load history: %w", err)
			}
			if len(summaries) == 0 {
				fmt.Fprintln(a.stdout, "No sessions yet.")
				return nil
			}
			if days > 0 && len(summaries) > days {
				summaries = summaries[:days]
			}

			w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			for _, day := range summaries {
				noun := "sessions"
				if day.Count == 1 {
					noun = "session"
				}
				fmt.Fprintf(w, "%s\t%s\t%d %s\n", day.Date, humanDuration(day.Total()), day.Count, noun)
				if !detail {
					continue
				}
				for _, s := range day.Sessions {
					niyyah := ""
					if s.Niyyah != nil {
						niyyah = *s.Niyyah
					}
					fmt.Fprintf(w, "  %s\t%s\t%s\n", s.StartTime.Local().Format("15:04"), humanDuration(s.Duration()), niyyah)
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&days, "days", "n", 7, "number of days to show (0 for all)")
	cmd.Flags().BoolVarP(&detail, "detail", "d", false, "list the sessions of each day")
	return cmd
}
