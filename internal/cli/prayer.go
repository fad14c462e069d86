package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Niyyah-Backend/internal/domain"
	"Niyyah-Backend/internal/prayer"

	"github.com/spf13/cobra"
)

func newPrayerCmd(a *app) *cobra.Command {
	var (
		flags    prayerFlags
		lat, lon float64
		watch    bool
		remote   bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "prayer",
		Short: "Show the current and next prayer",
		Long: `Show the current and next prayer for your location. The location comes from
--lat/--lon, then device geolocation, then the saved location, then Mecca.

With --watch the countdown is refreshed until interrupted. With --remote the
API server computes the times for its saved location.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.prefs.Load()
			if err != nil {
				return err
			}

			var coords *domain.Coordinates
			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
				loc, err := explicitLocation(lat, lon, "")
				if err != nil {
					return err
				}
				coords = &loc.Coordinates
			}

			if remote {
				state, err := a.client(p, a.log).Prayer(cmd.Context(), coords, flags.tz)
				if err != nil {
					return fmt.Errorf("failed to load prayer times: %w", err)
				}
				info := state.Prayer
				printPrayer(a.stdout, prayer.Snapshot{Location: state.Location, Info: &info}, a.clock.Now())
				return nil
			}

			tracker, _, err := a.tracker(p, flags, a.log)
			if err != nil {
				return err
			}
			if coords != nil {
				loc, _ := explicitLocation(coords.Latitude, coords.Longitude, "")
				tracker.SetLocation(loc)
			}

			if !watch {
				s := tracker.Refresh(cmd.Context())
				if s.Info == nil {
					return fmt.Errorf("failed to compute prayer times: %w", s.Err)
				}
				printPrayer(a.stdout, s, a.clock.Now())
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			tracker.Watch(ctx, interval, func(s prayer.Snapshot) {
				printPrayer(a.stdout, s, a.clock.Now())
				fmt.Fprintln(a.stdout)
			})
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude in degrees")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep refreshing until interrupted")
	cmd.Flags().DurationVar(&interval, "interval", prayer.DefaultRefreshInterval, "refresh interval for --watch")
	cmd.Flags().BoolVar(&remote, "remote", false, "ask the API server instead of computing locally")
	return cmd
}

func printPrayer(w io.Writer, s prayer.Snapshot, now time.Time) {
	if s.Info != nil {
		info := s.Info
		current := info.Name
		if info.IsPrayerTimeNow {
			current += " (it is time to pray)"
		}
		fmt.Fprintf(w, "Now:      %s\n", current)
		fmt.Fprintf(w, "Next:     %s at %s (in %s)\n",
			info.NextPrayerName,
			info.NextPrayerTime.Format("15:04"),
			humanDuration(info.TimeUntilNext(now)))
		fmt.Fprintf(w, "Location: %s (%s)\n", s.Location.Label, s.Location.Source)
	}
	if s.Err != nil {
		fmt.Fprintf(w, "Warning:  %v\n", s.Err)
	}
}
