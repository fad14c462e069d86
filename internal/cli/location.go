package cli

import (
	"fmt"
	"strings"

	"Niyyah-Backend/internal/domain"

	"github.com/spf13/cobra"
)

func newLocationCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "location",
		Aliases: []string{"loc"},
		Short:   "Manage the saved prayer location",
	}
	cmd.AddCommand(
		newLocationShowCmd(a),
		newLocationSetCmd(a),
		newLocationDetectCmd(a),
		newLocationClearCmd(a),
	)
	return cmd
}

func newLocationShowCmd(a *app) *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the saved location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.prefs.Load()
			if err != nil {
				return err
			}
			var loc domain.Location
			if remote {
				saved, err := a.client(p, a.log).SavedLocation(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to load server location: %w", err)
				}
				loc = *saved
			} else {
				_, locator, err := a.tracker(p, prayerFlags{}, a.log)
				if err != nil {
					return err
				}
				loc = locator.Fallback(cmd.Context())
			}
			printLocation(a, loc)
			return nil
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "show the API server's location")
	return cmd
}

func newLocationSetCmd(a *app) *cobra.Command {
	var lat, lon float64
	var label string
	var remote bool
	cmd := &cobra.Command{
		Use:   "set --lat LAT --lon LON",
		Short: "Save a location",
		Example: `  focus location set --lat 51.5074 --lon -0.1278 --label London
  focus location set --lat -33.8688 --lon 151.2093 --label Sydney`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			label = strings.TrimSpace(label)
			if label == "" {
				label = "Saved Location"
			}
			loc, err := explicitLocation(lat, lon, label)
			if err != nil {
				return err
			}
			loc.Source = domain.SourceSaved

			p, err := a.prefs.Load()
			if err != nil {
				return err
			}
			_, locator, err := a.tracker(p, prayerFlags{}, a.log)
			if err != nil {
				return err
			}
			if err := locator.Save(cmd.Context(), loc); err != nil {
				return fmt.Errorf("failed to save location: %w", err)
			}
			fmt.Fprintf(a.stdout, "Saved %s (%.4f, %.4f)\n", loc.Label, loc.Latitude, loc.Longitude)

			if remote {
				if _, err := a.client(p, a.log).SaveLocation(cmd.Context(), loc); err != nil {
					return fmt.Errorf("failed to save location on server: %w", err)
				}
				fmt.Fprintln(a.stdout, "Saved on server")
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude in degrees")
	cmd.Flags().StringVarP(&label, "label", "l", "", "display name")
	cmd.Flags().BoolVar(&remote, "remote", false, "also save it on the API server")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

func newLocationDetectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Detect the device location and save it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.prefs.Load()
			if err != nil {
				return err
			}
			_, locator, err := a.tracker(p, prayerFlags{}, a.log)
			if err != nil {
				return err
			}
			loc := locator.Resolve(cmd.Context())
			if loc.Source != domain.SourceDevice {
				fmt.Fprintln(a.stderr, "Could not detect the device location.")
			}
			printLocation(a, loc)
			return nil
		},
	}
}

func newLocationClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the saved location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.prefs.Update(func(p *Prefs) { p.Location = nil }); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, "Saved location cleared")
			return nil
		},
	}
}

func printLocation(a *app, loc domain.Location) {
	fmt.Fprintf(a.stdout, "%s (%.4f, %.4f) [%s]\n", loc.Label, loc.Latitude, loc.Longitude, loc.Source)
}
