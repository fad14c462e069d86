// Package cli implements the focus command: the timer TUI plus history,
// prayer times, location and token management.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"Niyyah-Backend/internal/client"
	"Niyyah-Backend/internal/domain"
	"Niyyah-Backend/internal/prayer"
	"Niyyah-Backend/pkg/logger"
	"Niyyah-Backend/pkg/salat"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures the root command. Zero values select the real
// environment.
type Options struct {
	Version    string
	PrefsPath  string
	LogFile    string
	Clock      clockwork.Clock
	Geolocator prayer.Geolocator
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
}

type app struct {
	server  string
	verbose bool

	version string
	logFile string
	clock   clockwork.Clock
	geo     prayer.Geolocator
	prefs   *PrefsStore
	log     *zap.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewRootCommand builds the focus command tree.
func NewRootCommand(opts Options) *cobra.Command {
	a := &app{
		version: opts.Version,
		logFile: opts.LogFile,
		clock:   opts.Clock,
		geo:     opts.Geolocator,
		stdin:   opts.Stdin,
		stdout:  opts.Stdout,
		stderr:  opts.Stderr,
		log:     zap.NewNop(),
	}
	if a.version == "" {
		a.version = "dev"
	}
	if a.clock == nil {
		a.clock = clockwork.NewRealClock()
	}
	if a.geo == nil {
		a.geo = &prayer.IPGeolocator{}
	}
	if a.stdin == nil {
		a.stdin = os.Stdin
	}
	if a.stdout == nil {
		a.stdout = os.Stdout
	}
	if a.stderr == nil {
		a.stderr = os.Stderr
	}

	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Niyyah - focus sessions with intention",
		Long: `Niyyah is a focus timer that records each session with its intention
and shows the time until the next prayer.

Run 'focus' without arguments to start the interactive timer.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       a.version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := opts.PrefsPath
			if path == "" {
				var err error
				if path, err = DefaultPrefsPath(); err != nil {
					return fmt.Errorf("failed to locate home directory: %w", err)
				}
			}
			a.prefs = NewPrefsStore(path)
			a.log = logger.Stderr(a.verbose)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTimer("")
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	cmd.PersistentFlags().StringVar(&a.server, "server", "", "API server URL (default from config, then $NIYYAH_SERVER)")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose logging")

	cmd.AddCommand(
		newTimerCmd(a),
		newHistoryCmd(a),
		newPrayerCmd(a),
		newLocationCmd(a),
		newAuthCmd(a),
		newIntentionsCmd(a),
	)
	return cmd
}

// Execute runs the focus command with the real environment.
func Execute(version string) error {
	return NewRootCommand(Options{Version: version, LogFile: defaultLogFile()}).Execute()
}

func defaultLogFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".niyyah", "logs", "focus.log")
}

// fileLogger keeps TUI logs out of the terminal.
func (a *app) fileLogger() *zap.Logger {
	level := zapcore.InfoLevel
	if a.verbose {
		level = zapcore.DebugLevel
	}
	return logger.NewFile(logger.FileOptions{Path: a.logFile, Level: level})
}

func (a *app) client(p *Prefs, log *zap.Logger) *client.Client {
	server := a.server
	if server == "" {
		server = p.Server
	}
	return client.New(client.Config{
		BaseURL:   server,
		Token:     p.Token,
		UserAgent: client.UserAgent(a.version),
	}, log)
}

// prayerFlags are the calculation overrides shared by prayer commands.
type prayerFlags struct {
	method string
	asr    string
	tz     string
}

func (f *prayerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.method, "method", "", "calculation method: "+strings.Join(salat.MethodNames(), ", "))
	cmd.Flags().StringVar(&f.asr, "asr", "", "Asr school: shafi or hanafi")
	cmd.Flags().StringVar(&f.tz, "tz", "", "IANA time zone deciding the day (default: from the longitude)")
}

// tracker builds a local prayer Tracker: device geolocation first, then the
// saved location in the config file, then the default location.
func (a *app) tracker(p *Prefs, f prayerFlags, log *zap.Logger) (*prayer.Tracker, *prayer.Locator, error) {
	methodName, asrName := p.Method, p.AsrSchool
	if f.method != "" {
		methodName = f.method
	}
	if f.asr != "" {
		asrName = f.asr
	}
	method, err := salat.MethodByName(methodName)
	if err != nil {
		return nil, nil, err
	}
	madhab, err := salat.ParseMadhab(asrName)
	if err != nil {
		return nil, nil, err
	}
	cfg := prayer.EngineConfig{Location: time.Local}
	if f.tz != "" {
		zone, err := time.LoadLocation(f.tz)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid time zone %q: %w", f.tz, err)
		}
		cfg.Location, cfg.DayZone = zone, zone
	}

	cache := prayer.NewCache(a.clock, prayer.DefaultCacheDuration, 0)
	engine := prayer.NewEngine(
		prayer.SalatCalculator{Params: salat.Params{Method: method, Madhab: madhab}},
		cache,
		a.clock,
		cfg,
		log,
	)
	locator := prayer.NewLocator(a.geo, a.prefs, nil, prayer.DefaultGeolocationTimeout, log)
	return prayer.NewTracker(engine, locator, a.clock, log), locator, nil
}

// explicitLocation builds a Location from --lat/--lon.
func explicitLocation(lat, lon float64, label string) (domain.Location, error) {
	if label == "" {
		label = fmt.Sprintf("%.4f, %.4f", lat, lon)
	}
	loc := domain.Location{
		Coordinates: domain.Coordinates{Latitude: lat, Longitude: lon},
		Label:       label,
		Source:      domain.SourceDevice,
	}
	return loc, loc.Validate()
}

// humanDuration renders d as "1h 05m", "12m" or "40s"
func humanDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	h, m, s := total/3600, total/60%60, total%60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
