// Package main provides the entry point for the Niyyah focus service.
//
//	@title			Niyyah Focus API
//	@version		1.0.0
//	@description	Focus sessions with intentions and a prayer time countdown.
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Authorization header. Format: "Bearer {token}"
package main

import (
	"Niyyah-Backend/internal/auth"
	"Niyyah-Backend/internal/config"
	"Niyyah-Backend/internal/database"
	"Niyyah-Backend/internal/domain"
	httpHandler "Niyyah-Backend/internal/handler/http"
	"Niyyah-Backend/internal/prayer"
	"Niyyah-Backend/internal/repository"
	"Niyyah-Backend/internal/repository/memory"
	"Niyyah-Backend/internal/repository/postgres"
	"Niyyah-Backend/internal/scheduler"
	"Niyyah-Backend/internal/service"
	"Niyyah-Backend/pkg/logger"
	"Niyyah-Backend/pkg/salat"
	"Niyyah-Backend/pkg/useragent"
	"context"
	"errors"
	"fmt"
	lg "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "Niyyah-Backend/docs" // Import swagger docs
)

var version = "dev"

func main() {
	cfg := config.MustLoad()
	log := logger.Tee(logger.New(cfg.Env), cfg.Log.File)
	defer func() {
		if err := log.Sync(); err != nil {
			lg.Printf("ERROR: failed to sync zap logger: %v\n", err)
		}
	}()

	log.Info("starting niyyah service", zap.String("env", cfg.Env), zap.String("version", version))

	// Настройки расчёта молитв проверяются до подключения к базе
	settings, err := loadPrayerSettings(cfg.Prayer)
	if err != nil {
		log.Fatal("invalid prayer configuration", zap.Error(err))
	}

	// Хранилище: postgres при наличии DSN, иначе память
	var storage repository.Storage
	backend := "memory"
	if cfg.Database.Enabled() {
		db, err := database.NewConnection(&cfg.Database, cfg.Env, log)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		defer func() {
			if err := database.Close(db, log); err != nil {
				log.Error("failed to close database connection", zap.Error(err))
			}
		}()

		if cfg.Database.AutoMigrate {
			log.Info("running database migrations (auto_migrate: true)")
			if err := database.AutoMigrate(db, log); err != nil {
				_ = database.Close(db, log)
				log.Fatal("failed to run database migrations", zap.Error(err))
			}
		} else {
			log.Info("skipping database migrations (auto_migrate: false)")
		}
		storage = postgres.New(db, log)
		backend = "postgres"
	} else {
		log.Warn("no database configured, sessions are kept in memory only")
		storage = memory.New()
	}

	clock := clockwork.NewRealClock()
	cache := prayer.NewCache(clock, cfg.Prayer.CacheDuration, cfg.Prayer.CacheSize)
	engine := prayer.NewEngine(
		prayer.SalatCalculator{Params: settings.params},
		cache,
		clock,
		prayer.EngineConfig{PrayerWindow: cfg.Prayer.PrayerWindow, Location: settings.zone},
		log,
	)
	// у сервера нет геолокации устройства: сохранённое место или значение по умолчанию
	locator := prayer.NewLocator(nil, storage, &settings.fallback, cfg.Prayer.GeolocationTimeout, log)
	tracker := prayer.NewTracker(engine, locator, clock, log)

	refresher := scheduler.NewRefresher(tracker, cache, clock, log, scheduler.Config{
		RefreshInterval: cfg.Prayer.RefreshInterval,
		PurgeInterval:   cfg.Prayer.CacheDuration,
	})
	if err := refresher.Start(); err != nil {
		log.Fatal("failed to start prayer refresher", zap.Error(err))
	}
	defer func() {
		if err := refresher.Stop(); err != nil {
			log.Error("failed to stop prayer refresher", zap.Error(err))
		}
	}()

	// Initialize User-Agent parser
	uaParser, err := useragent.NewParser("", log)
	if err != nil {
		log.Warn("failed to initialize User-Agent parser, devices will not be labelled", zap.Error(err))
	}
	var devices httpHandler.DeviceLabeler
	if uaParser != nil {
		devices = uaParser
	}

	// JWT только если задан секрет
	var jwtService *auth.JWTService
	if cfg.Auth.Enabled() {
		jwtService = auth.NewJWTService(&auth.JWTConfig{
			SecretKey:     []byte(cfg.Auth.Secret),
			TokenDuration: cfg.Auth.TokenTTL,
			Issuer:        cfg.Auth.Issuer,
		})
		log.Info("API token authentication enabled")
	}
	passwordService := auth.NewPasswordService()

	httpAPIServer := httpHandler.NewServer(
		auth.NewAuthHandlers(jwtService, passwordService, cfg.Auth.PassphraseHash, log),
		httpHandler.NewSessionsHandler(service.NewSessionService(storage, log), devices, log),
		httpHandler.NewPrayerHandler(engine, locator, tracker, clock, cfg.Prayer.RefreshInterval, log),
		httpHandler.NewHealthHandler(storage, refresher, backend, version, log),
		auth.NewMiddleware(jwtService, log),
		cfg.CORS.AllowedOrigins,
		log,
	)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      httpAPIServer.SetupRoutes(),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting HTTP server", zap.String("address", srv.Addr), zap.String("storage", backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down niyyah service...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		log.Info("HTTP server stopped")
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", zap.Error(err))
	}
}

type prayerSettings struct {
	params   salat.Params
	zone     *time.Location
	fallback domain.Location
}

// loadPrayerSettings проверяет метод расчёта, мазхаб, часовой пояс и локацию по умолчанию
func loadPrayerSettings(p config.Prayer) (prayerSettings, error) {
	method, err := salat.MethodByName(p.Method)
	if err != nil {
		return prayerSettings{}, err
	}
	madhab, err := salat.ParseMadhab(p.AsrSchool)
	if err != nil {
		return prayerSettings{}, err
	}
	zone, err := p.TimeLocation()
	if err != nil {
		return prayerSettings{}, err
	}
	fallback := domain.Location{
		Coordinates: domain.Coordinates{Latitude: p.DefaultLatitude, Longitude: p.DefaultLongitude},
		Label:       p.DefaultLabel,
	}
	if err := fallback.Validate(); err != nil {
		return prayerSettings{}, fmt.Errorf("invalid default prayer location: %w", err)
	}
	return prayerSettings{
		params:   salat.Params{Method: method, Madhab: madhab},
		zone:     zone,
		fallback: fallback,
	}, nil
}
