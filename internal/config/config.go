package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all the configuration for the application.
type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"production"`
	HTTPServer `yaml:"http_server"`
	Database   `yaml:"database"`
	Prayer     `yaml:"prayer"`
	Auth       `yaml:"auth"`
	CORS       `yaml:"cors"`
	Log        `yaml:"log"`
}

// HTTPServer holds HTTP server specific configuration.
type HTTPServer struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"0s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"30s"`
}

// Database holds the durable backend configuration. An empty DSN selects
// the in-memory store.
type Database struct {
	DSN             string `yaml:"dsn" env:"DATABASE_URL"`
	MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"20"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"1h"`
	AutoMigrate     bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"true"`
}

// Enabled reports whether the durable backend should be used.
func (d Database) Enabled() bool {
	return d.DSN != ""
}

// Prayer holds prayer time calculation and refresh settings. Timezone is
// the zone responses report times in; the calendar day is taken at the
// coordinates unless a request passes tz.
type Prayer struct {
	Method             string        `yaml:"method" env:"PRAYER_METHOD" env-default:"MWL"`
	AsrSchool          string        `yaml:"asr_school" env:"PRAYER_ASR_SCHOOL" env-default:"shafi"`
	Timezone           string        `yaml:"timezone" env:"PRAYER_TIMEZONE" env-default:"Local"`
	CacheDuration      time.Duration `yaml:"cache_duration" env:"PRAYER_CACHE_DURATION" env-default:"5m"`
	CacheSize          int           `yaml:"cache_size" env:"PRAYER_CACHE_SIZE" env-default:"1024"`
	RefreshInterval    time.Duration `yaml:"refresh_interval" env:"PRAYER_REFRESH_INTERVAL" env-default:"60s"`
	PrayerWindow       time.Duration `yaml:"prayer_window" env:"PRAYER_WINDOW" env-default:"20m"`
	GeolocationTimeout time.Duration `yaml:"geolocation_timeout" env:"PRAYER_GEOLOCATION_TIMEOUT" env-default:"5s"`
	DefaultLatitude    float64       `yaml:"default_latitude" env:"PRAYER_DEFAULT_LATITUDE" env-default:"21.4225"`
	DefaultLongitude   float64       `yaml:"default_longitude" env:"PRAYER_DEFAULT_LONGITUDE" env-default:"39.8262"`
	DefaultLabel       string        `yaml:"default_label" env:"PRAYER_DEFAULT_LABEL" env-default:"Mecca"`
}

// TimeLocation resolves the configured time zone.
func (p Prayer) TimeLocation() (*time.Location, error) {
	if p.Timezone == "" || p.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid prayer timezone %q: %w", p.Timezone, err)
	}
	return loc, nil
}

// Auth holds API token settings. An empty secret disables authentication.
type Auth struct {
	Secret         string        `yaml:"secret" env:"AUTH_SECRET"`
	PassphraseHash string        `yaml:"passphrase_hash" env:"AUTH_PASSPHRASE_HASH"`
	TokenTTL       time.Duration `yaml:"token_ttl" env:"AUTH_TOKEN_TTL" env-default:"720h"`
	Issuer         string        `yaml:"issuer" env:"AUTH_ISSUER" env-default:"niyyah-backend"`
}

// Enabled reports whether API routes require a token.
func (a Auth) Enabled() bool {
	return a.Secret != ""
}

// CORS holds allowed browser origins.
type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:5173,http://localhost:3000,http://localhost:8080"`
}

// Log holds logger output settings.
type Log struct {
	File string `yaml:"file" env:"LOG_FILE"`
}

// MustLoad loads the application configuration.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Load reads the config file at CONFIG_PATH (default config/local.yml) or,
// when it does not exist, the environment only.
func Load() (*Config, error) {
	// Try to load .env file (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment variables")
	}

	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/local.yml" // default path
	}

	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, err
		}
	} else {
		log.Println("Config file not found, using environment variables only")
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}
