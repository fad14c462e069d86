package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"Niyyah-Backend/internal/domain"
	"Niyyah-Backend/internal/repository"

	"gopkg.in/yaml.v3"
)

// Prefs holds the terminal client's preferences
type Prefs struct {
	Server       string        `yaml:"server"`
	Token        string        `yaml:"token,omitempty"`
	TokenExpires time.Time     `yaml:"token_expires,omitempty"`
	Method       string        `yaml:"method"`
	AsrSchool    string        `yaml:"asr_school"`
	Location     *PrefLocation `yaml:"location,omitempty"`
}

// PrefLocation is the saved prayer location
type PrefLocation struct {
	Latitude  float64   `yaml:"latitude"`
	Longitude float64   `yaml:"longitude"`
	Label     string    `yaml:"label"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

// DefaultPrefs returns default settings
func DefaultPrefs() *Prefs {
	return &Prefs{
		Server:    getEnv("NIYYAH_SERVER", "http://localhost:8080"),
		Method:    "MWL",
		AsrSchool: "shafi",
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// DefaultPrefsPath is ~/.niyyah/config.yaml
func DefaultPrefsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".niyyah", "config.yaml"), nil
}

// PrefsStore reads and writes Prefs in a yaml file. It also serves as the
// saved-location store of the local prayer Locator.
type PrefsStore struct {
	path string
	mu   sync.Mutex
}

func NewPrefsStore(path string) *PrefsStore {
	return &PrefsStore{path: path}
}

func (s *PrefsStore) Path() string { return s.path }

// Load returns the stored prefs, or defaults when the file does not exist.
func (s *PrefsStore) Load() (*Prefs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Update applies fn to the stored prefs and writes them back.
func (s *PrefsStore) Update(fn func(p *Prefs)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load()
	if err != nil {
		return err
	}
	fn(p)
	return s.save(p)
}

func (s *PrefsStore) load() (*Prefs, error) {
	p := DefaultPrefs()
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", s.path, err)
	}
	return p, nil
}

func (s *PrefsStore) save(p *Prefs) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	// файл содержит токен
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// --- prayer.LocationStore ---

func (s *PrefsStore) GetSavedLocation(_ context.Context) (*domain.SavedLocation, error) {
	p, err := s.Load()
	if err != nil {
		return nil, err
	}
	if p.Location == nil {
		return nil, repository.ErrNotFound
	}
	return &domain.SavedLocation{
		ID:        1,
		Latitude:  p.Location.Latitude,
		Longitude: p.Location.Longitude,
		Label:     p.Location.Label,
		UpdatedAt: p.Location.UpdatedAt,
	}, nil
}

func (s *PrefsStore) SaveLocation(_ context.Context, loc *domain.SavedLocation) error {
	return s.Update(func(p *Prefs) {
		p.Location = &PrefLocation{
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
			Label:     loc.Label,
			UpdatedAt: time.Now(),
		}
	})
}
