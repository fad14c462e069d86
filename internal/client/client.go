// Package client talks to the niyyah HTTP API. It implements the session
// persistence boundary, so a terminal FocusService can write through it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strconv"
	"strings"
	"time"

	"Niyyah-Backend/internal/domain"

	"github.com/felixgeelhaar/fortify/retry"
	"go.uber.org/zap"
)

const DefaultServerURL = "http://localhost:8080"

// UserAgent identifies the terminal client; the server derives the device
// label from it.
func UserAgent(version string) string {
	return fmt.Sprintf("niyyah-focus/%s (%s; %s)", version, runtime.GOOS, runtime.GOARCH)
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// Config tunes a Client. Zero values fall back to defaults.
type Config struct {
	BaseURL      string
	Token        string
	UserAgent    string
	Timeout      time.Duration
	MaxAttempts  int
	InitialDelay time.Duration
}

// Client is a niyyah API client. Reads are retried with exponential
// backoff; writes are sent once.
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
	retrier    retry.Retry[[]byte]
	log        *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultServerURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = UserAgent("dev")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = 500 * time.Millisecond
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		retrier: retry.New[[]byte](retry.Config{
			MaxAttempts:   cfg.MaxAttempts,
			InitialDelay:  cfg.InitialDelay,
			MaxDelay:      5 * time.Second,
			Multiplier:    2.0,
			BackoffPolicy: retry.BackoffExponential,
			Jitter:        true,
			IsRetryable:   isRetryable,
		}),
		log: log,
	}
}

// BaseURL returns the server address requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// PrayerState is the server's answer for one location.
type PrayerState struct {
	Location         domain.Location   `json:"location"`
	Prayer           domain.PrayerInfo `json:"prayer"`
	SecondsUntilNext int64             `json:"secondsUntilNext"`
}

// --- Sessions ---

func (c *Client) ListSessions(ctx context.Context) ([]*domain.Session, error) {
	var sessions []*domain.Session
	if err := c.get(ctx, "/api/sessions", nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// CreateSession is not retried: a write whose response was lost may already
// be stored.
func (c *Client) CreateSession(ctx context.Context, input domain.NewSession) (*domain.Session, error) {
	var session domain.Session
	if err := c.send(ctx, http.MethodPost, "/api/sessions", input, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) Daily(ctx context.Context) ([]*domain.DaySummary, error) {
	var days []*domain.DaySummary
	if err := c.get(ctx, "/api/sessions/daily", nil, &days); err != nil {
		return nil, err
	}
	return days, nil
}

// --- Prayer ---

// Prayer asks for the prayer state at coords, or at the server's saved
// location when coords is nil. An empty tz means the server's zone.
func (c *Client) Prayer(ctx context.Context, coords *domain.Coordinates, tz string) (*PrayerState, error) {
	q := url.Values{}
	if coords != nil {
		q.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
		q.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	}
	if tz != "" {
		q.Set("tz", tz)
	}
	var state PrayerState
	if err := c.get(ctx, "/api/prayer", q, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *Client) SavedLocation(ctx context.Context) (*domain.Location, error) {
	var loc domain.Location
	if err := c.get(ctx, "/api/prayer/location", nil, &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}

func (c *Client) SaveLocation(ctx context.Context, loc domain.Location) (*domain.Location, error) {
	body := map[string]interface{}{
		"latitude":  loc.Latitude,
		"longitude": loc.Longitude,
		"label":     loc.Label,
	}
	var saved domain.Location
	if err := c.send(ctx, http.MethodPut, "/api/prayer/location", body, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// --- Auth ---

// Token exchanges the server passphrase for a bearer token.
func (c *Client) Token(ctx context.Context, passphrase, device string) (string, time.Time, error) {
	var resp struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
	req := map[string]string{"passphrase": passphrase}
	if device != "" {
		req["device"] = device
	}
	if err := c.send(ctx, http.MethodPost, "/api/auth/token", req, &resp); err != nil {
		return "", time.Time{}, err
	}
	return resp.Token, resp.ExpiresAt, nil
}

// Ping checks the server health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, "/health", nil, nil)
}

// --- transport ---

func (c *Client) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	attempt := 0
	var lastErr error
	data, err := c.retrier.Do(ctx, func(ctx context.Context) ([]byte, error) {
		attempt++
		if attempt > 1 {
			c.log.Debug("retrying request", zap.String("path", path), zap.Int("attempt", attempt))
		}
		data, err := c.do(ctx, http.MethodGet, target, nil)
		lastErr = err
		return data, err
	})
	if err != nil {
		// отдаём исходную ошибку последней попытки, а не обёртку retry
		if lastErr != nil && ctx.Err() == nil {
			return lastErr
		}
		return err
	}
	return decode(data, out)
}

func (c *Client) send(ctx context.Context, method, path string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	data, err := c.do(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	return decode(data, out)
}

func (c *Client) do(ctx context.Context, method, target string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &msg) == nil {
			apiErr.Message = msg.Message
		}
		c.log.Debug("request failed",
			zap.String("method", method),
			zap.String("url", target),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message))
		return nil, apiErr
	}
	return data, nil
}

func decode(data []byte, out interface{}) error {
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// isRetryable retries transport failures and transient server statuses.
func isRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return true
	}
	switch apiErr.StatusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
