package http

import (
	"Niyyah-Backend/internal/auth"
	"Niyyah-Backend/internal/domain"
	"Niyyah-Backend/internal/prayer"
	"Niyyah-Backend/internal/repository"
	"Niyyah-Backend/internal/repository/memory"
	"Niyyah-Backend/internal/service"
	"Niyyah-Backend/pkg/salat"
	"Niyyah-Backend/pkg/useragent"
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MockStorage is a mock implementation of repository.Storage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) ListSessions(ctx context.Context) ([]*domain.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Session), args.Error(1)
}

func (m *MockStorage) CreateSession(ctx context.Context, input domain.NewSession) (*domain.Session, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockStorage) GetSavedLocation(ctx context.Context) (*domain.SavedLocation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavedLocation), args.Error(1)
}

func (m *MockStorage) SaveLocation(ctx context.Context, loc *domain.SavedLocation) error {
	args := m.Called(ctx, loc)
	return args.Error(0)
}

func (m *MockStorage) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

const testPassphrase = "correct horse battery"

type testEnv struct {
	handler http.Handler
	clock   *clockwork.FakeClock
	jwt     *auth.JWTService
}

func newTestEnv(t *testing.T, storage repository.Storage, withAuth bool) *testEnv {
	t.Helper()
	log := zap.NewNop()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC))

	cache := prayer.NewCache(clock, prayer.DefaultCacheDuration, 0)
	engine := prayer.NewEngine(prayer.SalatCalculator{Params: salat.DefaultParams()}, cache, clock,
		prayer.EngineConfig{Location: time.UTC}, log)
	locator := prayer.NewLocator(nil, storage, nil, time.Second, log)
	tracker := prayer.NewTracker(engine, locator, clock, log)

	var jwtService *auth.JWTService
	passwords := auth.NewPasswordServiceWithCost(bcrypt.MinCost)
	hash := ""
	if withAuth {
		jwtService = auth.NewJWTService(&auth.JWTConfig{SecretKey: []byte("secret"), TokenDuration: time.Hour, Issuer: "test"})
		var err error
		hash, err = passwords.HashPassphrase(testPassphrase)
		require.NoError(t, err)
	}

	ua, err := useragent.NewParser("", log)
	require.NoError(t, err)

	server := NewServer(
		auth.NewAuthHandlers(jwtService, passwords, hash, log),
		NewSessionsHandler(service.NewSessionService(storage, log), ua, log),
		NewPrayerHandler(engine, locator, tracker, clock, time.Minute, log),
		NewHealthHandler(storage, nil, "memory", "test", log),
		auth.NewMiddleware(jwtService, log),
		[]string{"http://localhost:5173"},
		log,
	)
	return &testEnv{handler: server.SetupRoutes(), clock: clock, jwt: jwtService}
}

func (e *testEnv) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeMessageBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Message
}

func TestSessions_CreateAndList(t *testing.T) {
	env := newTestEnv(t, memory.New(), false)

	rec := env.do(http.MethodPost, "/api/sessions",
		`{"startTime":"2026-10-19T08:00:00Z","endTime":"2026-10-19T08:30:00Z","durationSeconds":1500,"niyyah":"Seeking Knowledge"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created domain.Session
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "2026-10-19", created.Date)
	assert.Equal(t, int64(1500), created.DurationSeconds)

	rec = env.do(http.MethodGet, "/api/sessions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []domain.Session
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "Seeking Knowledge", *list[0].Niyyah)
}

func TestSessions_ListEmptyIsArray(t *testing.T) {
	env := newTestEnv(t, memory.New(), false)

	rec := env.do(http.MethodGet, "/api/sessions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestSessions_CreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"zero duration", `{"startTime":"2026-10-19T08:00:00Z","durationSeconds":0}`, "durationSeconds"},
		{"negative duration", `{"startTime":"2026-10-19T08:00:00Z","durationSeconds":-1}`, "durationSeconds"},
		{"missing duration", `{"startTime":"2026-10-19T08:00:00Z"}`, "durationSeconds is required"},
		{"missing start", `{"durationSeconds":60}`, "startTime is required"},
		{"end before start", `{"startTime":"2026-10-19T08:00:00Z","endTime":"2026-10-19T07:00:00Z","durationSeconds":60}`, "endTime"},
		{"duration beyond interval", `{"startTime":"2026-10-19T08:00:00Z","endTime":"2026-10-19T08:00:10Z","durationSeconds":99999}`, "must not exceed the 10 seconds"},
		{"bad date", `{"startTime":"2026-10-19T08:00:00Z","durationSeconds":60,"date":"yesterday"}`, "date"},
		{"wrong type", `{"startTime":"2026-10-19T08:00:00Z","durationSeconds":"sixty"}`, "durationSeconds has an invalid type"},
		{"bad timestamp", `{"startTime":"19.10.2026","durationSeconds":60}`, "RFC 3339"},
		{"not json", `nope`, "JSON object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := memory.New()
			env := newTestEnv(t, storage, false)

			rec := env.do(http.MethodPost, "/api/sessions", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeMessageBody(t, rec), tt.message)

			sessions, err := storage.ListSessions(context.Background())
			require.NoError(t, err)
			assert.Empty(t, sessions)
		})
	}
}

func TestSessions_MethodNotAllowed(t *testing.T) {
	env := newTestEnv(t, memory.New(), false)

	rec := env.do(http.MethodDelete, "/api/sessions", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, POST", rec.Header().Get("Allow"))
}

func TestSessions_StorageFailure(t *testing.T) {
	storage := new(MockStorage)
	storage.On("CreateSession", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))
	storage.On("ListSessions", mock.Anything).Return(nil, errors.New("connection reset"))
	env := newTestEnv(t, storage, false)

	rec := env.do(http.MethodPost, "/api/sessions", `{"startTime":"2026-10-19T08:00:00Z","durationSeconds":60}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", decodeMessageBody(t, rec))

	rec = env.do(http.MethodGet, "/api/sessions", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSessions_DeviceFromUserAgent(t *testing.T) {
	env := newTestEnv(t, memory.New(), false)

	rec := env.do(http.MethodPost, "/api/sessions", `{"startTime":"2026-10-19T08:00:00Z","durationSeconds":60}`,
		"User-Agent", "niyyah-focus/0.3.0 (linux; amd64)")
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Session
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	require.NotNil(t, created.Device)
	assert.Equal(t, "niyyah-focus on Linux", *created.Device)
}

func TestSessions_Daily(t *testing.T) {
	env := newTestEnv(t, memory.New(), false)
	for _, body := range []string{
		`{"startTime":"2026-10-18T08:00:00Z","durationSeconds":600}`,
		`{"startTime":"2026-10-19T08:00:00Z","durationSeconds":300}`,
		`{"startTime":"2026-10-19T10:00:00Z","durationSeconds":900}`,
	} {
		require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/sessions", body).Code)
	}

	rec := env.do(http.MethodGet, "/api/sessions/daily", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var days []domain.DaySummary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&days))
	require.Len(t, days, 2)
	assert.Equal(t, "2026-10-19", days[0].Date)
	assert.Equal(t, int64(1200), days[0].TotalSeconds)
	assert.Equal(t, 2, days[0].Count)
}

func TestSessions_RequireTokenWhenAuthEnabled(t *testing.T) {
	env := newTestEnv(t, memory.New(), true)

	rec := env.do(http.MethodGet, "/api/sessions", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodPost, "/api/auth/token", `{"passphrase":"`+testPassphrase+`","device":"laptop"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var token auth.TokenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&token))

	rec = env.do(http.MethodPost, "/api/sessions", `{"startTime":"2026-10-19T08:00:00Z","durationSeconds":60}`,
		"Authorization", "Bearer "+token.Token)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Session
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	require.NotNil(t, created.Device)
	assert.Equal(t, "laptop", *created.Device)

	// prayer routes stay public
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/prayer", "").Code)
}

func TestPrayer_DefaultLocation(t *testing.T) {
	env := newTestEnv(t, memory.New(), false)

	rec := env.do(http.MethodGet, "/api/prayer", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PrayerResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, domain.SourceDefault, resp.Location.Source)
	assert.Equal(t, "Mecca", resp.Location.Label)
	assert.NotEmpty(t, resp.Prayer.NextPrayerName)
	assert.True(t, resp.Prayer.NextPrayerTime.After(env.clock.Now()))
	assert.Greater(t, resp.SecondsUntilNext, int64(0))
}

func TestPrayer_FarFromServerZoneUsesLocalDay(t *testing.T) {
	env := newTestEnv(t, memory.New(), false)

	// 09:00 UTC is evening in Sydney
	rec := env.do(http.MethodGet, "/api/prayer?lat=-33.87&lon=151.21", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PrayerResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEqual(t, "None", resp.Prayer.Name)
	assert.True(t, resp.Prayer.NextPrayerTime.After(env.clock.Now()), "next %s", resp.Prayer.NextPrayerTime)
	assert.Less(t, resp.SecondsUntilNext, int64(24*60*60))
}

func TestPrayer_InvalidQuery(t *testing.T) {
	env := newTestEnv(t, memory.New(), false)

	for _, path := range []string{
		"/api/prayer?lat=91&lon=0",
		"/api/prayer?lat=abc&lon=0",
		"/api/prayer?lat=10",
		"/api/prayer?lat=10&lon=10&tz=Mars/Olympus",
	} {
		rec := env.do(http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.NotEmpty(t, decodeMessageBody(t, rec))
	}
}

func TestPrayer_SaveLocation(t *testing.T) {
	env := newTestEnv(t, memory.New(), false)

	rec := env.do(http.MethodPut, "/api/prayer/location", `{"latitude":51.5074,"longitude":-0.1278,"label":"London"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/api/prayer", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp PrayerResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "London", resp.Location.Label)
	assert.Equal(t, domain.SourceSaved, resp.Location.Source)

	rec = env.do(http.MethodPut, "/api/prayer/location", `{"latitude":100,"longitude":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPut, "/api/prayer/location", `{"label":"Nowhere"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPrayer_Stream(t *testing.T) {
	env := newTestEnv(t, memory.New(), false)
	srv := httptest.NewServer(env.handler)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/prayer/stream?lat=51.5&lon=-0.12", nil)
	require.NoError(t, err)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() (string, string) {
		event, err := reader.ReadString('\n')
		require.NoError(t, err)
		data, err := reader.ReadString('\n')
		require.NoError(t, err)
		_, err = reader.ReadString('\n')
		require.NoError(t, err)
		return strings.TrimSpace(event), strings.TrimPrefix(strings.TrimSpace(data), "data: ")
	}

	event, data := readEvent()
	assert.Equal(t, "event: prayer", event)
	var payload PrayerResponse
	require.NoError(t, json.Unmarshal([]byte(data), &payload))
	assert.Equal(t, 51.5, payload.Location.Latitude)

	// the next event arrives once the refresh interval elapses
	go func() {
		for i := 0; i < 50 && ctx.Err() == nil; i++ {
			env.clock.Advance(time.Minute)
			time.Sleep(10 * time.Millisecond)
		}
	}()
	event, _ = readEvent()
	assert.Equal(t, "event: prayer", event)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, memory.New(), false)
	rec := env.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "memory", resp.Storage)

	storage := new(MockStorage)
	storage.On("Ping", mock.Anything).Return(errors.New("down"))
	storage.On("GetSavedLocation", mock.Anything).Return(nil, repository.ErrNotFound).Maybe()
	env = newTestEnv(t, storage, false)
	assert.Equal(t, http.StatusServiceUnavailable, env.do(http.MethodGet, "/health", "").Code)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, memory.New(), false)

	rec := env.do(http.MethodOptions, "/api/sessions", "",
		"Origin", "http://localhost:5173",
		"Access-Control-Request-Method", http.MethodPost)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = env.do(http.MethodOptions, "/api/sessions", "",
		"Origin", "http://evil.example",
		"Access-Control-Request-Method", http.MethodPost)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, memory.New(), false)
	env.do(http.MethodGet, "/api/sessions", "")

	rec := env.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "niyyah_http_requests_total")
}
