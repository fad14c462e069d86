package http

import (
	"Niyyah-Backend/internal/auth"
	"Niyyah-Backend/internal/metrics"
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Server HTTP сервер с обработчиками
type Server struct {
	authHandlers    *auth.AuthHandlers
	sessionsHandler *SessionsHandler
	prayerHandler   *PrayerHandler
	healthHandler   *HealthHandler
	authMiddleware  *auth.Middleware
	allowedOrigins  []string
	log             *zap.Logger
}

// NewServer создает новый HTTP сервер
func NewServer(
	authHandlers *auth.AuthHandlers,
	sessionsHandler *SessionsHandler,
	prayerHandler *PrayerHandler,
	healthHandler *HealthHandler,
	authMiddleware *auth.Middleware,
	allowedOrigins []string,
	log *zap.Logger,
) *Server {
	return &Server{
		authHandlers:    authHandlers,
		sessionsHandler: sessionsHandler,
		prayerHandler:   prayerHandler,
		healthHandler:   healthHandler,
		authMiddleware:  authMiddleware,
		allowedOrigins:  allowedOrigins,
		log:             log,
	}
}

// SetupRoutes настраивает маршруты
func (s *Server) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	// Health checks (без аутентификации)
	mux.HandleFunc("/health", s.instrument("/health", s.healthHandler.Health))
	mux.HandleFunc("/ready", s.instrument("/ready", s.healthHandler.Ready))
	mux.Handle("/metrics", promhttp.Handler())

	// Swagger документация
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Auth endpoints (без аутентификации)
	mux.HandleFunc("/api/auth/token", s.instrument("/api/auth/token", s.authHandlers.IssueToken))

	// Сессии (с аутентификацией, если задан секрет)
	mux.HandleFunc("/api/sessions", s.instrument("/api/sessions", s.authMiddleware.RequireAuth(s.sessionsHandler.Sessions)))
	mux.HandleFunc("/api/sessions/daily", s.instrument("/api/sessions/daily", s.authMiddleware.RequireAuth(s.sessionsHandler.DailySessions)))

	// Молитвы (без аутентификации)
	mux.HandleFunc("/api/prayer", s.instrument("/api/prayer", s.prayerHandler.Prayer))
	mux.HandleFunc("/api/prayer/location", s.instrument("/api/prayer/location", s.prayerHandler.Location))
	mux.HandleFunc("/api/prayer/stream", s.instrument("/api/prayer/stream", s.prayerHandler.Stream))

	c := cors.New(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	return c.Handler(mux)
}

// instrument пишет метрики запросов по маршруту
func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		metrics.HTTPRequestTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPRequestDurationSeconds.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		s.log.Debug("http request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

// Flush нужен для SSE потока
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := r.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, errors.New("hijacking is not supported")
}
