package http

import (
	"Niyyah-Backend/internal/auth"
	"Niyyah-Backend/internal/domain"
	"Niyyah-Backend/internal/service"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DeviceLabeler подписывает устройство по User-Agent
type DeviceLabeler interface {
	Label(userAgent string) string
}

// SessionsHandler обработчик CRUD для сессий фокуса
type SessionsHandler struct {
	sessions *service.SessionService
	devices  DeviceLabeler
	log      *zap.Logger
}

// NewSessionsHandler создает новый обработчик сессий. devices может быть nil.
func NewSessionsHandler(sessions *service.SessionService, devices DeviceLabeler, log *zap.Logger) *SessionsHandler {
	return &SessionsHandler{
		sessions: sessions,
		devices:  devices,
		log:      log,
	}
}

// CreateSessionRequest структура запроса создания сессии
type CreateSessionRequest struct {
	StartTime       *time.Time `json:"startTime"`
	EndTime         *time.Time `json:"endTime,omitempty"`
	DurationSeconds *int64     `json:"durationSeconds"`
	Date            string     `json:"date,omitempty"`
	Niyyah          *string    `json:"niyyah,omitempty"`
	Device          *string    `json:"device,omitempty"`
}

// Sessions обрабатывает /api/sessions
func (h *SessionsHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.ListSessions(w, r)
	case http.MethodPost:
		h.CreateSession(w, r)
	default:
		methodNotAllowed(w, h.log, "GET, POST")
	}
}

// ListSessions возвращает все сессии
//
//	@Summary		List sessions
//	@Description	List all completed focus sessions ordered by start time
//	@Tags			Sessions
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		domain.Session
//	@Failure		401	{object}	ErrorResponse	"Authentication required"
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/sessions [get]
func (h *SessionsHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessions.List(r.Context())
	if err != nil {
		h.log.Error("failed to list sessions", zap.Error(err))
		internalError(w, h.log)
		return
	}
	if sessions == nil {
		sessions = []*domain.Session{}
	}
	writeJSON(w, h.log, sessions, http.StatusOK)
}

// CreateSession сохраняет завершенную сессию
//
//	@Summary		Create a session
//	@Description	Persist a finished focus session
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		CreateSessionRequest	true	"Session"
//	@Success		201		{object}	domain.Session
//	@Failure		400		{object}	ErrorResponse	"Invalid session"
//	@Failure		401		{object}	ErrorResponse	"Authentication required"
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/sessions [post]
func (h *SessionsHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid create session request", zap.Error(err))
		writeError(w, h.log, decodeMessage(err), http.StatusBadRequest)
		return
	}
	if req.StartTime == nil {
		writeError(w, h.log, "startTime is required", http.StatusBadRequest)
		return
	}
	if req.DurationSeconds == nil {
		writeError(w, h.log, "durationSeconds is required", http.StatusBadRequest)
		return
	}

	input := domain.NewSession{
		StartTime:       *req.StartTime,
		EndTime:         req.EndTime,
		DurationSeconds: *req.DurationSeconds,
		Date:            strings.TrimSpace(req.Date),
		Niyyah:          trimmed(req.Niyyah),
		Device:          trimmed(req.Device),
	}
	if input.Device == nil {
		input.Device = h.deviceFor(r)
	}

	session, err := h.sessions.Create(r.Context(), input)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			writeError(w, h.log, verr.Error(), http.StatusBadRequest)
			return
		}
		h.log.Error("failed to create session", zap.Error(err))
		internalError(w, h.log)
		return
	}

	h.log.Info("session created",
		zap.Int64("session_id", session.ID),
		zap.Int64("duration_seconds", session.DurationSeconds),
		zap.String("date", session.Date))
	writeJSON(w, h.log, session, http.StatusCreated)
}

// DailySessions возвращает сессии, сгруппированные по дням
//
//	@Summary		Daily history
//	@Description	Sessions grouped by calendar day, newest first
//	@Tags			Sessions
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		domain.DaySummary
//	@Failure		401	{object}	ErrorResponse	"Authentication required"
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/sessions/daily [get]
func (h *SessionsHandler) DailySessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, h.log, "GET")
		return
	}
	days, err := h.sessions.Daily(r.Context())
	if err != nil {
		h.log.Error("failed to group sessions", zap.Error(err))
		internalError(w, h.log)
		return
	}
	writeJSON(w, h.log, days, http.StatusOK)
}

// deviceFor берет устройство из токена, иначе из User-Agent
func (h *SessionsHandler) deviceFor(r *http.Request) *string {
	if device, ok := auth.GetDeviceFromContext(r.Context()); ok {
		return &device
	}
	if h.devices == nil || r.UserAgent() == "" {
		return nil
	}
	label := h.devices.Label(r.UserAgent())
	return &label
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func decodeMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	var timeErr *time.ParseError
	switch {
	case errors.As(err, &typeErr):
		return fmt.Sprintf("%s has an invalid type", typeErr.Field)
	case errors.As(err, &timeErr):
		return "timestamps must be RFC 3339, e.g. 2026-10-19T09:00:00Z"
	case errors.As(err, &maxErr):
		return "request body is too large"
	}
	return "request body must be a JSON object"
}
