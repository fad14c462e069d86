package http

import (
	"Niyyah-Backend/internal/domain"
	"Niyyah-Backend/internal/metrics"
	"Niyyah-Backend/internal/prayer"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// PrayerHandler отдает состояние молитв и управляет сохраненной локацией
type PrayerHandler struct {
	engine   *prayer.Engine
	locator  *prayer.Locator
	tracker  *prayer.Tracker
	clock    clockwork.Clock
	interval time.Duration
	log      *zap.Logger
}

// NewPrayerHandler создает новый обработчик. interval задает период SSE-потока.
func NewPrayerHandler(engine *prayer.Engine, locator *prayer.Locator, tracker *prayer.Tracker, clock clockwork.Clock, interval time.Duration, log *zap.Logger) *PrayerHandler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = prayer.DefaultRefreshInterval
	}
	return &PrayerHandler{
		engine:   engine,
		locator:  locator,
		tracker:  tracker,
		clock:    clock,
		interval: interval,
		log:      log,
	}
}

// PrayerResponse состояние молитв для локации
type PrayerResponse struct {
	Location         domain.Location   `json:"location"`
	Prayer           domain.PrayerInfo `json:"prayer"`
	SecondsUntilNext int64             `json:"secondsUntilNext"`
}

// SaveLocationRequest структура запроса сохранения локации
type SaveLocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Label     string   `json:"label,omitempty"`
}

// query разобранные параметры lat/lon/tz
type query struct {
	location domain.Location
	zone     *time.Location
}

// Prayer возвращает текущую и следующую молитву
//
//	@Summary		Current prayer
//	@Description	Current and next prayer for the given coordinates, or the saved/default location when none are given
//	@Tags			Prayer
//	@Produce		json
//	@Param			lat	query		number	false	"Latitude"
//	@Param			lon	query		number	false	"Longitude"
//	@Param			tz	query		string	false	"IANA time zone deciding the calendar day"
//	@Success		200	{object}	PrayerResponse
//	@Failure		400	{object}	ErrorResponse	"Invalid coordinates or time zone"
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/prayer [get]
func (h *PrayerHandler) Prayer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, h.log, "GET")
		return
	}

	q, err := h.parseQuery(r)
	if err != nil {
		writeError(w, h.log, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.info(q)
	if err != nil {
		h.log.Error("failed to compute prayer info",
			zap.Float64("latitude", q.location.Latitude),
			zap.Float64("longitude", q.location.Longitude),
			zap.Error(err))
		internalError(w, h.log)
		return
	}
	writeJSON(w, h.log, resp, http.StatusOK)
}

// Location читает или сохраняет предпочтительную локацию
//
//	@Summary		Saved location
//	@Description	GET returns the saved (or default) location, PUT replaces it
//	@Tags			Prayer
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SaveLocationRequest	false	"Location (PUT only)"
//	@Success		200		{object}	domain.Location
//	@Failure		400		{object}	ErrorResponse	"Invalid coordinates"
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/prayer/location [put]
func (h *PrayerHandler) Location(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, h.log, h.locator.Fallback(r.Context()), http.StatusOK)
	case http.MethodPut:
		h.saveLocation(w, r)
	default:
		methodNotAllowed(w, h.log, "GET, PUT")
	}
}

func (h *PrayerHandler) saveLocation(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req SaveLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.log, decodeMessage(err), http.StatusBadRequest)
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		writeError(w, h.log, "latitude and longitude are required", http.StatusBadRequest)
		return
	}

	label := strings.TrimSpace(req.Label)
	if label == "" {
		label = "Saved Location"
	}
	loc := domain.Location{
		Coordinates: domain.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude},
		Label:       label,
		Source:      domain.SourceSaved,
	}

	if err := h.locator.Save(r.Context(), loc); err != nil {
		if errors.Is(err, domain.ErrInvalidCoordinates) {
			writeError(w, h.log, "latitude must be within [-90, 90] and longitude within [-180, 180]", http.StatusBadRequest)
			return
		}
		h.log.Error("failed to save location", zap.Error(err))
		internalError(w, h.log)
		return
	}
	if h.tracker != nil {
		h.tracker.SetLocation(loc)
	}

	h.log.Info("saved prayer location", zap.String("label", label))
	writeJSON(w, h.log, loc, http.StatusOK)
}

// Stream отправляет состояние молитв как server-sent events
//
//	@Summary		Prayer stream
//	@Description	Server-sent events with the prayer state, one "prayer" event per refresh interval
//	@Tags			Prayer
//	@Produce		text/event-stream
//	@Param			lat	query	number	false	"Latitude"
//	@Param			lon	query	number	false	"Longitude"
//	@Param			tz	query	string	false	"IANA time zone deciding the calendar day"
//	@Success		200
//	@Failure		400	{object}	ErrorResponse	"Invalid coordinates or time zone"
//	@Router			/api/prayer/stream [get]
func (h *PrayerHandler) Stream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, h.log, "GET")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, h.log, "streaming is not supported", http.StatusInternalServerError)
		return
	}

	q, err := h.parseQuery(r)
	if err != nil {
		writeError(w, h.log, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	metrics.PrayerStreamsActive.Inc()
	defer metrics.PrayerStreamsActive.Dec()

	ticker := h.clock.NewTicker(h.interval)
	defer ticker.Stop()

	send := func() bool {
		resp, err := h.info(q)
		if err != nil {
			h.log.Warn("prayer stream calculation failed", zap.Error(err))
			_, err = fmt.Fprintf(w, "event: error\ndata: {\"message\":%q}\n\n", "prayer times are unavailable")
		} else {
			var data []byte
			data, err = json.Marshal(resp)
			if err == nil {
				_, err = fmt.Fprintf(w, "event: prayer\ndata: %s\n\n", data)
			}
		}
		if err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !send() {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			h.log.Debug("prayer stream closed by client")
			return
		case <-ticker.Chan():
			if !send() {
				return
			}
		}
	}
}

func (h *PrayerHandler) info(q query) (PrayerResponse, error) {
	info, err := h.engine.InfoIn(q.location.Coordinates, q.zone)
	if err != nil {
		return PrayerResponse{}, err
	}
	return PrayerResponse{
		Location:         q.location,
		Prayer:           info,
		SecondsUntilNext: int64(info.TimeUntilNext(h.clock.Now()) / time.Second),
	}, nil
}

// parseQuery без lat/lon берет сохраненную локацию или локацию по умолчанию
func (h *PrayerHandler) parseQuery(r *http.Request) (query, error) {
	values := r.URL.Query()
	q := query{}

	if tz := strings.TrimSpace(values.Get("tz")); tz != "" {
		zone, err := time.LoadLocation(tz)
		if err != nil {
			return q, fmt.Errorf("unknown time zone %q", tz)
		}
		q.zone = zone
	}

	latRaw, lonRaw := strings.TrimSpace(values.Get("lat")), strings.TrimSpace(values.Get("lon"))
	if latRaw == "" && lonRaw == "" {
		q.location = h.locator.Fallback(r.Context())
		return q, nil
	}
	if latRaw == "" || lonRaw == "" {
		return q, errors.New("lat and lon must be given together")
	}

	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return q, errors.New("lat must be a number")
	}
	lon, err := strconv.ParseFloat(lonRaw, 64)
	if err != nil {
		return q, errors.New("lon must be a number")
	}
	coords := domain.Coordinates{Latitude: lat, Longitude: lon}
	if err := coords.Validate(); err != nil {
		return q, errors.New("lat must be within [-90, 90] and lon within [-180, 180]")
	}

	q.location = domain.Location{Coordinates: coords, Label: "Custom Location", Source: domain.SourceDevice}
	return q, nil
}
