package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// AuthHandlers обработчики выдачи токенов
type AuthHandlers struct {
	jwtService      *JWTService
	passwordService *PasswordService
	passphraseHash  string
	log             *zap.Logger
}

// NewAuthHandlers создает новые обработчики аутентификации
func NewAuthHandlers(jwtService *JWTService, passwordService *PasswordService, passphraseHash string, log *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		jwtService:      jwtService,
		passwordService: passwordService,
		passphraseHash:  passphraseHash,
		log:             log,
	}
}

// TokenRequest структура запроса токена
type TokenRequest struct {
	Passphrase string `json:"passphrase"`
	Device     string `json:"device,omitempty"`
}

// TokenResponse структура ответа с токеном
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ErrorResponse структура ошибки
type ErrorResponse struct {
	Message string `json:"message"`
}

// IssueToken обработчик выдачи токена устройству
//
//	@Summary		Issue an API token
//	@Description	Exchange the configured passphrase for a bearer token
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		TokenRequest	true	"Token request"
//	@Success		200		{object}	TokenResponse	"Token issued"
//	@Failure		400		{object}	ErrorResponse	"Invalid request data"
//	@Failure		401		{object}	ErrorResponse	"Invalid passphrase"
//	@Failure		404		{object}	ErrorResponse	"Authentication is disabled"
//	@Router			/api/auth/token [post]
func (h *AuthHandlers) IssueToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		h.writeError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.jwtService == nil {
		h.writeError(w, "Authentication is disabled", http.StatusNotFound)
		return
	}
	if h.passphraseHash == "" {
		h.log.Warn("token requested but no passphrase hash is configured")
		h.writeError(w, "Token issuing is not configured", http.StatusServiceUnavailable)
		return
	}

	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid token request", zap.Error(err))
		h.writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if err := h.passwordService.VerifyPassphrase(h.passphraseHash, req.Passphrase); err != nil {
		h.log.Info("rejected token request", zap.String("remote_addr", r.RemoteAddr))
		h.writeError(w, "Invalid passphrase", http.StatusUnauthorized)
		return
	}

	device := strings.TrimSpace(req.Device)
	if device == "" {
		device = "unknown"
	}

	token, expiresAt, err := h.jwtService.GenerateToken(device)
	if err != nil {
		h.log.Error("failed to generate token", zap.Error(err))
		h.writeError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.log.Info("issued api token", zap.String("device", device), zap.Time("expires_at", expiresAt))
	h.writeJSON(w, TokenResponse{Token: token, ExpiresAt: expiresAt}, http.StatusOK)
}

// Helper methods

func (h *AuthHandlers) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *AuthHandlers) writeError(w http.ResponseWriter, message string, statusCode int) {
	h.writeJSON(w, ErrorResponse{Message: message}, statusCode)
}
