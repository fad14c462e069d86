package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// ContextKey тип для ключей контекста
type ContextKey string

const (
	// DeviceKey ключ для получения устройства из контекста
	DeviceKey ContextKey = "device"
)

// Middleware JWT middleware для HTTP обработчиков
type Middleware struct {
	jwtService *JWTService
	log        *zap.Logger
}

// NewMiddleware создает новый JWT middleware. При nil jwtService проверка отключена.
func NewMiddleware(jwtService *JWTService, log *zap.Logger) *Middleware {
	return &Middleware{
		jwtService: jwtService,
		log:        log,
	}
}

// Enabled сообщает, требуется ли токен
func (m *Middleware) Enabled() bool {
	return m.jwtService != nil
}

// RequireAuth middleware для проверки JWT токена
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.log.Debug("missing authorization header")
			writeUnauthorized(w, "Authorization required")
			return
		}

		tokenString := ExtractTokenFromBearer(authHeader)
		if tokenString == "" {
			m.log.Debug("invalid authorization header format")
			writeUnauthorized(w, "Invalid authorization header")
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			m.log.Debug("invalid token", zap.Error(err))
			if errors.Is(err, ErrExpiredToken) {
				writeUnauthorized(w, "Token expired")
			} else {
				writeUnauthorized(w, "Invalid token")
			}
			return
		}

		// Добавляем устройство в контекст
		ctx := context.WithValue(r.Context(), DeviceKey, claims.Device)
		m.log.Debug("authenticated device", zap.String("device", claims.Device))

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// GetDeviceFromContext извлекает устройство из контекста
func GetDeviceFromContext(ctx context.Context) (string, bool) {
	device, ok := ctx.Value(DeviceKey).(string)
	return device, ok && device != ""
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="niyyah"`)
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(ErrorResponse{Message: message})
}
