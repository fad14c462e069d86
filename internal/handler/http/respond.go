package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

const maxBodyBytes = 64 << 10

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, log *zap.Logger, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, log *zap.Logger, message string, statusCode int) {
	writeJSON(w, log, ErrorResponse{Message: message}, statusCode)
}

func methodNotAllowed(w http.ResponseWriter, log *zap.Logger, allow string) {
	w.Header().Set("Allow", allow)
	writeError(w, log, "Method Not Allowed", http.StatusMethodNotAllowed)
}

func internalError(w http.ResponseWriter, log *zap.Logger) {
	writeError(w, log, "Internal Server Error", http.StatusInternalServerError)
}
