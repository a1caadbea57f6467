package handlers

import (
	"encoding/json"
	"net/http"
)

const (
	msgInternalError    = "Internal server error"
	msgMethodNotAllowed = "Method not allowed"
	msgNotFound         = "Not found"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	OK      bool     `json:"ok"`
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// HealthResponse тело ответа проверки живости
type HealthResponse struct {
	Status string `json:"status"`
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// RespondError отправляет ошибку в общем формате {ok:false, error}
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{OK: false, Error: message})
}

// RespondValidationError отправляет 400 с перечнем проблем по полям
func RespondValidationError(w http.ResponseWriter, message string, details []string) {
	RespondJSON(w, http.StatusBadRequest, ErrorResponse{OK: false, Error: message, Details: details})
}

// RespondBadRequest отправляет 400
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

// RespondInternalError отправляет 500
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// MethodNotAllowed обработчик для роутера, когда путь есть, а метода нет
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	RespondError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
}

// NotFound обработчик для неизвестных путей
func NotFound(w http.ResponseWriter, _ *http.Request) {
	RespondError(w, http.StatusNotFound, msgNotFound)
}

// Health GET /healthz
func Health(w http.ResponseWriter, _ *http.Request) {
	RespondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
