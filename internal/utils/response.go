package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"ms-railway/internal/apperr"
	"ms-railway/internal/logger"
)

type APIResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func ErrorResponse(message string) APIResponse {
	return APIResponse{
		Success:   false,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteSuccess writes {success: true, message, key: value}. An empty key omits the payload.
func WriteSuccess(w http.ResponseWriter, status int, message, key string, value interface{}) {
	body := map[string]interface{}{
		"success": true,
		"message": message,
	}
	if key != "" {
		body[key] = value
	}
	WriteJSON(w, status, body)
}

// WriteError maps a classified error to its status. Internal causes are logged, never returned.
func WriteError(w http.ResponseWriter, log *logger.Logger, err error) {
	status := apperr.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		cause := errors.Unwrap(err)
		if cause == nil {
			cause = err
		}
		if log != nil {
			log.Error("API", fmt.Sprintf("internal error: %v", cause))
		}
		message = "internal server error"
	}
	WriteJSON(w, status, ErrorResponse(message))
}

// DecodeJSON reads a request body into dst. Malformed bodies are a ValidationError.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("request body is required")
		}
		return apperr.ValidationError{Msg: "invalid request body", Err: err}
	}
	return nil
}
