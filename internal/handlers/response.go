package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Detail string            `json:"detail"`
	Errors map[string]string `json:"errors,omitempty"`
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response in JSON format
func WriteError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	WriteJSON(w, status, ErrorResponse{Detail: message}, logger)
}

// WriteValidationError writes a 422 listing the offending fields when err
// carries validation.Errors
func WriteValidationError(w http.ResponseWriter, message string, err error, logger *slog.Logger) {
	resp := ErrorResponse{Detail: message}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		resp.Errors = make(map[string]string, len(fieldErrs))
		for field, fe := range fieldErrs {
			resp.Errors[field] = fe.Error()
		}
	}

	WriteJSON(w, http.StatusUnprocessableEntity, resp, logger)
}
