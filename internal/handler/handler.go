package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"tably/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// domainStatus maps a domain error code to an HTTP status.
func domainStatus(code string) int {
	switch code {
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// writeServiceError maps a service error to an HTTP response. Domain errors
// keep their code and message; validation messages become 400s; everything
// else is a 500 with the fallback message.
func writeServiceError(w http.ResponseWriter, err error, fallback string, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		writeError(w, domainStatus(domainErr.Code), domainErr.Code, domainErr.Message, logger)
		return
	}

	msg := err.Error()
	if strings.Contains(msg, "required") ||
		strings.Contains(msg, "must contain") ||
		strings.Contains(msg, "cannot be") ||
		strings.Contains(msg, "precedes") ||
		strings.Contains(msg, "is nil") {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, msg, logger)
		return
	}

	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, fallback, logger)
}
