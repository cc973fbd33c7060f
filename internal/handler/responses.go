package handler

import (
	"errors"
	"log/slog"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/osse101/BrandishReveal_Go/internal/domain"
	"github.com/osse101/BrandishReveal_Go/internal/logger"
	"github.com/osse101/BrandishReveal_Go/internal/outcome"
	"github.com/osse101/BrandishReveal_Go/internal/worker"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		http.Error(w, ErrMsgServerErrorError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs a failed operation and answers with the mapped status
func respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := mapServiceErrorToUserMessage(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(op+" failed", "error", err, "status", status)
	} else {
		log.Warn(op+" failed", "error", err, "status", status)
	}
	respondError(w, status, msg)
}

// User-facing error messages for service errors
const (
	// Generic messages
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgInvalidRequestError = "Invalid request. Please check your inputs."
	ErrMsgServerErrorError    = "Server error occurred. Please try again."
	ErrMsgUnavailableError    = "Server is temporarily unavailable. Please try again later."

	// Widget messages
	ErrMsgWidgetNotFoundError = "Widget not found"
	ErrMsgWidgetClosedError   = "Widget has been closed"
	ErrMsgEmptyPoolError      = "The candidate pool is empty"
	ErrMsgInvalidModeError    = "Unknown reveal mode"

	// Session messages
	ErrMsgSessionActiveError = "A reveal is already in progress"
	ErrMsgSessionIdleError   = "There is no finished reveal to acknowledge"

	// Outcome messages
	ErrMsgOutcomeMismatchError = "The result did not match the displayed items"
	ErrMsgProviderDownError    = "The game server is unavailable. Please try again later."
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP responses.
// A game server rejection passes the server's own message through.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	var perr *outcome.ProviderError
	if errors.As(err, &perr) && perr.Message != "" {
		if perr.Status >= 400 && perr.Status < 500 {
			return http.StatusUnprocessableEntity, perr.Message
		}
		return http.StatusBadGateway, ErrMsgProviderDownError
	}

	switch {
	case errors.Is(err, domain.ErrWidgetNotFound):
		return http.StatusNotFound, ErrMsgWidgetNotFoundError
	case errors.Is(err, domain.ErrWidgetClosed):
		return http.StatusGone, ErrMsgWidgetClosedError
	case errors.Is(err, domain.ErrSessionActive):
		return http.StatusConflict, ErrMsgSessionActiveError
	case errors.Is(err, domain.ErrSessionIdle):
		return http.StatusConflict, ErrMsgSessionIdleError
	case errors.Is(err, domain.ErrOutcomeMismatch):
		return http.StatusUnprocessableEntity, ErrMsgOutcomeMismatchError
	case errors.Is(err, domain.ErrProviderFailure), errors.Is(err, domain.ErrInvalidOutcome):
		return http.StatusBadGateway, ErrMsgProviderDownError
	case errors.Is(err, domain.ErrEmptyPool):
		return http.StatusBadRequest, ErrMsgEmptyPoolError
	case errors.Is(err, domain.ErrInvalidMode):
		return http.StatusBadRequest, ErrMsgInvalidModeError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidRequestError
	case errors.Is(err, worker.ErrLoopStopped):
		return http.StatusServiceUnavailable, ErrMsgUnavailableError
	}

	return http.StatusInternalServerError, ErrMsgServerErrorError
}
