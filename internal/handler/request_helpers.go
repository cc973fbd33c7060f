package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/BrandishReveal_Go/internal/logger"
)

// DecodeAndValidateRequest decodes a JSON request body, validates it, and returns appropriate errors.
// If this function returns an error, the HTTP response has already been written and the handler should return.
//
// Example usage:
//
//	var req PlayRequest
//	if err := DecodeAndValidateRequest(r, w, &req, OpPlay); err != nil {
//	    return
//	}
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	return decodeAndValidate(r, w, req, actionName, false)
}

// DecodeOptionalRequest behaves like DecodeAndValidateRequest but accepts an
// empty body, leaving req at its zero value.
func DecodeOptionalRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	return decodeAndValidate(r, w, req, actionName, true)
}

func decodeAndValidate(r *http.Request, w http.ResponseWriter, req interface{}, actionName string, allowEmpty bool) error {
	log := logger.FromContext(r.Context())

	err := json.NewDecoder(r.Body).Decode(req)
	if allowEmpty && errors.Is(err, io.EOF) {
		err = nil
	}
	if err != nil {
		log.Warn(fmt.Sprintf("Failed to decode %s request", actionName), "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return err
	}

	log.Debug(fmt.Sprintf("%s request decoded", actionName))

	if err := GetValidator().ValidateStruct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: FormatValidationError(err),
		})
		return err
	}

	return nil
}

// ValidationErrorResponse defines the response structure for validation errors
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// widgetIDParam returns the {id} route parameter
func widgetIDParam(r *http.Request) string {
	return chi.URLParam(r, ParamWidgetID)
}

// ParamWidgetID is the route parameter naming a widget
const ParamWidgetID = "id"
