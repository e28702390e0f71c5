package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/scry-planner/internal/api/shared"
)

// getPathUUID extracts a UUID from the URL path parameters.
//
// Returns an error wrapping errMalformedRequest if the parameter is missing
// or is not a valid UUID.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", errMalformedRequest, paramName)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: %s has invalid format", errMalformedRequest, paramName)
	}

	return id, nil
}

// handlePathUUID extracts a UUID path parameter and writes an error response
// if it is invalid. The boolean reports whether the handler may continue.
func handlePathUUID(w http.ResponseWriter, r *http.Request, paramName string, log *slog.Logger) (uuid.UUID, bool) {
	id, err := getPathUUID(r, paramName)
	if err != nil {
		log.Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return uuid.Nil, false
	}
	return id, true
}

// decodeAndValidate decodes the JSON body into dst and runs struct
// validation on it, writing a 400 response on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := shared.DecodeJSON(r, dst); err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: %v", errMalformedRequest, err), "")
		return false
	}
	if err := shared.ValidateRequest(dst); err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}
	return true
}

// parseDateParam parses an optional YYYY-MM-DD value.
func parseDateParam(value string, loc *time.Location) (time.Time, error) {
	t, err := shared.ParseDate(value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", errMalformedRequest, err)
	}
	return t, nil
}
