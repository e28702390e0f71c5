package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scry-planner/internal/api/shared"
	"github.com/phrazzld/scry-planner/internal/domain"
	"github.com/phrazzld/scry-planner/internal/service"
	"github.com/phrazzld/scry-planner/internal/store"
)

// errMalformedRequest marks request bodies, path parameters and query
// strings that could not be parsed.
var errMalformedRequest = errors.New("malformed request")

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var verrs validator.ValidationErrors

	switch {
	// Bad request errors
	case errors.Is(err, errMalformedRequest),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.As(err, &verrs):
		return http.StatusBadRequest

	// Ownership failures are reported as not found so resource ids of other
	// users cannot be probed.
	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var verrs validator.ValidationErrors

	switch {
	case errors.As(err, &verrs):
		return SanitizeValidationError(verrs)

	case errors.Is(err, errMalformedRequest):
		return "Invalid request format"

	case errors.Is(err, domain.ErrInvalidPreferences),
		errors.Is(err, domain.ErrInvalidGrouping):
		return "Invalid schedule preferences"

	case errors.Is(err, domain.ErrInvalidConfidence):
		return "Confidence must be between 1 and 10"

	case errors.Is(err, domain.ErrBlankName):
		return "Name cannot be blank"

	case errors.Is(err, domain.ErrInvalidDuration):
		return "Duration must be positive"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrSubjectNotFound):
		return "Subject not found"

	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, store.ErrBlockNotFound),
		errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError reduces validator output to the first failing
// field and a generic description of the broken rule.
func SanitizeValidationError(verrs validator.ValidationErrors) string {
	if len(verrs) == 0 {
		return "Validation error"
	}
	fe := verrs[0]
	return fmt.Sprintf("Invalid %s: %s", toSnake(fe.Field()), getValidationTagMessage(fe.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte", "gt":
		return "too small"
	case "max", "lte", "lt":
		return "too large"
	case "oneof":
		return "invalid value"
	case "uuid":
		return "invalid identifier"
	default:
		return "validation failed"
	}
}

// HandleAPIError maps err to a status code and writes a sanitized error
// response. A non-empty message replaces the generic one for 5xx errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	safeMessage := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && message != "" {
		safeMessage = message
	}
	shared.RespondWithErrorAndLog(w, r, status, safeMessage, err)
}

// toSnake converts a Go field name to its snake_case JSON name.
func toSnake(s string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range s {
		upper := r >= 'A' && r <= 'Z'
		if upper {
			if prevLower {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
		prevLower = !upper
	}
	return b.String()
}
