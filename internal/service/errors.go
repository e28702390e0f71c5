// Package service groups the planner's application services. Subpackages
// hold the individual services; this package holds what they share.
package service

import "errors"

// Common service errors shared by the planner's services.
// Callers check for them with errors.Is(); the API layer maps them to HTTP
// status codes.
var (
	// ErrNotOwned indicates a resource is owned by a different user than the
	// one named in the request.
	// API layer should map this to HTTP 404 Not Found so ownership is not leaked.
	ErrNotOwned = errors.New("resource is owned by another user")
)
