package apperr

import "errors"

// Sentinels for the failure classes the HTTP layer knows how to map.
// Services wrap these with fmt.Errorf("...: %w", ...) so handlers can
// classify with errors.Is without parsing messages.
var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden marks a valid credential with the wrong role.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrEmailTaken marks a registration against an existing email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrTooSimilar marks a submission rejected by the uniqueness check.
	ErrTooSimilar = errors.New("idea too similar to existing submissions")
	// ErrGeneration marks any failure of the external text-generation service.
	ErrGeneration = errors.New("generation service failure")
)
