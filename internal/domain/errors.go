package domain

import "errors"

// Error taxonomy shared by every layer. Services and policies return these
// (possibly wrapped); the HTTP layer maps them to status codes.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized indicates the action requires an identity and none was provided.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates the identity is known but the action is disallowed.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict indicates the store already satisfies or contradicts the mutation.
	ErrConflict = errors.New("conflict")
	// ErrBadRequest indicates a structurally invalid request.
	ErrBadRequest = errors.New("bad request")
)
