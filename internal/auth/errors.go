package auth

import "errors"

// Sentinel errors returned by the credential manager. Handlers translate
// these into HTTP status codes: 409, 404, 401, 403.
var (
	// ErrConflict signals a duplicate username or email on registration.
	ErrConflict = errors.New("username or email already taken")

	// ErrNotFound signals that no user matches the given username.
	ErrNotFound = errors.New("user not found")

	// ErrUnauthorized signals failed credential verification or a
	// missing/invalid session token or API key.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden signals a valid identity acting on a resource it does
	// not own.
	ErrForbidden = errors.New("forbidden")
)
