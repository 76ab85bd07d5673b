package errors

import "errors"

// This package defines a centralized set of sentinel errors for the
// application. Services return these (wrapped with context via %w) instead of
// HTTP status codes; the API layer maps them to responses with errors.Is().

var (
	// ErrNotFound signifies that a requested resource could not be located.
	// Mapped to 404 Not Found.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that client input failed business rule
	// validation. Mapped to 400 Bad Request.
	ErrValidation = errors.New("validation failed")

	// ErrConflict signifies that an operation conflicts with the current
	// state of a resource. Mapped to 409 Conflict.
	ErrConflict = errors.New("resource conflict")

	// ErrPermission signifies that the authenticated user is not authorized
	// to perform the requested action. Mapped to 403 Forbidden.
	ErrPermission = errors.New("permission denied")

	// ErrInternal signifies an unexpected server-side failure. Mapped to
	// 500 Internal Server Error without leaking details to the client.
	ErrInternal = errors.New("internal server error")
)
