package domain

import "errors"

// Sentinel errors shared by services, repositories and the HTTP layer.
var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already in use")

	// ErrStoreAccessDenied marks store failures caused by rejected database credentials.
	ErrStoreAccessDenied = errors.New("database access denied")
	// ErrStoreUnavailable marks store failures caused by an unreachable database.
	ErrStoreUnavailable = errors.New("database connection refused")
)

// ValidationError is a client input problem. It matches ErrValidation with errors.Is
// and carries the message shown to the client.
type ValidationError struct {
	Message string
}

// NewValidationError returns a *ValidationError with the given client-facing message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string { return e.Message }

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
