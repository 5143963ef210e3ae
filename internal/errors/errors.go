// Package errors defines the domain error values returned by services.
// Handlers map error codes to HTTP statuses; callers only ever see the
// short human-readable message.
package errors

import "errors"

// DomainError is a stable, caller-safe error. Code is machine-readable,
// Message is what the API surfaces.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string { return e.Message }

// Is matches any DomainError with the same code, so wrapped values still
// compare with errors.Is.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// Common error kinds shared across services.
var (
	ErrUnauthorized = &DomainError{
		Code:    "UNAUTHORIZED",
		Message: "admin privileges required",
	}
	ErrNotFound = &DomainError{
		Code:    "NOT_FOUND",
		Message: "requested record not found",
	}
	ErrInvalidInput = &DomainError{
		Code:    "INVALID_INPUT",
		Message: "invalid input",
	}
	ErrInvalidState = &DomainError{
		Code:    "INVALID_STATE",
		Message: "operation not allowed in current state",
	}
	ErrInsufficientBalance = &DomainError{
		Code:    "INSUFFICIENT_BALANCE",
		Message: "amount exceeds available deposit",
	}
	ErrConcurrentModification = &DomainError{
		Code:    "CONCURRENT_MODIFICATION",
		Message: "record changed concurrently, please retry",
	}
	ErrPersistenceFailure = &DomainError{
		Code:    "PERSISTENCE_FAILURE",
		Message: "failed to persist changes",
	}
)

// Invalid returns an INVALID_INPUT error with a specific message.
func Invalid(message string) *DomainError {
	return &DomainError{Code: ErrInvalidInput.Code, Message: message}
}

// State returns an INVALID_STATE error with a specific message.
func State(message string) *DomainError {
	return &DomainError{Code: ErrInvalidState.Code, Message: message}
}
