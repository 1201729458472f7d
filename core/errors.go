package core

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound signals that no session exists under the requested id.
// Callers typically react by creating a fresh session rather than failing.
var ErrSessionNotFound = errors.New("session not found")

// ErrStorageUnavailable is the sentinel all persistence failures wrap so the
// façade can distinguish "storage down" from programming errors. On a save
// failure the in-memory reply is still delivered; the wrapped error is
// surfaced to the caller, not swallowed.
var ErrStorageUnavailable = errors.New("storage unavailable")

// ValidationInputError reports unusable input (e.g. a missing message). It
// surfaces immediately; no persistence is attempted for the turn.
type ValidationInputError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface for ValidationInputError.
func (e *ValidationInputError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// NewValidationInputError creates a new ValidationInputError.
func NewValidationInputError(field, message string) *ValidationInputError {
	return &ValidationInputError{Field: field, Message: message}
}

// StorageError wraps an underlying persistence failure with the operation
// that failed. It matches ErrStorageUnavailable via errors.Is.
type StorageError struct {
	Op  string // "session.save", "memory.fact", "knowledge.replace", ...
	Err error
}

// Error implements the error interface for StorageError.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage unavailable during %s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As chains.
func (e *StorageError) Unwrap() error { return e.Err }

// Is matches both the wrapped error chain and the ErrStorageUnavailable sentinel.
func (e *StorageError) Is(target error) bool { return target == ErrStorageUnavailable }

// NewStorageError wraps err as a storage failure for the given operation.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// GenerationError reports a failed or timed out generation fallback call.
// The façade substitutes a safe default reply and logs this error; it must
// never propagate to the end user.
type GenerationError struct {
	Provider string
	Err      error
}

// Error implements the error interface for GenerationError.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (provider %s): %v", e.Provider, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As chains.
func (e *GenerationError) Unwrap() error { return e.Err }

// MalformedContextError reports an embedded context payload that could not be
// parsed. Non-fatal: logged, ignored, the turn proceeds.
type MalformedContextError struct {
	Marker string
	Err    error
}

// Error implements the error interface for MalformedContextError.
func (e *MalformedContextError) Error() string {
	return fmt.Sprintf("malformed embedded context %q: %v", e.Marker, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As chains.
func (e *MalformedContextError) Unwrap() error { return e.Err }
