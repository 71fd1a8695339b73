// Package service implements the back-office operations on top of the
// storage layer: statement reconciliation, scheduled-charge posting, and
// security-deposit handling.
package service

import "fmt"

// The service error taxonomy. Each type maps to a distinct client-visible
// HTTP status; handlers translate with errors.As and surface the message
// verbatim. Callers never retry automatically.

// ValidationError means the input was malformed (unparseable CSV, missing
// required field, out-of-range value). Maps to 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError means a referenced id does not exist. Maps to 404.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// ConflictError means the operation violates the entity's current state,
// e.g. matching an already-matched line. Maps to 409.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// PreconditionError means a gating condition is not met, e.g. finalizing
// with unresolved lines. Maps to 412.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string { return e.Message }

func validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func conflictf(format string, args ...any) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}
