// Package common defines sentinel errors shared across hashindex components.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("store unavailable")

	// Input errors (bad directory, conflicting CLI modes).
	ErrValidation = errors.New("validation error")

	// ErrPartialFailure marks a batch operation that finished but collected
	// one or more per-item failures. The items themselves are in the report.
	ErrPartialFailure = errors.New("completed with failures")
)
