// Package common defines shared constants and sentinel errors used across
// client and server layers of cvkeeper. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Stored or received payload does not fit the document schema.
	// Treated as absence of data, never as a fatal error.
	ErrValidation = errors.New("validation error")

	// Remote store could not be reached or answered with a server error.
	// Distinct from "no document exists"; retryable on the next user action.
	ErrStoreUnavailable = errors.New("store unavailable")

	// Sync-engine flow control.
	ErrSignInRequired   = errors.New("sign in required")
	ErrConflictPending  = errors.New("conflict pending")
	ErrNoConflict       = errors.New("no conflict to resolve")
	ErrMergeUnsupported = errors.New("merge resolution is not implemented")

	// Auth errors.
	ErrInvalidToken = errors.New("invalid token")
)
