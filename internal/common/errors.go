// Package common defines shared constants and sentinel errors used across
// the sync, quota and selection layers. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Cache-level errors. A schema-version mismatch also reads as
	// ErrorNotFound; staleness is never a crash.
	ErrorNotFound = errors.New("not found")

	// Remote-level errors. Unavailable covers transient failures worth a
	// retry; Rejected covers client errors that retrying cannot fix.
	ErrorRemoteUnavailable = errors.New("remote unavailable")
	ErrorRemoteRejected    = errors.New("remote rejected request")

	// Session errors. Owner-scoped reads and all quota checks fail closed
	// when no authenticated owner is present.
	ErrorNoSession      = errors.New("no authenticated owner")
	ErrInvalidToken     = errors.New("invalid token")
	ErrorQuotaExhausted = errors.New("daily quota exhausted")

	// Validation / selection errors.
	ErrorValidation    = errors.New("validation error")
	ErrorFaceLimit     = errors.New("custom face limit reached")
	ErrorEmptyCategory = errors.New("category has no active faces")
)
