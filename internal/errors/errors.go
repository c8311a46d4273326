package errors

import (
	"errors"
	"fmt"
)

// Common error types for the token service
var (
	// Signed token errors
	ErrSigning          = errors.New("token signing failed")
	ErrInvalidToken     = errors.New("invalid token")
	ErrMalformedToken   = errors.New("malformed token")
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrClaimMismatch    = errors.New("token claim mismatch")
	ErrWrongTokenKind   = errors.New("wrong token kind")
	ErrTokenRevoked     = errors.New("token revoked")

	// One-time token errors
	ErrNotFoundOrExpired = errors.New("one-time token not found or expired")
	ErrEmailMismatch     = errors.New("one-time token email mismatch")

	// Store errors
	ErrStoreUnavailable = errors.New("token store unavailable")
)

// Outcome is the caller-facing result classification of a token operation.
// Internal error distinctions (expired vs bad signature vs claim mismatch,
// not-found vs email mismatch) are never surfaced to external callers; they
// exist for logging only.
type Outcome string

const (
	OutcomeSuccess            Outcome = "success"
	OutcomeInvalidOrExpired   Outcome = "invalid_or_expired"
	OutcomeServiceUnavailable Outcome = "service_unavailable"
)

// CallerOutcome collapses any token-subsystem error into the small set of
// outcomes exposed at the service boundary.
func CallerOutcome(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrStoreUnavailable):
		return OutcomeServiceUnavailable
	default:
		return OutcomeInvalidOrExpired
	}
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
