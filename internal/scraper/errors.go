package scraper

import (
	"errors"
	"fmt"

	"ReviewHound/internal/domain"
)

// Kind classifies a source-scoped failure. These are expected conditions:
// they are recorded, never crashed on.
type Kind string

const (
	// KindUnreachable covers network errors, timeouts, and non-success
	// HTTP statuses other than 429.
	KindUnreachable Kind = "unreachable"
	// KindRateLimited marks an explicit throttle response from the site.
	KindRateLimited Kind = "rate_limited"
	// KindParseFailure marks markup the adapter could fetch but not read.
	KindParseFailure Kind = "parse_failure"
	// KindMalformed marks a locator or payload that violates the adapter's
	// own expectations before any page was read.
	KindMalformed Kind = "malformed"
)

// Error is the only error type an adapter lets past its Scrape boundary.
type Error struct {
	Source domain.Source
	Kind   Kind
	cause  error
}

// NewError wraps cause as a scoped adapter failure.
func NewError(source domain.Source, kind Kind, cause error) *Error {
	return &Error{Source: source, Kind: kind, cause: cause}
}

// Errorf builds a scoped adapter failure from a format string.
func Errorf(source domain.Source, kind Kind, format string, args ...any) *Error {
	return &Error{Source: source, Kind: kind, cause: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// IsKind reports whether err is an adapter error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

// Retryable reports whether a failed page fetch is worth another attempt.
// Parse failures and malformed input never heal on retry.
func Retryable(err error) bool {
	var ae *Error
	if !errors.As(err, &ae) {
		return true
	}
	return ae.Kind == KindUnreachable || ae.Kind == KindRateLimited
}
