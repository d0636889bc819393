package provider

import "fmt"

// ErrorKind classifies a provider failure for the retry policy.
type ErrorKind string

const (
	// KindAuth covers rejected credentials (HTTP 401/403) and an
	// exhausted credential pool.
	KindAuth ErrorKind = "AUTH"
	// KindRateLimit covers HTTP 429.
	KindRateLimit ErrorKind = "RATE_LIMIT"
	// KindTransient covers 5xx, network failures and timeouts.
	KindTransient ErrorKind = "TRANSIENT"
	// KindUnknown covers everything else.
	KindUnknown ErrorKind = "UNKNOWN"
)

// Error is a classified provider failure. The raw detail stays inside
// the engine; user-facing layers only ever see a generic message.
type Error struct {
	Kind   ErrorKind
	Status int
	Detail string
	Cause  error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("provider %s (status %d): %s", e.Kind, e.Status, e.Detail)
	}
	return fmt.Sprintf("provider %s: %s", e.Kind, e.Detail)
}

// Unwrap returns the underlying cause error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Retriable reports whether the failure is eligible for a same-credential
// retry under the transient policy.
func (e *Error) Retriable() bool {
	return e.Kind == KindTransient
}

// Rotates reports whether the failure should advance to the next
// credential in the pool.
func (e *Error) Rotates() bool {
	return e.Kind == KindAuth || e.Kind == KindRateLimit
}

// NewError creates a classified provider error.
func NewError(kind ErrorKind, status int, detail string, cause error) *Error {
	return &Error{Kind: kind, Status: status, Detail: detail, Cause: cause}
}

// KindForStatus maps an HTTP status code to an error kind.
func KindForStatus(status int) ErrorKind {
	switch {
	case status == 401 || status == 403:
		return KindAuth
	case status == 429:
		return KindRateLimit
	case status >= 500:
		return KindTransient
	default:
		return KindUnknown
	}
}
