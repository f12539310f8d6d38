package provider

import "errors"

// Sentinel errors for provider operations.
var (
	// ErrUpstreamDown indicates the backend is unreachable or returned a
	// server-side failure.
	ErrUpstreamDown = errors.New("upstream unavailable")

	// ErrRateLimit indicates the backend returned a rate limit response.
	ErrRateLimit = errors.New("upstream rate limited")

	// ErrAuthentication indicates the backend rejected the credentials.
	ErrAuthentication = errors.New("upstream authentication failed")

	// ErrEmptyReply indicates the backend answered successfully but
	// produced no usable content.
	ErrEmptyReply = errors.New("upstream returned empty reply")
)

// IsRetryable reports whether the error is transient and the request can
// be retried after a delay.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimit) || errors.Is(err, ErrUpstreamDown)
}
