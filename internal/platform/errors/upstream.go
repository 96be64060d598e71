package errors

import (
	"context"
	stderrs "errors"
	"net"
)

// Upstream classification helpers for the model provider client.
// A timeout is the only failure class eligible for a same-model retry;
// everything else falls through to the next model in the roster.

// IsTimeout reports whether err represents a per-call deadline expiry,
// either our own classification or a transport-level timeout
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if IsCode(err, ErrorCodeUpstreamTimeout) {
		return true
	}
	if stderrs.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if stderrs.As(err, &ne) && ne.Timeout() {
		return true
	}
	return false
}

// Timeoutf returns an upstream timeout error
func Timeoutf(format string, a ...any) error { return Newf(ErrorCodeUpstreamTimeout, format, a...) }

// Retryable reports whether a same-model retry may succeed
func Retryable(err error) bool { return IsTimeout(err) }
