package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	cnet "cronslate/internal/platform/net"
	"cronslate/internal/platform/net/middleware"
)

func callerSeen(t *testing.T, opt middleware.CallerIDOptions, decorate func(*http.Request)) string {
	t.Helper()
	var got string
	h := middleware.CallerID(opt)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = cnet.CallerID(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if decorate != nil {
		decorate(req)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestCallerIDTrustedHeaderWins(t *testing.T) {
	got := callerSeen(t, middleware.CallerIDOptions{}, func(r *http.Request) {
		r.Header.Set("X-Real-IP", "203.0.113.9")
		r.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
	})
	if got != "203.0.113.9" {
		t.Fatalf("caller = %q", got)
	}
}

func TestCallerIDForwardedForFirstHop(t *testing.T) {
	got := callerSeen(t, middleware.CallerIDOptions{}, func(r *http.Request) {
		r.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
	})
	if got != "198.51.100.1" {
		t.Fatalf("caller = %q", got)
	}
}

func TestCallerIDFallsBackToSharedBucket(t *testing.T) {
	if got := callerSeen(t, middleware.CallerIDOptions{}, nil); got != "unknown" {
		t.Fatalf("caller = %q", got)
	}
}

func TestCallerIDCustomTrustedHeader(t *testing.T) {
	got := callerSeen(t, middleware.CallerIDOptions{TrustedHeader: "CF-Connecting-IP"}, func(r *http.Request) {
		r.Header.Set("CF-Connecting-IP", "192.0.2.7")
		r.Header.Set("X-Real-IP", "203.0.113.9")
	})
	if got != "192.0.2.7" {
		t.Fatalf("caller = %q", got)
	}
}
