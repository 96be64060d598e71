package middleware

import (
	"net/http"
	"strings"

	cnet "cronslate/internal/platform/net"
	"cronslate/internal/platform/logger"
)

// CallerIDOptions configures caller identity derivation
type CallerIDOptions struct {
	// TrustedHeader is consulted first, typically set by the fronting proxy
	TrustedHeader string
}

// CallerID derives the quota bucket identity for the request and stores it on
// the context. Order: trusted proxy header, first hop of X-Forwarded-For, then
// the shared "unknown" bucket. Anonymous callers deliberately share one bucket
func CallerID(opt CallerIDOptions) func(http.Handler) http.Handler {
	trusted := opt.TrustedHeader
	if trusted == "" {
		trusted = "X-Real-IP"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(trusted))
			if id == "" {
				if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
					id = strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
				}
			}
			if id == "" {
				id = "unknown"
			}
			ctx := cnet.WithCaller(r.Context(), id)
			ctx = logger.WithRequest(ctx, cnet.RequestID(ctx), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
