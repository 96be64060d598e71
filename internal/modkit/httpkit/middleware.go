package httpkit

import (
	"net/http"
	"time"

	"cronslate/internal/platform/config"
	"cronslate/internal/platform/net/middleware"
)

// CommonStack returns the baseline middleware slice for the API surface
// order matters: identity and safety first, then response hygiene
func CommonStack(cfg config.Conf) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		// tracing / correlation
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.CallerID(middleware.CallerIDOptions{
			TrustedHeader: cfg.MayString("TRUSTED_CALLER_HEADER", "X-Real-IP"),
		}),

		// safety
		middleware.RecoverJSON,

		// response hygiene, stamped on every response including errors
		middleware.SecurityHeaders,
		middleware.NoCache(),

		// observability
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: 2 * time.Second}),

		// cross-origin
		middleware.CORS(middleware.CORSOptions{
			AllowedOrigins: cfg.MayCSV("CORS_ORIGINS", []string{"*"}),
		}),
		middleware.RedirectSlashes(),
		middleware.StripSlashes(),
		middleware.Timeout(30 * time.Second),
	}
}
