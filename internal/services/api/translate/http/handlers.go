// Package http provides http transport for translate
package http

import (
	stdhttp "net/http"

	"cronslate/internal/modkit/httpkit"
	pnet "cronslate/internal/platform/net"

	"cronslate/internal/services/api/translate/domain"
	svc "cronslate/internal/services/api/translate/service"
)

// Register mounts translate endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// free text in, cron expression out
	httpkit.PostJSON[domain.TranslateInput](r, "/", h.translate)
}

type handlers struct {
	svc svc.Service
}

// swagger:route POST /translate Translate translatePhrase
// @Summary Translate a scheduling phrase into a cron expression
// @Tags Translate
// @Accept json
// @Produce json
// @Param payload body domain.TranslateInput true "Phrase"
// @Success 200 {object} domain.TranslationResult "ok"
// @Failure 400 {object} httpkit.Envelope "untranslatable or invalid input"
// @Failure 413 {object} httpkit.Envelope "input too long"
// @Failure 429 {object} httpkit.Envelope "rate limited"
// @Router /translate [post]
func (h *handlers) translate(r *stdhttp.Request, in domain.TranslateInput) (any, error) {
	ctx := r.Context()
	return h.svc.Translate(ctx, pnet.CallerID(ctx), in.Input)
}
