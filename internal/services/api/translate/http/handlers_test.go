package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	perr "cronslate/internal/platform/errors"
	pnet "cronslate/internal/platform/net"
	phttp "cronslate/internal/platform/net/http"

	"cronslate/internal/services/api/translate/domain"
	transhttp "cronslate/internal/services/api/translate/http"
)

type stubTranslator struct {
	res    domain.TranslationResult
	err    error
	caller string
}

func (s *stubTranslator) Translate(_ context.Context, callerID, _ string) (domain.TranslationResult, error) {
	s.caller = callerID
	return s.res, s.err
}

func newRouter(t *testing.T, svc *stubTranslator) http.Handler {
	t.Helper()
	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	r.Route("/translate", func(rr phttp.Router) {
		transhttp.Register(rr, svc)
	})
	return mux
}

func postJSON(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, phttp.Envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/translate/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v (body %q)", err, rec.Body.String())
	}
	return rec, env
}

func TestTranslateEndpointOK(t *testing.T) {
	h := newRouter(t,
		&stubTranslator{res: domain.TranslationResult{Cron: "0 9 * * 1-5", Model: "prime", Input: "weekdays at 9am"}},
	)

	rec, env := postJSON(t, h, `{"input":"weekdays at 9am"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
	}
	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("data shape: %#v", env.Data)
	}
	if data["cron"] != "0 9 * * 1-5" || data["model"] != "prime" {
		t.Fatalf("data = %#v", data)
	}
}

func TestTranslateEndpointRateLimited(t *testing.T) {
	deny := perr.WithDetails(perr.RateLimitedf("slow down"), map[string]any{"limit": "per_caller"})
	h := newRouter(t, &stubTranslator{err: deny})

	rec, env := postJSON(t, h, `{"input":"weekdays at 9am"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.Code != perr.ErrorCodeTooManyRequests {
		t.Fatalf("envelope code = %v", env.Code)
	}
	if env.Details["limit"] != "per_caller" {
		t.Fatalf("details = %#v", env.Details)
	}
}

func TestTranslateEndpointUntranslatable(t *testing.T) {
	fail := perr.WithDetails(perr.Translationf("could not translate"), map[string]any{"attempts": 3})
	h := newRouter(t, &stubTranslator{err: fail})

	rec, env := postJSON(t, h, `{"input":"the meaning of life"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.Code != perr.ErrorCodeTranslation {
		t.Fatalf("envelope code = %v", env.Code)
	}
}

func TestTranslateEndpointTooLong(t *testing.T) {
	h := newRouter(t, &stubTranslator{err: perr.TooLargef("input exceeds 200 characters")})

	rec, _ := postJSON(t, h, `{"input":"pretend this is very long"}`)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestTranslateEndpointPassesCallerIdentity(t *testing.T) {
	svc := &stubTranslator{res: domain.TranslationResult{Cron: "0 9 * * *"}}
	h := newRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/translate/", strings.NewReader(`{"input":"daily at nine"}`))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(pnet.WithRequest(req.Context(), "rid-1", "203.0.113.7"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if svc.caller != "203.0.113.7" {
		t.Fatalf("caller = %q", svc.caller)
	}
}

func TestTranslateEndpointRejectsBadBody(t *testing.T) {
	h := newRouter(t, &stubTranslator{})

	// missing required field
	rec, _ := postJSON(t, h, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing field status = %d", rec.Code)
	}

	// unknown field
	rec, _ = postJSON(t, h, `{"input":"x","extra":true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown field status = %d", rec.Code)
	}

	// malformed JSON
	rec, _ = postJSON(t, h, `{"input":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body status = %d", rec.Code)
	}
}
