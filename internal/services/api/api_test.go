package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"cronslate/internal/adapters/model"
	"cronslate/internal/platform/config"
	"cronslate/internal/platform/logger"
	phttp "cronslate/internal/platform/net/http"
	"cronslate/internal/platform/store"

	"cronslate/internal/modkit/module"
	"cronslate/internal/services/api"
)

type fixedCompleter struct{ out string }

func (f fixedCompleter) Complete(context.Context, string, []model.Message, float64) (string, error) {
	return f.out, nil
}

func mountTestAPI(t *testing.T, comp model.Completer) http.Handler {
	t.Helper()
	module.Reset()
	t.Cleanup(module.Reset)

	mux := chi.NewRouter()
	api.Mount(phttp.AdaptChi(mux), api.Options{
		Config:    config.New().Prefix("CRONSLATE_TEST_"),
		Store:     &store.Store{KV: store.NewMemKV()},
		Logger:    logger.Get(),
		Completer: comp,
	})
	return mux
}

func doTranslate(t *testing.T, h http.Handler, caller, input string) (*httptest.ResponseRecorder, phttp.Envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/translate", strings.NewReader(`{"input":"`+input+`"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Real-IP", caller)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v (body %q)", err, rec.Body.String())
	}
	return rec, env
}

func TestTranslateEndToEnd(t *testing.T) {
	h := mountTestAPI(t, fixedCompleter{out: "0 9 * * 1-5"})

	rec, env := doTranslate(t, h, "203.0.113.9", "weekdays at nine")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
	}
	data, _ := env.Data.(map[string]any)
	if data["cron"] != "0 9 * * 1-5" {
		t.Fatalf("data = %#v", data)
	}

	// hardening headers ride on the API response
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing security headers")
	}
	if env.RequestID == "" {
		t.Fatalf("missing request id")
	}
}

func TestTranslateBurstLimitEndToEnd(t *testing.T) {
	h := mountTestAPI(t, fixedCompleter{out: "0 9 * * *"})

	// default burst cap is 2 per caller; vary the input to dodge the cache
	inputs := []string{"daily at nine", "daily at ten", "daily at eleven"}
	var last *httptest.ResponseRecorder
	var lastEnv phttp.Envelope
	for _, in := range inputs {
		last, lastEnv = doTranslate(t, h, "198.51.100.7", in)
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("third rapid request = %d, want 429", last.Code)
	}
	if lastEnv.Details["limit"] != "burst" {
		t.Fatalf("details = %#v", lastEnv.Details)
	}

	// hardening headers ride on the denial too
	if last.Header().Get("X-Frame-Options") != "DENY" {
		t.Fatalf("missing security headers on 429")
	}
}

func TestRejectedInputSpendsNoQuota(t *testing.T) {
	h := mountTestAPI(t, fixedCompleter{out: "0 9 * * *"})

	rec, _ := doTranslate(t, h, "203.0.113.44", strings.Repeat("a", 500))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("long input = %d, want 413", rec.Code)
	}

	// the rejection happened before admission, so the daily budget is intact
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("health unmarshal: %v", err)
	}
	data, _ := env.Data.(map[string]any)
	rl, _ := data["rateLimit"].(map[string]any)
	daily, _ := rl["daily"].(map[string]any)
	if used, _ := daily["used"].(float64); used != 0 {
		t.Fatalf("daily used after a 413 = %v, want 0", used)
	}
}

func TestHealthAliasAndAPIPath(t *testing.T) {
	h := mountTestAPI(t, fixedCompleter{out: "0 9 * * *"})

	for _, path := range []string{"/health", "/api/health"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s = %d", path, rec.Code)
		}
		var env phttp.Envelope
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s unmarshal: %v", path, err)
		}
		data, _ := env.Data.(map[string]any)
		if _, ok := data["rateLimit"]; !ok {
			t.Fatalf("%s missing rateLimit: %#v", path, data)
		}
	}
}

func TestLandingAndDoc(t *testing.T) {
	h := mountTestAPI(t, fixedCompleter{out: "0 9 * * *"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "cronslate") {
		t.Fatalf("landing: %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/doc", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("doc: %d", rec.Code)
	}
	var doc map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("doc is not JSON: %v", err)
	}
	if doc["openapi"] != "3.0.3" {
		t.Fatalf("doc shape: %#v", doc["openapi"])
	}
}

func TestCacheServesRepeatPhrases(t *testing.T) {
	h := mountTestAPI(t, fixedCompleter{out: "0 9 * * 1-5"})

	// use distinct callers so quota never interferes
	if rec, _ := doTranslate(t, h, "203.0.113.1", "weekdays at nine"); rec.Code != http.StatusOK {
		t.Fatalf("first = %d", rec.Code)
	}
	rec, env := doTranslate(t, h, "203.0.113.2", "Weekdays   At NINE")
	if rec.Code != http.StatusOK {
		t.Fatalf("second = %d", rec.Code)
	}
	data, _ := env.Data.(map[string]any)
	if data["cron"] != "0 9 * * 1-5" {
		t.Fatalf("data = %#v", data)
	}
}
