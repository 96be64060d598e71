package model_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	perr "cronslate/internal/platform/errors"

	"cronslate/internal/adapters/model"
)

func completionBody(t *testing.T, content string) []byte {
	t.Helper()
	b, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestCompleteHappyPath(t *testing.T) {
	var gotAuth, gotPath string
	var gotReq map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_, _ = w.Write(completionBody(t, "0 9 * * 1-5"))
	}))
	defer srv.Close()

	c := model.NewClient(model.Options{BaseURL: srv.URL, APIKey: "sk-test"})
	out, err := c.Complete(context.Background(), "prime", []model.Message{
		{Role: "system", Content: "rules"},
		{Role: "user", Content: "weekdays at nine"},
	}, 0)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "0 9 * * 1-5" {
		t.Fatalf("out = %q", out)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("auth = %q", gotAuth)
	}
	if gotPath != "/v1/chat/completions" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotReq["model"] != "prime" {
		t.Fatalf("request model = %#v", gotReq["model"])
	}
	if msgs, _ := gotReq["messages"].([]any); len(msgs) != 2 {
		t.Fatalf("messages = %#v", gotReq["messages"])
	}
}

func TestCompleteGatewayTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
	}))
	defer srv.Close()

	c := model.NewClient(model.Options{BaseURL: srv.URL, APIKey: "k"})
	_, err := c.Complete(context.Background(), "prime", nil, 0)
	if !perr.IsTimeout(err) {
		t.Fatalf("expected timeout classification, got %v", err)
	}
}

func TestCompleteDeadlineIsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write(completionBody(t, "x"))
	}))
	defer srv.Close()

	c := model.NewClient(model.Options{BaseURL: srv.URL, APIKey: "k", Timeout: 50 * time.Millisecond})
	_, err := c.Complete(context.Background(), "prime", nil, 0)
	if !perr.IsTimeout(err) {
		t.Fatalf("expected timeout classification, got %v", err)
	}
	if perr.CodeOf(err) != perr.ErrorCodeUpstreamTimeout {
		t.Fatalf("code = %v", perr.CodeOf(err))
	}
}

func TestCompleteBadStatusIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "over capacity", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := model.NewClient(model.Options{BaseURL: srv.URL, APIKey: "k"})
	_, err := c.Complete(context.Background(), "prime", nil, 0)
	if perr.CodeOf(err) != perr.ErrorCodeUnavailable {
		t.Fatalf("code = %v (%v)", perr.CodeOf(err), err)
	}
}

func TestCompleteProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "invalid api key", "type": "auth"},
		})
	}))
	defer srv.Close()

	c := model.NewClient(model.Options{BaseURL: srv.URL, APIKey: "k"})
	_, err := c.Complete(context.Background(), "prime", nil, 0)
	if perr.CodeOf(err) != perr.ErrorCodeUnavailable {
		t.Fatalf("code = %v (%v)", perr.CodeOf(err), err)
	}
}

func TestCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := model.NewClient(model.Options{BaseURL: srv.URL, APIKey: "k"})
	_, err := c.Complete(context.Background(), "prime", nil, 0)
	if perr.CodeOf(err) != perr.ErrorCodeUnavailable {
		t.Fatalf("code = %v (%v)", perr.CodeOf(err), err)
	}
}
