// Package model provides a resilient chat-completion client for the
// translation orchestrator. It depends only on the provider's messages-in,
// text-out contract and classifies failures into timeout vs everything else,
// which is the distinction the retry policy runs on
package model

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	perr "cronslate/internal/platform/errors"
	"cronslate/internal/platform/logger"
)

const (
	defaultTimeout   = 6 * time.Second
	defaultUA        = "cronslate-api"
	defaultMaxTokens = 64
)

// Completer is the seam the orchestrator consumes; tests swap in doubles
type Completer interface {
	Complete(ctx context.Context, model string, msgs []Message, temperature float64) (string, error)
}

// Options configures the Client
type Options struct {
	// BaseURL is the provider root, e.g. https://api.openai.com
	BaseURL string

	// APIKey is the bearer credential, required
	APIKey string

	UserAgent string

	// Timeout bounds a single completion call, the only bound on call duration
	Timeout time.Duration

	// MaxTokens caps the completion; a bare cron expression needs very few
	MaxTokens int
}

// Client is a minimal chat-completion client with timeout classification
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
	now  func() time.Time
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = defaultMaxTokens
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("model"),
		now:  time.Now,
	}
}

// Complete issues one chat completion call and returns the raw text of the
// first choice. Deadline expiry maps to ErrorCodeUpstreamTimeout, every other
// transport or provider failure to ErrorCodeUnavailable
func (c *Client) Complete(ctx context.Context, model string, msgs []Message, temperature float64) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:       model,
		Messages:    msgs,
		Temperature: temperature,
		MaxTokens:   c.opts.MaxTokens,
	})
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnknown, "model request encode failed")
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	url := strings.TrimRight(c.opts.BaseURL, "/") + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnknown, "model new request failed")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)

	start := c.now()
	resp, err := c.http.Do(req)
	lat := c.now().Sub(start)

	if err != nil {
		if perr.IsTimeout(err) {
			c.log.Warn().Str("model", model).Dur("latency", lat).Msg("model call timed out")
			return "", perr.Wrapf(err, perr.ErrorCodeUpstreamTimeout, "model %s timed out", model)
		}
		return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "model %s transport failed", model)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().
		Str("model", model).
		Int("status", resp.StatusCode).
		Dur("latency", lat).
		Msg("model http response")

	if resp.StatusCode != http.StatusOK {
		// read a small tail for diagnostics then classify
		tail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if resp.StatusCode == http.StatusGatewayTimeout {
			return "", perr.Timeoutf("model %s gateway timeout", model)
		}
		return "", perr.Newf(perr.ErrorCodeUnavailable,
			"model %s unexpected status %d body %s", model, resp.StatusCode, string(tail))
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "model %s response decode failed", model)
	}
	if out.Error != nil {
		return "", perr.Newf(perr.ErrorCodeUnavailable, "model %s provider error: %s", model, out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", perr.Newf(perr.ErrorCodeUnavailable, "model %s returned no choices", model)
	}
	return out.Choices[0].Message.Content, nil
}
