// Package service implements the translation orchestrator: normalize, admit
// against quota, check the cache, then walk the model roster under the retry
// policy until one attempt yields a cron expression that survives validation
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"cronslate/internal/adapters/model"
	"cronslate/internal/core/cronspec"
	"cronslate/internal/core/normalize"
	perr "cronslate/internal/platform/errors"
	"cronslate/internal/platform/logger"

	"cronslate/internal/modkit"
	"cronslate/internal/modkit/repokit"
	"cronslate/internal/services/api/translate/domain"
	trepo "cronslate/internal/services/api/translate/repo"
	qdom "cronslate/internal/services/quota/domain"
)

// Service is the translate port implementation
type Service interface {
	domain.TranslatorPort
}

// Config controls the orchestrator
type Config struct {
	// Primary and Backup name the model roster in order
	Primary string
	Backup  string

	// RetryBackoff sleeps between the primary attempt and its timeout retry
	RetryBackoff time.Duration

	// RetryTemperature nudges the timeout retry off the deterministic path
	RetryTemperature float64

	CacheTTL     time.Duration
	CacheVersion int
}

// Svc implements the translation orchestrator
type Svc struct {
	binder    repokit.Binder[trepo.Repo]
	repo      trepo.Repo
	completer model.Completer
	admit     qdom.AdmitterPort
	cfg       Config
	log       logger.Logger

	// seams for tests
	sleep func(ctx context.Context, d time.Duration) error
	putFn func(fn func()) // cache writes run through here, async in production
}

// New constructs the orchestrator bound to the deps store, a completer and
// the quota admitter
func New(deps modkit.Deps, completer model.Completer, admit qdom.AdmitterPort, cfg Config) *Svc {
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 250 * time.Millisecond
	}
	if cfg.RetryTemperature <= 0 {
		cfg.RetryTemperature = 0.3
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 21 * 24 * time.Hour
	}
	if cfg.CacheVersion <= 0 {
		cfg.CacheVersion = 1
	}
	b := trepo.NewKV()
	return &Svc{
		binder:    b,
		repo:      b.Bind(deps.KV),
		completer: completer,
		admit:     admit,
		cfg:       cfg,
		log:       *logger.Named("translate"),
		sleep:     sleepCtx,
		putFn:     func(fn func()) { go fn() },
	}
}

// Translate normalizes the phrase, admits it against quota, serves from
// cache when possible, and otherwise drives the model roster. Errors carry
// codes the transport maps to status directly
func (s *Svc) Translate(ctx context.Context, callerID, raw string) (domain.TranslationResult, error) {
	in, err := normalize.Normalize(raw)
	if err != nil {
		switch {
		case errors.Is(err, normalize.ErrEmpty):
			return domain.TranslationResult{}, perr.Validationf("input is empty")
		case errors.Is(err, normalize.ErrTooLong):
			return domain.TranslationResult{}, perr.TooLargef("input exceeds %d characters", normalize.MaxLen)
		default:
			return domain.TranslationResult{}, perr.Wrapf(err, perr.ErrorCodeValidation, "input rejected")
		}
	}

	// quota comes after normalization: locally rejected input spends nothing
	if err := s.admit.Admit(ctx, callerID); err != nil {
		return domain.TranslationResult{}, err
	}

	key := s.cacheKey(in)
	if res, ok, err := s.repo.GetResult(ctx, key); err != nil {
		s.log.Warn().Err(err).Msg("cache read failed, translating")
	} else if ok {
		s.log.Debug().Str("model", res.Model).Msg("cache hit")
		return res, nil
	}

	res, err := s.orchestrate(ctx, in)
	if err != nil {
		return domain.TranslationResult{}, err
	}

	// fire and forget; a failed write only costs a future cache miss
	s.putFn(func() {
		pctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.repo.PutResult(pctx, key, res, s.cfg.CacheTTL); err != nil {
			s.log.Warn().Err(err).Msg("cache write failed")
		}
	})
	return res, nil
}

// attempt is one roster step: which model, at what temperature, and whether a
// timeout may be retried in place
type attempt struct {
	model       string
	temperature float64
	retryOnTime bool
}

// orchestrate walks the roster: primary at temperature zero with one
// timeout-only retry at the nudged temperature, then the backup exactly once.
// Validation failures and non-timeout transport failures skip straight to the
// next model
func (s *Svc) orchestrate(ctx context.Context, in string) (domain.TranslationResult, error) {
	trace := uuid.NewString()
	msgs := messagesFor(in)

	plan := []attempt{
		{model: s.cfg.Primary, temperature: 0, retryOnTime: true},
		{model: s.cfg.Backup, temperature: 0},
	}

	var (
		attempts int
		lastErr  error
	)
	for _, a := range plan {
		if a.model == "" {
			continue
		}

		attempts++
		cron, err := s.tryOnce(ctx, a.model, msgs, a.temperature, trace, attempts)
		if err == nil {
			return domain.TranslationResult{Cron: cron, Model: a.model, Input: in}, nil
		}
		lastErr = err

		if a.retryOnTime && perr.IsTimeout(err) {
			if serr := s.sleep(ctx, s.cfg.RetryBackoff); serr != nil {
				lastErr = perr.Wrapf(serr, perr.ErrorCodeUpstreamTimeout, "backoff interrupted")
				break
			}
			attempts++
			cron, err = s.tryOnce(ctx, a.model, msgs, s.cfg.RetryTemperature, trace, attempts)
			if err == nil {
				return domain.TranslationResult{Cron: cron, Model: a.model, Input: in}, nil
			}
			lastErr = err
		}
	}

	terr := perr.Translationf("could not translate phrase to a cron expression")
	return domain.TranslationResult{}, perr.WithDetails(terr, map[string]any{
		"attempts":   attempts,
		"last_error": lastMessage(lastErr),
		"trace_id":   trace,
	})
}

// tryOnce issues one completion and validates its output
func (s *Svc) tryOnce(
	ctx context.Context, mdl string, msgs []model.Message, temp float64, trace string, n int,
) (string, error) {
	out, err := s.completer.Complete(ctx, mdl, msgs, temp)
	if err != nil {
		s.log.Warn().Err(err).Str("trace", trace).Str("model", mdl).Int("attempt", n).Msg("model call failed")
		return "", err
	}

	cron := strings.TrimSpace(out)
	if err := cronspec.Validate(cron); err != nil {
		s.log.Info().Str("trace", trace).Str("model", mdl).Int("attempt", n).
			Str("output", clip(cron, 120)).Err(err).Msg("model output rejected")
		if errors.Is(err, cronspec.ErrDeclined) {
			return "", perr.Wrapf(err, perr.ErrorCodeTranslation, "model %s declined the phrase", mdl)
		}
		return "", perr.Wrapf(err, perr.ErrorCodeTranslation, "model %s produced an invalid expression", mdl)
	}

	s.log.Debug().Str("trace", trace).Str("model", mdl).Int("attempt", n).Str("cron", cron).Msg("translation ok")
	return cron, nil
}

func (s *Svc) cacheKey(in string) string {
	sum := sha256.Sum256([]byte(in))
	return fmt.Sprintf("cache:v%d:%s", s.cfg.CacheVersion, hex.EncodeToString(sum[:]))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func lastMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
