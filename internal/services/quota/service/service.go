// Package service implements the quota tracker: a global daily spend cap,
// a per-caller sliding window, and a burst guard, checked in that order so
// an exhausted day always answers with the daily discriminator. Store
// trouble never blocks a caller; admission fails open and the error is
// logged
package service

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	perr "cronslate/internal/platform/errors"
	"cronslate/internal/platform/logger"

	"cronslate/internal/modkit"
	"cronslate/internal/modkit/repokit"
	dom "cronslate/internal/services/quota/domain"
	qrepo "cronslate/internal/services/quota/repo"
)

// Service implements both quota ports
type Service interface {
	dom.AdmitterPort
	dom.UsagePort
}

// Config controls the tracker limits
type Config struct {
	DailyLimit    int
	PerCallerMax  int
	Window        time.Duration
	BurstMax      int
	BurstWindow   time.Duration
	FlushDebounce time.Duration
	DailyTTL      time.Duration
}

// Svc implements the quota tracker
type Svc struct {
	binder repokit.Binder[qrepo.Repo]
	repo   qrepo.Repo
	cfg    Config
	log    logger.Logger
	now    func() time.Time

	// daily counter: the in-memory view is authoritative between flushes
	dmu       sync.Mutex
	day       string
	base      int64 // store-confirmed count for day
	pending   int64 // local admissions not yet flushed
	lastFlush time.Time

	// per-caller burst limiters, pruned wholesale when the map grows large
	bmu   sync.Mutex
	burst map[string]*rate.Limiter
}

const burstMapCap = 10_000

// New constructs the tracker bound to the deps store
func New(deps modkit.Deps, cfg Config) *Svc {
	if cfg.DailyLimit <= 0 {
		cfg.DailyLimit = 30
	}
	if cfg.PerCallerMax <= 0 {
		cfg.PerCallerMax = 3
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Hour
	}
	if cfg.BurstMax <= 0 {
		cfg.BurstMax = 2
	}
	if cfg.BurstWindow <= 0 {
		cfg.BurstWindow = time.Minute
	}
	if cfg.FlushDebounce <= 0 {
		cfg.FlushDebounce = 2 * time.Second
	}
	if cfg.DailyTTL <= 0 {
		cfg.DailyTTL = 48 * time.Hour
	}
	b := qrepo.NewKV()
	return &Svc{
		binder: b,
		repo:   b.Bind(deps.KV),
		cfg:    cfg,
		log:    *logger.Named("quota"),
		now:    time.Now,
		burst:  map[string]*rate.Limiter{},
	}
}

// Admit runs the three gates and, when all pass, records the spend.
// Denials are rate-limit errors whose details name the limit that fired
// and carry the current usage snapshot
func (s *Svc) Admit(ctx context.Context, callerID string) error {
	if callerID == "" {
		callerID = "unknown"
	}
	now := s.now()

	// gate 1: global daily cap; the in-memory view answers between flushes
	daily := s.dailyView(ctx, now)
	if daily.Used >= daily.Limit {
		return s.deny(ctx, dom.DenyDaily, "daily translation budget exhausted")
	}

	// gate 2: per-caller sliding window
	stamps, err := s.repo.CallerStamps(ctx, callerID)
	if err != nil {
		s.log.Warn().Err(err).Str("caller", callerID).Msg("caller window read failed, admitting")
		stamps = nil
	}
	cutoff := now.Add(-s.cfg.Window).UnixMilli()
	live := stamps[:0]
	for _, ts := range stamps {
		if ts > cutoff {
			live = append(live, ts)
		}
	}
	if len(live) >= s.cfg.PerCallerMax {
		return s.deny(ctx, dom.DenyPerCaller, "caller %s exhausted %d requests per window", callerID, s.cfg.PerCallerMax)
	}

	// gate 3: burst guard, purely in process. Last on purpose: Allow only
	// spends a token when it admits, so a denial never burns burst budget
	if !s.limiterFor(callerID).Allow() {
		return s.deny(ctx, dom.DenyBurst, "caller %s exceeded burst window", callerID)
	}

	// admitted: record the spend
	live = append(live, now.UnixMilli())
	if err := s.repo.PutCallerStamps(ctx, callerID, live, s.cfg.Window); err != nil {
		s.log.Warn().Err(err).Str("caller", callerID).Msg("caller window write failed")
	}
	s.bumpDaily(ctx, now)
	return nil
}

// Usage reports the current quota snapshot without recording spend
func (s *Svc) Usage(ctx context.Context) dom.Usage {
	daily := s.dailyView(ctx, s.now())
	return dom.Usage{
		PerUser: dom.PerCallerUsage{
			Max:      s.cfg.PerCallerMax,
			WindowMs: s.cfg.Window.Milliseconds(),
		},
		Daily: daily,
	}
}

// Close flushes any pending daily increments
func (s *Svc) Close(ctx context.Context) error {
	s.dmu.Lock()
	defer s.dmu.Unlock()
	return s.flushLocked(ctx, true)
}

func (s *Svc) deny(ctx context.Context, kind dom.DenyKind, format string, a ...any) error {
	err := perr.RateLimitedf(format, a...)
	return perr.WithDetails(err, map[string]any{
		"limit": string(kind),
		"usage": s.Usage(ctx),
	})
}

func (s *Svc) limiterFor(callerID string) *rate.Limiter {
	s.bmu.Lock()
	defer s.bmu.Unlock()
	if len(s.burst) > burstMapCap {
		s.burst = map[string]*rate.Limiter{}
	}
	lim, ok := s.burst[callerID]
	if !ok {
		lim = rate.NewLimiter(rate.Every(s.cfg.BurstWindow/time.Duration(s.cfg.BurstMax)), s.cfg.BurstMax)
		s.burst[callerID] = lim
	}
	return lim
}

// dailyView returns today's counter, lazily syncing from the store on the
// first touch of each calendar day
func (s *Svc) dailyView(ctx context.Context, now time.Time) dom.DailyUsage {
	date := now.UTC().Format("2006-01-02")

	s.dmu.Lock()
	defer s.dmu.Unlock()

	if s.day != date {
		// flush the old day before the view rolls over
		if err := s.flushLocked(ctx, true); err != nil {
			s.log.Warn().Err(err).Str("day", s.day).Msg("daily flush on rollover failed")
		}
		s.day = date
		s.pending = 0
		n, err := s.repo.AddDaily(ctx, date, 0, s.cfg.DailyTTL)
		if err != nil {
			s.log.Warn().Err(err).Str("day", date).Msg("daily counter read failed, assuming zero")
			n = 0
		}
		s.base = n
	}

	used := int(s.base + s.pending)
	rem := s.cfg.DailyLimit - used
	if rem < 0 {
		rem = 0
	}
	return dom.DailyUsage{
		Limit:     s.cfg.DailyLimit,
		Used:      used,
		Remaining: rem,
		Date:      date,
	}
}

func (s *Svc) bumpDaily(ctx context.Context, now time.Time) {
	s.dmu.Lock()
	defer s.dmu.Unlock()
	s.pending++
	if now.Sub(s.lastFlush) >= s.cfg.FlushDebounce {
		if err := s.flushLocked(ctx, false); err != nil {
			s.log.Warn().Err(err).Msg("daily counter flush failed, retrying on next admit")
		}
	}
}

// flushLocked pushes pending increments to the store; callers hold dmu.
// force flushes even inside the debounce interval
func (s *Svc) flushLocked(ctx context.Context, force bool) error {
	if s.pending == 0 {
		return nil
	}
	if !force && s.now().Sub(s.lastFlush) < s.cfg.FlushDebounce {
		return nil
	}
	n, err := s.repo.AddDaily(ctx, s.day, s.pending, s.cfg.DailyTTL)
	if err != nil {
		return err
	}
	// the store total folds in increments from other processes
	s.base = n
	s.pending = 0
	s.lastFlush = s.now()
	return nil
}
