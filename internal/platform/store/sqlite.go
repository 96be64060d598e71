package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"cronslate/internal/platform/logger"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	k          TEXT PRIMARY KEY,
	v          TEXT NOT NULL,
	expires_at INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS counters (
	k          TEXT PRIMARY KEY,
	n          INTEGER NOT NULL DEFAULT 0,
	expires_at INTEGER NOT NULL DEFAULT 0
);
`

type sqliteKV struct {
	db  *sql.DB
	log logger.Logger

	opCount    atomic.Uint64
	pruneEvery uint64

	now func() time.Time
}

func openSQLite(ctx context.Context, cfg Config, log logger.Logger) (KV, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if cfg.BusyTimeout > 0 {
		ms := cfg.BusyTimeout.Milliseconds()
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", ms))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	st := &sqliteKV{db: db, log: log, pruneEvery: 500, now: time.Now}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

func (s *sqliteKV) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	var exp int64
	err := s.db.QueryRowContext(ctx, `SELECT v, expires_at FROM kv WHERE k = ?`, key).Scan(&v, &exp)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if exp > 0 && exp <= s.now().UnixMilli() {
		return "", false, nil
	}
	return v, true, nil
}

func (s *sqliteKV) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	exp := int64(0)
	if ttl > 0 {
		exp = s.now().Add(ttl).UnixMilli()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv(k, v, expires_at) VALUES(?,?,?)
		 ON CONFLICT(k) DO UPDATE SET v=excluded.v, expires_at=excluded.expires_at`,
		key, value, exp,
	)
	s.maybePrune(err)
	return err
}

func (s *sqliteKV) Add(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error) {
	nowMs := s.now().UnixMilli()
	exp := int64(0)
	if ttl > 0 {
		exp = s.now().Add(ttl).UnixMilli()
	}
	// expired counters restart from the delta; the TTL set on first write sticks
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO counters(k, n, expires_at) VALUES(?,?,?)
		 ON CONFLICT(k) DO UPDATE SET
			n = CASE WHEN counters.expires_at > 0 AND counters.expires_at <= ? THEN excluded.n ELSE counters.n + excluded.n END,
			expires_at = CASE WHEN counters.expires_at > 0 AND counters.expires_at <= ? THEN excluded.expires_at ELSE counters.expires_at END`,
		key, delta, exp, nowMs, nowMs,
	)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT n FROM counters WHERE k = ?`, key).Scan(&n); err != nil {
		return 0, err
	}
	s.maybePrune(nil)
	return n, nil
}

func (s *sqliteKV) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE k = ?`, key)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM counters WHERE k = ?`, key)
	return err
}

func (s *sqliteKV) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *sqliteKV) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// maybePrune opportunistically removes expired rows every pruneEvery writes
func (s *sqliteKV) maybePrune(writeErr error) {
	if writeErr != nil {
		return
	}
	if s.opCount.Add(1)%s.pruneEvery != 0 {
		return
	}
	pctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	nowMs := s.now().UnixMilli()
	if _, err := s.db.ExecContext(pctx, `DELETE FROM kv WHERE expires_at > 0 AND expires_at <= ?`, nowMs); err != nil {
		s.log.Debug().Err(err).Msg("kv prune failed")
	}
	if _, err := s.db.ExecContext(pctx, `DELETE FROM counters WHERE expires_at > 0 AND expires_at <= ?`, nowMs); err != nil {
		s.log.Debug().Err(err).Msg("counter prune failed")
	}
}
