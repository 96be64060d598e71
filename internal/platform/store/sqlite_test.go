package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"cronslate/internal/platform/logger"
)

func openTestKV(t *testing.T) (*sqliteKV, *time.Time) {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")
	kv, err := openSQLite(ctx, Config{Path: path, BusyTimeout: time.Second}, *logger.Named("store-test"))
	if err != nil {
		t.Fatalf("openSQLite: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })

	s := kv.(*sqliteKV)
	now := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestSQLitePutGetRoundTrip(t *testing.T) {
	s, _ := openTestKV(t)
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}
	if err := s.Put(ctx, "k", "v1", 0); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "k", "v2", 0); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || got != "v2" {
		t.Fatalf("Get = (%q, %v, %v)", got, ok, err)
	}
}

func TestSQLiteTTLExpiry(t *testing.T) {
	s, now := openTestKV(t)
	ctx := context.Background()

	if err := s.Put(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); !ok {
		t.Fatalf("expected hit before expiry")
	}
	*now = now.Add(2 * time.Minute)
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatalf("expected miss after expiry")
	}
}

func TestSQLiteCounters(t *testing.T) {
	s, now := openTestKV(t)
	ctx := context.Background()

	n, err := s.Add(ctx, "c", 1, time.Hour)
	if err != nil || n != 1 {
		t.Fatalf("Add = (%d, %v)", n, err)
	}
	n, _ = s.Add(ctx, "c", 4, time.Hour)
	if n != 5 {
		t.Fatalf("accumulate = %d, want 5", n)
	}
	n, _ = s.Add(ctx, "c", 0, time.Hour)
	if n != 5 {
		t.Fatalf("zero-delta read = %d, want 5", n)
	}

	// expired counters restart from the delta
	*now = now.Add(2 * time.Hour)
	n, _ = s.Add(ctx, "c", 2, time.Hour)
	if n != 2 {
		t.Fatalf("restart = %d, want 2", n)
	}
}

func TestSQLiteDelete(t *testing.T) {
	s, _ := openTestKV(t)
	ctx := context.Background()

	_ = s.Put(ctx, "k", "v", 0)
	_, _ = s.Add(ctx, "k", 3, 0)
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatalf("value survived delete")
	}
	if n, _ := s.Add(ctx, "k", 0, 0); n != 0 {
		t.Fatalf("counter survived delete: %d", n)
	}
}

func TestSQLitePrune(t *testing.T) {
	s, now := openTestKV(t)
	s.pruneEvery = 2
	ctx := context.Background()

	_ = s.Put(ctx, "old", "v", time.Minute)
	*now = now.Add(time.Hour)

	// two more writes trip the prune pass
	_ = s.Put(ctx, "a", "v", 0)
	_ = s.Put(ctx, "b", "v", 0)

	var rows int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM kv WHERE k = 'old'`).Scan(&rows); err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expired row survived prune")
	}
}
