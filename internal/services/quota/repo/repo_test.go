package repo_test

import (
	"context"
	"testing"
	"time"

	"cronslate/internal/platform/store"

	"cronslate/internal/services/quota/repo"
)

func TestCallerStampsRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemKV()
	r := repo.NewKV().Bind(kv)

	if stamps, err := r.CallerStamps(ctx, "1.2.3.4"); err != nil || stamps != nil {
		t.Fatalf("empty read = (%v, %v)", stamps, err)
	}

	in := []int64{1000, 2000, 3000}
	if err := r.PutCallerStamps(ctx, "1.2.3.4", in, time.Hour); err != nil {
		t.Fatalf("Put: %v", err)
	}
	out, err := r.CallerStamps(ctx, "1.2.3.4")
	if err != nil || len(out) != 3 || out[2] != 3000 {
		t.Fatalf("round trip = (%v, %v)", out, err)
	}

	// callers do not share windows
	if other, _ := r.CallerStamps(ctx, "5.6.7.8"); other != nil {
		t.Fatalf("window leaked across callers: %v", other)
	}
}

func TestCallerStampsCorruptRowResets(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemKV()
	r := repo.NewKV().Bind(kv)

	_ = kv.Put(ctx, "quota:caller:bad", "not json", time.Hour)
	stamps, err := r.CallerStamps(ctx, "bad")
	if err != nil || stamps != nil {
		t.Fatalf("corrupt row should read as empty, got (%v, %v)", stamps, err)
	}
}

func TestAddDaily(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemKV()
	r := repo.NewKV().Bind(kv)

	n, err := r.AddDaily(ctx, "2026-08-29", 1, 48*time.Hour)
	if err != nil || n != 1 {
		t.Fatalf("AddDaily = (%d, %v)", n, err)
	}
	n, _ = r.AddDaily(ctx, "2026-08-29", 2, 48*time.Hour)
	if n != 3 {
		t.Fatalf("accumulate = %d", n)
	}

	// zero delta reads without advancing
	n, _ = r.AddDaily(ctx, "2026-08-29", 0, 48*time.Hour)
	if n != 3 {
		t.Fatalf("read = %d", n)
	}

	// days are independent
	n, _ = r.AddDaily(ctx, "2026-08-30", 1, 48*time.Hour)
	if n != 1 {
		t.Fatalf("next day = %d", n)
	}
}
