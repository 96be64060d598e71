// Package repo provides the quota persistence surface over the keyed store
package repo

import (
	"context"
	"encoding/json"
	"time"

	perr "cronslate/internal/platform/errors"

	"cronslate/internal/modkit/repokit"
)

const (
	callerKeyPrefix = "quota:caller:"
	dayKeyPrefix    = "quota:day:"
)

// Repo is the quota persistence surface used by the service layer
// caller stamps are unix millisecond timestamps, newest last
type Repo interface {
	CallerStamps(ctx context.Context, callerID string) ([]int64, error)
	PutCallerStamps(ctx context.Context, callerID string, stamps []int64, ttl time.Duration) error

	// AddDaily bumps the counter for date by delta and returns the new total.
	// A zero delta reads the current total without advancing it
	AddDaily(ctx context.Context, date string, delta int64, ttl time.Duration) (int64, error)
}

type (
	// KVStore is the keyed-store implementation of the quota repo
	KVStore struct{}
	queries struct{ kv repokit.KV }
)

// NewKV returns a binder for the keyed-store implementation
func NewKV() repokit.Binder[Repo] { return KVStore{} }

// Bind attaches a KV backend to the implementation
func (KVStore) Bind(kv repokit.KV) Repo { return &queries{kv: kv} }

func (r *queries) CallerStamps(ctx context.Context, callerID string) ([]int64, error) {
	raw, ok, err := r.kv.Get(ctx, callerKeyPrefix+callerID)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeStore, "caller window read failed")
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var stamps []int64
	if err := json.Unmarshal([]byte(raw), &stamps); err != nil {
		// corrupt window rows reset rather than block the caller forever
		return nil, nil
	}
	return stamps, nil
}

func (r *queries) PutCallerStamps(ctx context.Context, callerID string, stamps []int64, ttl time.Duration) error {
	raw, err := json.Marshal(stamps)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeStore, "caller window encode failed")
	}
	if err := r.kv.Put(ctx, callerKeyPrefix+callerID, string(raw), ttl); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeStore, "caller window write failed")
	}
	return nil
}

func (r *queries) AddDaily(ctx context.Context, date string, delta int64, ttl time.Duration) (int64, error) {
	n, err := r.kv.Add(ctx, dayKeyPrefix+date, delta, ttl)
	if err != nil {
		return 0, perr.Wrapf(err, perr.ErrorCodeStore, "daily counter update failed")
	}
	return n, nil
}
