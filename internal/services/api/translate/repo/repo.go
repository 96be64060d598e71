// Package repo provides the translation cache over the keyed store
package repo

import (
	"context"
	"encoding/json"
	"time"

	perr "cronslate/internal/platform/errors"

	"cronslate/internal/modkit/repokit"
	"cronslate/internal/services/api/translate/domain"
)

// Repo is the cache surface used by the service layer
// keys are content addresses computed by the service
type Repo interface {
	GetResult(ctx context.Context, key string) (domain.TranslationResult, bool, error)
	PutResult(ctx context.Context, key string, res domain.TranslationResult, ttl time.Duration) error
}

type (
	// KVStore is the keyed-store implementation of the cache repo
	KVStore struct{}
	queries struct{ kv repokit.KV }
)

// NewKV returns a binder for the keyed-store implementation
func NewKV() repokit.Binder[Repo] { return KVStore{} }

// Bind attaches a KV backend to the implementation
func (KVStore) Bind(kv repokit.KV) Repo { return &queries{kv: kv} }

func (r *queries) GetResult(ctx context.Context, key string) (domain.TranslationResult, bool, error) {
	raw, ok, err := r.kv.Get(ctx, key)
	if err != nil {
		return domain.TranslationResult{}, false, perr.Wrapf(err, perr.ErrorCodeStore, "cache read failed")
	}
	if !ok || raw == "" {
		return domain.TranslationResult{}, false, nil
	}
	var res domain.TranslationResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		// a corrupt entry is a miss; the next success overwrites it
		return domain.TranslationResult{}, false, nil
	}
	return res, true, nil
}

func (r *queries) PutResult(ctx context.Context, key string, res domain.TranslationResult, ttl time.Duration) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeStore, "cache encode failed")
	}
	if err := r.kv.Put(ctx, key, string(raw), ttl); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeStore, "cache write failed")
	}
	return nil
}
