// Package store provides a durable keyed store behind a tiny seam.
// Quota counters and the response cache live here; both tolerate lost
// updates, so the surface is deliberately read-modify-write friendly
// rather than transactional
package store

import (
	"context"
	"time"

	"cronslate/internal/platform/logger"
)

// KV is the minimal keyed persistence surface repos bind against.
// Entries expire by TTL; a zero TTL means no expiry
type KV interface {
	// Get returns the value for key and whether it exists and is unexpired
	Get(ctx context.Context, key string) (string, bool, error)

	// Put upserts key with a TTL measured from now
	Put(ctx context.Context, key, value string, ttl time.Duration) error

	// Add atomically adds delta to a counter key and returns the new value.
	// Missing or expired counters start from zero; ttl applies on first write
	Add(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error)

	// Delete removes key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error

	// Ping reports backend readiness
	Ping(ctx context.Context) error

	Close() error
}

// Store is the facade handed to module wiring
type Store struct {
	// Log is the logger used by the backend, zero means the process root logger
	Log logger.Logger

	// KV is the durable keyed seam
	KV KV
}

// Config selects and tunes the backend
type Config struct {
	// Path is the sqlite database file, ":memory:" for ephemeral dev use
	Path string

	// BusyTimeout bounds sqlite lock waits
	BusyTimeout time.Duration
}

// Option mutates the Store during Open
type Option func(*Store) error

// WithLogger sets the store logger
func WithLogger(l logger.Logger) Option {
	return func(s *Store) error {
		s.Log = l
		return nil
	}
}

// Open constructs a Store with the configured backend
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{Log: *logger.Named("store")}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	kv, err := openSQLite(ctx, cfg, s.Log)
	if err != nil {
		return nil, err
	}
	s.KV = kv
	return s, nil
}

// Close releases the backend
func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.KV == nil {
		return nil
	}
	return s.KV.Close()
}
