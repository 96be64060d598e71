package store

import (
	"context"
	"sync"
	"time"
)

// MemKV is an in-process KV used by unit tests and ephemeral dev runs.
// Semantics mirror the sqlite backend including TTL expiry on read
type MemKV struct {
	mu       sync.Mutex
	values   map[string]memEntry
	counters map[string]memCounter
	now      func() time.Time

	// FailWrites makes Put/Add return an error, for exercising fail-open paths
	FailWrites error
}

type memEntry struct {
	v   string
	exp time.Time
}

type memCounter struct {
	n   int64
	exp time.Time
}

// NewMemKV returns an empty MemKV
func NewMemKV() *MemKV {
	return &MemKV{
		values:   map[string]memEntry{},
		counters: map[string]memCounter{},
		now:      time.Now,
	}
}

// SetClock swaps the time source, for tests
func (m *MemKV) SetClock(now func() time.Time) { m.now = now }

// Get implements KV
func (m *MemKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.values[key]
	if !ok {
		return "", false, nil
	}
	if !e.exp.IsZero() && !e.exp.After(m.now()) {
		delete(m.values, key)
		return "", false, nil
	}
	return e.v, true, nil
}

// Put implements KV
func (m *MemKV) Put(_ context.Context, key, value string, ttl time.Duration) error {
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var exp time.Time
	if ttl > 0 {
		exp = m.now().Add(ttl)
	}
	m.values[key] = memEntry{v: value, exp: exp}
	return nil
}

// Add implements KV
func (m *MemKV) Add(_ context.Context, key string, delta int64, ttl time.Duration) (int64, error) {
	if m.FailWrites != nil {
		return 0, m.FailWrites
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.counters[key]
	if !ok || (!c.exp.IsZero() && !c.exp.After(m.now())) {
		var exp time.Time
		if ttl > 0 {
			exp = m.now().Add(ttl)
		}
		c = memCounter{exp: exp}
	}
	c.n += delta
	m.counters[key] = c
	return c.n, nil
}

// Delete implements KV
func (m *MemKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	delete(m.counters, key)
	return nil
}

// Ping implements KV
func (m *MemKV) Ping(context.Context) error { return nil }

// Close implements KV
func (m *MemKV) Close() error { return nil }
