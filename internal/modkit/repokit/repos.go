// Package repokit provides common types and helpers for repository implementations
package repokit

import (
	"cronslate/internal/platform/store"
)

// KV is the keyed persistence seam repos bind against
type KV = store.KV

// Binder binds a repo implementation to a concrete KV backend
// services hold a Binder so tests can swap in fakes without touching wiring
type Binder[T any] interface {
	Bind(kv KV) T
}

// BinderFunc adapts a function to a Binder
type BinderFunc[T any] func(kv KV) T

// Bind implements Binder
func (f BinderFunc[T]) Bind(kv KV) T { return f(kv) }
