// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const keyCallerID ctxKey = "caller_id"

// WithRequest annotates context with common request scoped ids
func WithRequest(ctx context.Context, reqID, callerID string) context.Context {
	if reqID != "" {
		// set chi RequestID so chimw.GetReqID can retrieve it
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if callerID != "" {
		ctx = context.WithValue(ctx, keyCallerID, callerID)
	}
	return ctx
}

// WithCaller annotates context with the derived caller identity
func WithCaller(ctx context.Context, callerID string) context.Context {
	if callerID != "" {
		ctx = context.WithValue(ctx, keyCallerID, callerID)
	}
	return ctx
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	if v := chimw.GetReqID(ctx); v != "" {
		return v
	}
	return ""
}

// CallerID returns the caller identity on the context, falling back to the
// shared anonymous bucket when none was derived
func CallerID(ctx context.Context) string {
	if v, ok := ctx.Value(keyCallerID).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
