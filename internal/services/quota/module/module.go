// Package module wires the quota tracker and exposes its ports
package module

import (
	"context"

	"cronslate/internal/modkit"
	"cronslate/internal/modkit/httpkit"
	"cronslate/internal/services/quota/service"
)

// Module defines the quota tracker module
type Module struct {
	deps  modkit.Deps
	svc   *service.Svc
	ports Ports
}

// New constructs the quota module with its ports
func New(deps modkit.Deps, overrides Options) *Module {
	// Load defaults, then apply non-zero overrides
	opts := FromConfig(deps.Cfg)

	if overrides.DailyLimit != 0 {
		opts.DailyLimit = overrides.DailyLimit
	}
	if overrides.PerCallerMax != 0 {
		opts.PerCallerMax = overrides.PerCallerMax
	}
	if overrides.Window != 0 {
		opts.Window = overrides.Window
	}
	if overrides.BurstMax != 0 {
		opts.BurstMax = overrides.BurstMax
	}
	if overrides.BurstWindow != 0 {
		opts.BurstWindow = overrides.BurstWindow
	}
	if overrides.FlushDebounce != 0 {
		opts.FlushDebounce = overrides.FlushDebounce
	}
	if overrides.DailyTTL != 0 {
		opts.DailyTTL = overrides.DailyTTL
	}

	svc := service.New(deps, service.Config{
		DailyLimit:    opts.DailyLimit,
		PerCallerMax:  opts.PerCallerMax,
		Window:        opts.Window,
		BurstMax:      opts.BurstMax,
		BurstWindow:   opts.BurstWindow,
		FlushDebounce: opts.FlushDebounce,
		DailyTTL:      opts.DailyTTL,
	})

	m := &Module{deps: deps, svc: svc}
	m.ports = Ports{
		Admitter: svc,
		Usage:    svc,
	}
	return m
}

// Ports returns the module ports (Admitter, Usage)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "quota" }

// Prefix returns the module config prefix (none, the tracker has no routes)
func (m *Module) Prefix() string { return "" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}

// Close flushes the tracker's pending daily writes
func (m *Module) Close(ctx context.Context) error { return m.svc.Close(ctx) }
