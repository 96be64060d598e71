// Package module wires translate into the API using modkit
package module

import (
	"net/http"

	modkit "cronslate/internal/modkit"
	"cronslate/internal/modkit/httpkit"
	str "cronslate/internal/platform/strings"

	transhttp "cronslate/internal/services/api/translate/http"
	transsvc "cronslate/internal/services/api/translate/service"
)

// Module implements the translate module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports any

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc transsvc.Service
}

// New constructs the translate module
// callers inject Ports{Completer, Admitter} via modkit.WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("translate"),
		modkit.WithPrefix("/translate"),
	}, opts...)...)

	in, ok := b.Ports.(Ports)
	if !ok || in.Completer == nil || in.Admitter == nil {
		panic("translate module requires Ports{Completer, Admitter}")
	}

	o := FromConfig(deps.Cfg)
	svc := transsvc.New(deps, in.Completer, in.Admitter, transsvc.Config{
		Primary:          o.Primary,
		Backup:           o.Backup,
		RetryBackoff:     o.RetryBackoff,
		RetryTemperature: o.RetryTemperature,
		CacheTTL:         o.CacheTTL,
		CacheVersion:     o.CacheVersion,
	})

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = svc // exposes domain.TranslatorPort

	external := b.Register
	m.register = func(r httpkit.Router) {
		transhttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports exposes the translator port
func (m *Module) Ports() any { return m.ports }
