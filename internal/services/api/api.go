// Package api provides the HTTP API for the application
package api

import (
	"context"

	"cronslate/internal/adapters/model"
	"cronslate/internal/platform/config"
	"cronslate/internal/platform/logger"
	phttp "cronslate/internal/platform/net/http"
	"cronslate/internal/platform/store"

	"cronslate/internal/modkit"
	"cronslate/internal/modkit/httpkit"
	"cronslate/internal/modkit/module"

	metahttp "cronslate/internal/services/api/meta/http"
	metamod "cronslate/internal/services/api/meta/module"
	transmod "cronslate/internal/services/api/translate/module"
	quotamod "cronslate/internal/services/quota/module"
)

// Options are the API options
type Options struct {
	Config        config.Conf
	Store         *store.Store
	Logger        *logger.Logger
	Completer     model.Completer
	EnableSwagger bool
}

// Mount mounts the API service onto the given router and returns a closer
// that flushes pending quota writes on shutdown
func Mount(r phttp.Router, opt Options) func(context.Context) error {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		KV:  opt.Store.KV,
	}

	// the common stack wraps everything, including the landing and doc pages,
	// so hardening headers ride on every response
	r.Use(httpkit.CommonStack(opt.Config)...)

	// Construct the quota module first and extract its ports
	quota := quotamod.New(deps, quotamod.Options{})
	admit := module.MustPortsOf[quotamod.Ports](quota).Admitter
	usage := module.MustPortsOf[quotamod.Ports](quota).Usage

	// Inject the quota ports and the model completer into the API modules
	translate := transmod.New(
		deps,
		modkit.WithPorts(transmod.Ports{
			Completer: opt.Completer,
			Admitter:  admit,
		}),
	)
	meta := metamod.New(
		deps,
		modkit.WithPorts(metamod.Ports{Usage: usage}),
	)

	mods := []module.Module{
		quota, // include the tracker so its ports are registered
		meta,
		translate,
	}

	// API surface under /api
	httpkit.MountAPI(r, nil, func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})

	// unprefixed probe alias plus the human-facing surface
	r.Get("/health", httpkit.Call(metahttp.HealthFunc(metahttp.Deps{
		ServiceName: "cronslate-api",
		Usage:       usage,
		KV:          deps.KV,
	})))

	r.Get("/", serveLanding)
	r.Get("/doc", serveDoc)
	phttp.MountSwaggerUI(r, "/doc", opt.EnableSwagger)

	return quota.Close
}
