// @title         Cronslate API
// @version       1.0.0
// @description   Free-text scheduling phrases in, Unix cron expressions out

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"cronslate/internal/adapters/model"
	"cronslate/internal/platform/config"
	"cronslate/internal/platform/logger"
	phttp "cronslate/internal/platform/net/http"
	"cronslate/internal/platform/store"

	"cronslate/internal/services/api"
)

func main() {
	// service-scoped config (CRONSLATE_*)
	root := config.New()
	apiCfg := root.Prefix("CRONSLATE_")

	storeCfg := root.Prefix("CRONSLATE_STORE_") // sqlite path etc
	modelCfg := root.Prefix("CRONSLATE_MODEL_") // provider credentials

	// bring up logging early
	logger.Init(logger.FromEnv())
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// open the platform store (sqlite keyed store for quotas and cache)
	st, err := store.Open(
		ctx,
		store.Config{
			Path:        storeCfg.MayString("PATH", "cronslate.db"),
			BusyTimeout: storeCfg.MayDuration("BUSY_TIMEOUT", 5*time.Second),
		},
		store.WithLogger(*l),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// model provider client; the credential is required
	completer := model.NewClient(model.Options{
		BaseURL:   modelCfg.MayString("BASE_URL", "https://api.openai.com"),
		APIKey:    modelCfg.MustString("API_KEY"),
		Timeout:   modelCfg.MayDuration("TIMEOUT", 6*time.Second),
		MaxTokens: modelCfg.MayInt("MAX_TOKENS", 64),
	})

	// http server (reads CRONSLATE_PORT)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	closeQuota := api.Mount(
		srv.Router(),
		api.Options{
			Config:        apiCfg,
			Store:         st,
			Logger:        l,
			Completer:     completer,
			EnableSwagger: apiCfg.MayBool("SWAGGER", true),
		},
	)

	// graceful stop on signal
	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := closeQuota(shCtx); err != nil {
			l.Error().Err(err).Msg("quota flush on shutdown failed")
		}
		if err := srv.Shutdown(shCtx); err != nil {
			l.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	// run
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
