// Command flyerapi serves the stored catalogs and the published page images
// and accepts on-demand scrape requests.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flyersync/internal/api"
	"flyersync/internal/app"
	"flyersync/internal/config"
	"flyersync/internal/platform/logger"
)

func main() {
	l := logger.Named("http")
	defer func() { _ = logger.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		l.Fatal().Err(err).Msg("load config")
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("open stores")
	}
	defer func() {
		if err := a.Close(); err != nil {
			l.Error().Err(err).Msg("close store")
		}
	}()

	srv := api.New(ctx, a.Store, a.Runner, a.Markets(), a.Publisher.Handler(), l)
	httpSrv := &http.Server{
		Addr:              cfg.API.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			l.Error().Err(err).Msg("http shutdown")
		}
	}()

	l.Info().Str("addr", cfg.API.Addr).Str("objects", cfg.Objects.PublicBaseURL).Msg("http listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Error().Err(err).Msg("http server stopped")
	}
	// a running scrape sees the cancelled context and stops between pairs
	srv.Wait()
}
