// Package app wires configuration into the long-lived collaborators shared
// by the command line tool and the API server.
package app

import (
	"context"
	"errors"
	"slices"
	"strings"

	"flyersync/internal/config"
	"flyersync/internal/docstore"
	"flyersync/internal/fetch"
	"flyersync/internal/pipeline"
	perr "flyersync/internal/platform/errors"
	"flyersync/internal/platform/logger"
	"flyersync/internal/publish"
	"flyersync/internal/raster"
	"flyersync/internal/scraper"
	"flyersync/internal/scratch"
)

// App owns the store and the pipeline runner
type App struct {
	Config    *config.Config
	Store     docstore.Store
	Publisher *publish.FS
	Runner    *pipeline.Runner

	scratch *scratch.Area
}

// New opens the document store, the object store and the scratch area and
// builds a Runner over them. Close releases what New opened. Every configured
// market needs a registered scraper.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	browser := scraper.NewBrowser(cfg.Headless, cfg.ScrapeTimeout, logger.Named("browser"))
	sources := scraper.Default(browser, logger.Named("scraper"))
	for _, t := range cfg.Targets {
		if !sources.Supports(t.Market) {
			return nil, perr.Validationf("no scraper for market %q (supported: %s)",
				t.Market, strings.Join(sources.Markets(), ", "))
		}
	}

	store, err := docstore.Open(ctx, docstore.Config{
		Driver:   cfg.Store.Driver,
		URL:      cfg.Store.URL,
		MaxConns: int32(cfg.Store.MaxConns),
	})
	if err != nil {
		return nil, err
	}

	pub, err := publish.NewFS(cfg.Objects.Dir, cfg.Objects.PublicBaseURL)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	area, err := scratch.New(cfg.ScratchDir)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	runner := pipeline.New(pipeline.Deps{
		Scraper:    sources,
		Fetcher:    fetch.New(cfg.FetchTimeout),
		Rasterizer: raster.MuPDF{},
		Publisher:  pub,
		Store:      store,
		Scratch:    area,
	}, pipeline.Options{
		Targets: cfg.Targets,
		DPI:     cfg.DPI,
		Force:   cfg.Force,
	}, logger.Named("pipeline"))

	return &App{Config: cfg, Store: store, Publisher: pub, Runner: runner, scratch: area}, nil
}

// Markets lists the configured market names
func (a *App) Markets() []string { return config.MarketNames(a.Config.Targets) }

// Run processes every target, or only those of market when it is set
func (a *App) Run(ctx context.Context, market string) (pipeline.Report, error) {
	if market == "" {
		return a.Runner.Run(ctx), nil
	}
	if !slices.Contains(a.Markets(), market) {
		return pipeline.Report{}, perr.NotFoundf("unknown market %q", market)
	}
	return a.Runner.RunMarket(ctx, market), nil
}

// Close removes the scratch area and closes the document store
func (a *App) Close() error {
	return errors.Join(a.scratch.Release(), a.Store.Close())
}
