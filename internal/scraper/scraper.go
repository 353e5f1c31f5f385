// Package scraper collects (pdf url, validity text) listings from the
// retailers' brochure pages with a headless browser.
package scraper

import (
	"context"
	"slices"

	"flyersync/internal/catalog"
	perr "flyersync/internal/platform/errors"
	"flyersync/internal/platform/logger"
)

// Source scrapes one retailer
type Source interface {
	Listings(ctx context.Context, language, pageURL string) ([]catalog.Listing, error)
}

// Service dispatches to the Source registered for a market. Failures are
// logged and reported as an empty result.
type Service struct {
	sources map[string]Source
	log     *logger.Logger
}

// NewService builds a Service over the given market sources
func NewService(sources map[string]Source, log *logger.Logger) *Service {
	return &Service{sources: sources, log: log}
}

// Default wires the Lidl and Aldi sources to a shared browser configuration
func Default(b *Browser, log *logger.Logger) *Service {
	return NewService(map[string]Source{
		"lidl": NewLidl(b, log),
		"aldi": NewAldi(b, log),
	}, log)
}

// Markets lists the supported market names, sorted
func (s *Service) Markets() []string {
	out := make([]string, 0, len(s.sources))
	for m := range s.sources {
		out = append(out, m)
	}
	slices.Sort(out)
	return out
}

// Supports reports whether market has a registered source
func (s *Service) Supports(market string) bool {
	_, ok := s.sources[market]
	return ok
}

// Scrape returns the listings of one (market, language) page, or nil on any failure
func (s *Service) Scrape(ctx context.Context, market, language, pageURL string) []catalog.Listing {
	log := s.log.With().Str("market", market).Str("language", language).Logger()

	src, ok := s.sources[market]
	if !ok {
		log.Error().Msg("no scraper registered for market")
		return nil
	}
	log.Info().Str("url", pageURL).Msg("scraping")
	ls, err := src.Listings(ctx, language, pageURL)
	if err != nil {
		log.Error().Err(err).Str("code", perr.CodeOf(err).String()).Msg("scrape failed")
		return nil
	}
	log.Info().Int("listings", len(ls)).Msg("scrape finished")
	return ls
}
