// Package api serves the stored catalogs over HTTP and lets clients trigger
// a background scrape of one market.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"

	"flyersync/internal/catalog"
	"flyersync/internal/docstore"
	"flyersync/internal/pipeline"
	perr "flyersync/internal/platform/errors"
	"flyersync/internal/platform/logger"

	"github.com/gorilla/mux"
)

// Trigger runs the pipeline for one market
type Trigger interface {
	RunMarket(ctx context.Context, market string) pipeline.Report
}

// Server holds the handlers' dependencies
type Server struct {
	store   docstore.Store
	trigger Trigger
	markets []string
	objects http.Handler
	log     *logger.Logger

	// base outlives requests; background scrapes stop when it is cancelled
	base context.Context
	busy atomic.Bool
	wg   sync.WaitGroup
}

// New builds a Server. objects may be nil when pages are served elsewhere.
func New(base context.Context, store docstore.Store, trigger Trigger, markets []string, objects http.Handler, log *logger.Logger) *Server {
	return &Server{
		store:   store,
		trigger: trigger,
		markets: slices.Clone(markets),
		objects: objects,
		log:     log,
		base:    base,
	}
}

// Routes returns the router wrapped in the CORS middleware
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/catalogs", s.listCatalogs).Methods(http.MethodGet)
	api.HandleFunc("/catalogs/{id}", s.getCatalog).Methods(http.MethodGet)
	api.HandleFunc("/markets", s.getMarkets).Methods(http.MethodGet)
	api.HandleFunc("/scrape/{market}", s.scrapeMarket).Methods(http.MethodPost)

	if s.objects != nil {
		r.PathPrefix("/objects/").Handler(http.StripPrefix("/objects/", s.objects))
	}

	return enableCORS(r)
}

// Wait blocks until a running background scrape returns
func (s *Server) Wait() { s.wg.Wait() }

func (s *Server) listCatalogs(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	market, language := r.URL.Query().Get("market"), r.URL.Query().Get("language")
	out := make([]catalog.Record, 0, len(recs))
	for _, rec := range recs {
		if market != "" && rec.Market != market {
			continue
		}
		if language != "" && rec.Language != language {
			continue
		}
		out = append(out, rec)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getCatalog(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) getMarkets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"markets": s.markets})
}

func (s *Server) scrapeMarket(w http.ResponseWriter, r *http.Request) {
	market := mux.Vars(r)["market"]
	if !slices.Contains(s.markets, market) {
		s.writeError(w, perr.NotFoundf("unknown market %q", market))
		return
	}
	if !s.busy.CompareAndSwap(false, true) {
		s.writeError(w, perr.Conflictf("a scrape is already running"))
		return
	}

	s.log.Info().Str("market", market).Msg("scrape requested")
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.busy.Store(false)
		rep := s.trigger.RunMarket(s.base, market)
		s.log.Info().
			Str("market", market).
			Int("published", rep.Count(pipeline.StatusPublished)).
			Int("outcomes", len(rep.Outcomes)).
			Msg("background scrape finished")
	}()

	writeJSON(w, http.StatusAccepted, map[string]any{
		"message": fmt.Sprintf("Scraping %s started in background. This may take a few minutes.", market),
		"status":  "processing",
	})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := perr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, perr.WireFrom(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// CORS middleware
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
