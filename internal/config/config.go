// Package config loads flyersync settings from the environment and the
// markets file.
package config

import (
	"strings"
	"time"

	"flyersync/internal/docstore"
	perr "flyersync/internal/platform/errors"
)

// Config is the complete runtime configuration
type Config struct {
	Targets []Target

	MarketsFile   string
	ScratchDir    string
	DPI           float64
	FetchTimeout  time.Duration
	ScrapeTimeout time.Duration
	Headless      bool
	Force         bool

	Store   StoreConfig
	Objects ObjectsConfig
	API     APIConfig
}

// StoreConfig selects the document store backend
type StoreConfig struct {
	Driver   string
	URL      string
	MaxConns int
}

// ObjectsConfig locates the published page images
type ObjectsConfig struct {
	Dir           string
	PublicBaseURL string
}

// APIConfig configures the HTTP API
type APIConfig struct {
	Addr string
}

// Defaults
const (
	DefaultDPI           = 200
	DefaultFetchTimeout  = 60 * time.Second
	DefaultScrapeTimeout = 90 * time.Second
)

// Load reads the environment and the markets file
func Load() (*Config, error) {
	root := NewConf()
	app := root.Prefix("FLYERSYNC_")
	store := root.Prefix("DOCSTORE_")

	cfg := &Config{
		MarketsFile:   app.MayString("MARKETS_FILE", ""),
		ScratchDir:    app.MayString("SCRATCH_DIR", ""),
		DPI:           app.MayFloat64("DPI", DefaultDPI),
		FetchTimeout:  app.MayDuration("FETCH_TIMEOUT", DefaultFetchTimeout),
		ScrapeTimeout: app.MayDuration("SCRAPE_TIMEOUT", DefaultScrapeTimeout),
		Headless:      app.MayBool("HEADLESS", true),
		Force:         app.MayBool("FORCE", false),
		Store: StoreConfig{
			Driver:   store.MayString("DRIVER", "sqlite"),
			URL:      store.MayString("URL", "flyersync.db"),
			MaxConns: store.MayInt("MAX_CONNS", 4),
		},
		Objects: ObjectsConfig{
			Dir:           root.MayString("OBJECTS_DIR", "objects"),
			PublicBaseURL: root.MayString("PUBLIC_BASE_URL", "http://localhost:8080/objects"),
		},
		API: APIConfig{
			Addr: ":" + root.Prefix("API_").MayString("PORT", "8080"),
		},
	}

	if cfg.DPI <= 0 {
		return nil, perr.Validationf("FLYERSYNC_DPI must be positive, got %v", cfg.DPI)
	}
	cfg.Store.Driver = strings.ToLower(cfg.Store.Driver)
	if !docstore.ValidDriver(cfg.Store.Driver) {
		return nil, perr.Validationf("DOCSTORE_DRIVER must be one of %s, got %q",
			strings.Join(docstore.Drivers, ", "), cfg.Store.Driver)
	}

	targets, err := LoadMarkets(cfg.MarketsFile)
	if err != nil {
		return nil, err
	}
	cfg.Targets = targets
	return cfg, nil
}
