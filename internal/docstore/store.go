// Package docstore persists catalog records. Every backend stores the same
// "brochures" documents: one row per published catalog, replaced wholesale
// on update.
package docstore

import (
	"context"
	"slices"
	"strings"

	"flyersync/internal/catalog"
	perr "flyersync/internal/platform/errors"
)

// Store is the document store used by the pipeline, the API and the CLI
type Store interface {
	// QueryBy returns the records of one market and language, oldest first
	QueryBy(ctx context.Context, market, language string) ([]catalog.Record, error)
	// Insert stores rec under a fresh id and server timestamp and returns the id
	Insert(ctx context.Context, rec catalog.Record) (string, error)
	// Delete removes rec by id; deleting a missing record is not an error
	Delete(ctx context.Context, rec catalog.Record) error
	// DeleteBy removes every record of market (and language when non-empty)
	DeleteBy(ctx context.Context, market, language string) (int, error)
	// List returns all records ordered by market, language, week type
	List(ctx context.Context) ([]catalog.Record, error)
	// Get returns one record or a not found error
	Get(ctx context.Context, id string) (catalog.Record, error)
	Close() error
}

// Config selects and configures a backend
type Config struct {
	Driver   string
	URL      string
	MaxConns int32
}

// Drivers are the backend names Open accepts
var Drivers = []string{"postgres", "sqlite", "memory"}

// ValidDriver reports whether name, case-insensitively, is one of Drivers
func ValidDriver(name string) bool {
	return slices.Contains(Drivers, strings.ToLower(name))
}

// Open returns the backend named by cfg.Driver with its schema in place.
// An empty driver opens the memory store.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "postgres":
		return OpenPostgres(ctx, cfg)
	case "sqlite":
		return OpenSQLite(ctx, cfg.URL)
	case "memory", "":
		return NewMemory(), nil
	default:
		return nil, perr.InvalidArgf("unknown docstore driver %q", cfg.Driver)
	}
}

const (
	selectColumns = `id, market_name, language, title, validity, thumbnail, pages, week_type, created_at`
	orderListing  = ` ORDER BY market_name, language, week_type, created_at`
)
