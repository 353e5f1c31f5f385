package pipeline

import (
	"context"

	"flyersync/internal/catalog"
)

// Scraper returns the live listings of one (market, language) page. It never
// fails; an empty result means nothing usable was found.
type Scraper interface {
	Scrape(ctx context.Context, market, language, pageURL string) []catalog.Listing
}

// Fetcher downloads a document to dest
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string) (string, error)
}

// Rasterizer renders every PDF page to an image, in page order
type Rasterizer interface {
	Rasterize(ctx context.Context, pdfPath, outDir string, dpi float64) ([]string, error)
}

// Publisher uploads a local file under key and returns its public reference
type Publisher interface {
	Publish(ctx context.Context, localPath, key string) (string, error)
}

// Store is the slice of the document store the pipeline writes through
type Store interface {
	QueryBy(ctx context.Context, market, language string) ([]catalog.Record, error)
	Delete(ctx context.Context, rec catalog.Record) error
	Insert(ctx context.Context, rec catalog.Record) (string, error)
}

// Scratch is the temporary area shared by all pairs of a run
type Scratch interface {
	Reset() error
	PDFPath(market, language, week string) string
	ImageDir(market, language, week string) (string, error)
	Release() error
}

// Deps are the collaborators of a Runner, built once at process start
type Deps struct {
	Scraper    Scraper
	Fetcher    Fetcher
	Rasterizer Rasterizer
	Publisher  Publisher
	Store      Store
	Scratch    Scratch
}
