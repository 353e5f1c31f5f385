// Package fetch downloads catalog PDFs
package fetch

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	perr "flyersync/internal/platform/errors"
)

// Fetcher downloads documents over HTTP with a per-call timeout
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// New returns a Fetcher whose requests time out after timeout
func New(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: "Mozilla/5.0 (X11; Linux x86_64) flyersync/1.0",
	}
}

// Fetch downloads url into dest and returns dest. A partial file is removed
// on failure.
func (f *Fetcher) Fetch(ctx context.Context, url, dest string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "build request for %s", url)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "download %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", perr.Unavailablef("download %s: bad status %s", url, resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeIO, "create download dir")
	}
	out, err := os.Create(dest)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeIO, "create download file")
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(dest)
		return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "save %s", url)
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return "", perr.Wrap(err, perr.ErrorCodeIO, "close download file")
	}
	return dest, nil
}
