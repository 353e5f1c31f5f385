// Package publish is the object store for page images: files are copied
// under a root directory and addressed by PUBLIC_BASE_URL + key, with the
// API serving the same root.
package publish

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	perr "flyersync/internal/platform/errors"
)

// FS publishes into a local directory
type FS struct {
	root    string
	baseURL string
}

// NewFS creates root if needed. baseURL is the public prefix the root is served under.
func NewFS(root, baseURL string) (*FS, error) {
	if _, err := url.Parse(baseURL); err != nil || baseURL == "" {
		return nil, perr.InvalidArgf("invalid public base url %q", baseURL)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeIO, "create objects dir")
	}
	return &FS{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Key builds the object key of one page image
func Key(market, language, week, stamp, file string) string {
	return path.Join("catalogs", market, language, week, stamp, file)
}

// Publish copies localPath to key and returns its public reference
func (p *FS) Publish(ctx context.Context, localPath, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean := path.Clean("/" + key)[1:]
	if clean == "" || clean != key {
		return "", perr.InvalidArgf("invalid object key %q", key)
	}

	src, err := os.Open(localPath)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeIO, "open image")
	}
	defer src.Close()

	dest := filepath.Join(p.root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeIO, "create object dir")
	}
	tmp := dest + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeIO, "create object")
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(tmp)
		return "", perr.Wrap(err, perr.ErrorCodeIO, "copy object")
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return "", perr.Wrap(err, perr.ErrorCodeIO, "close object")
	}
	if err := os.Rename(tmp, dest); err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeIO, "commit object")
	}
	return p.baseURL + "/" + clean, nil
}

// Handler serves published objects; mount it under the base URL path
func (p *FS) Handler() http.Handler {
	return http.FileServer(http.Dir(p.root))
}
