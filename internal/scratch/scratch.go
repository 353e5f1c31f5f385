// Package scratch manages the temporary PDF and image directories shared by
// every (market, language) pass of a run.
package scratch

import (
	"os"
	"path/filepath"

	perr "flyersync/internal/platform/errors"
)

// Area is the scratch root with its pdfs/ and images/ subdirectories
type Area struct {
	root  string
	owned bool
}

// New prepares an area under root. An empty root uses a fresh temp dir which
// Release removes entirely; a configured root is only emptied.
func New(root string) (*Area, error) {
	a := &Area{root: root}
	if root == "" {
		dir, err := os.MkdirTemp("", "flyersync-*")
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeIO, "create scratch dir")
		}
		a.root, a.owned = dir, true
	}
	if err := a.Reset(); err != nil {
		return nil, err
	}
	return a, nil
}

// Root is the scratch root path
func (a *Area) Root() string { return a.root }

// Reset removes and recreates pdfs/ and images/ so nothing from a previous
// pair can be picked up
func (a *Area) Reset() error {
	for _, d := range []string{a.pdfDir(), a.imageRoot()} {
		if err := os.RemoveAll(d); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeIO, "clear %s", d)
		}
		if err := os.MkdirAll(d, 0o755); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeIO, "create %s", d)
		}
	}
	return nil
}

// PDFPath is where the PDF of one (market, language, week) is downloaded
func (a *Area) PDFPath(market, language, week string) string {
	return filepath.Join(a.pdfDir(), market+"_"+language+"_"+week+".pdf")
}

// ImageDir creates and returns the page image dir of one (market, language, week)
func (a *Area) ImageDir(market, language, week string) (string, error) {
	d := filepath.Join(a.imageRoot(), market, language, week)
	if err := os.MkdirAll(d, 0o755); err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeIO, "create %s", d)
	}
	return d, nil
}

// Release deletes everything the area holds
func (a *Area) Release() error {
	if a.owned {
		return perr.WrapIf(os.RemoveAll(a.root), perr.ErrorCodeIO, "remove scratch dir")
	}
	for _, d := range []string{a.pdfDir(), a.imageRoot()} {
		if err := os.RemoveAll(d); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeIO, "remove %s", d)
		}
	}
	return nil
}

func (a *Area) pdfDir() string    { return filepath.Join(a.root, "pdfs") }
func (a *Area) imageRoot() string { return filepath.Join(a.root, "images") }
