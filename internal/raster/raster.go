// Package raster turns catalog PDFs into one PNG per page
package raster

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	perr "flyersync/internal/platform/errors"

	"github.com/gen2brain/go-fitz"
)

// PageFileName is the 1-indexed, zero-padded image name of a page so that
// lexical order equals page order
func PageFileName(page int) string {
	return fmt.Sprintf("page_%02d.png", page)
}

// MuPDF renders pages with go-fitz
type MuPDF struct{}

// Rasterize writes every page of pdfPath into outDir at dpi and returns the
// image paths in page order
func (MuPDF) Rasterize(ctx context.Context, pdfPath, outDir string, dpi float64) ([]string, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "open pdf %s", filepath.Base(pdfPath))
	}
	defer doc.Close()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeIO, "create image dir")
	}

	n := doc.NumPage()
	if n == 0 {
		return nil, perr.Newf(perr.ErrorCodeIO, "pdf %s has no pages", filepath.Base(pdfPath))
	}
	paths := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := doc.ImageDPI(i, dpi)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeIO, "render page %d", i+1)
		}
		p := filepath.Join(outDir, PageFileName(i+1))
		if err := writePNG(p, img); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "create %s", filepath.Base(path))
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return perr.Wrapf(err, perr.ErrorCodeIO, "encode %s", filepath.Base(path))
	}
	return perr.WrapIf(f.Close(), perr.ErrorCodeIO, "close image")
}
