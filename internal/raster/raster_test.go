package raster

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"testing"

	perr "flyersync/internal/platform/errors"
)

func TestPageFileNameSortsLikePages(t *testing.T) {
	var names []string
	for p := 12; p >= 1; p-- {
		names = append(names, PageFileName(p))
	}
	sort.Strings(names)
	for i, n := range names {
		if n != PageFileName(i+1) {
			t.Fatalf("position %d holds %s", i, n)
		}
	}
	if PageFileName(3) != "page_03.png" {
		t.Fatalf("got %s", PageFileName(3))
	}
}

func TestRasterizeMissingPDF(t *testing.T) {
	dir := t.TempDir()
	_, err := MuPDF{}.Rasterize(context.Background(), filepath.Join(dir, "nope.pdf"), dir, 72)
	if !perr.IsCode(err, perr.ErrorCodeIO) {
		t.Fatalf("expected io error, got %v", err)
	}
}

// blankPDF assembles a minimal PDF with one empty page per width, in order
func blankPDF(widths ...int) []byte {
	kids := ""
	for i := range widths {
		kids += fmt.Sprintf("%d 0 R ", i+3)
	}
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(widths)),
	}
	for _, w := range widths {
		objs = append(objs, fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d 72] >>", w))
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%EOF\n", len(objs)+1, xref)
	return b.Bytes()
}

func TestRasterizePages(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "catalog.pdf")
	if err := os.WriteFile(pdf, blankPDF(72, 144, 216), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "images")

	paths, err := MuPDF{}.Rasterize(context.Background(), pdf, out, 72)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 3 {
		t.Fatalf("rendered %d pages: %v", len(paths), paths)
	}

	prev := 0
	for i, p := range paths {
		if p != filepath.Join(out, PageFileName(i+1)) {
			t.Fatalf("page %d written to %s", i+1, p)
		}
		f, err := os.Open(p)
		if err != nil {
			t.Fatal(err)
		}
		cfg, err := png.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatalf("page %d is not a png: %v", i+1, err)
		}
		// pages get wider in document order
		if cfg.Width <= prev {
			t.Fatalf("page %d width %d not after %d", i+1, cfg.Width, prev)
		}
		prev = cfg.Width
	}
}

func TestRasterizeCancelled(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "catalog.pdf")
	if err := os.WriteFile(pdf, blankPDF(72), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (MuPDF{}).Rasterize(ctx, pdf, dir, 72); err == nil {
		t.Fatal("expected cancellation error")
	}
}
