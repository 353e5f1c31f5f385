package publish

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "flyersync/internal/platform/errors"
	kit "flyersync/internal/platform/testkit"
)

func TestPublishAndServe(t *testing.T) {
	root := t.TempDir()
	p, err := NewFS(root, "http://cdn.local/objects/")
	if err != nil {
		t.Fatal(err)
	}
	src := kit.WriteFile(t, t.TempDir(), "page_01.png", "png-bytes")

	key := Key("lidl", "de", "next", "20250105", "page_01.png")
	if key != "catalogs/lidl/de/next/20250105/page_01.png" {
		t.Fatalf("key = %s", key)
	}

	ref, err := p.Publish(context.Background(), src, key)
	if err != nil {
		t.Fatal(err)
	}
	if ref != "http://cdn.local/objects/catalogs/lidl/de/next/20250105/page_01.png" {
		t.Fatalf("ref = %s", ref)
	}

	srv := httptest.NewServer(http.StripPrefix("/objects/", p.Handler()))
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/objects/" + key)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "png-bytes" {
		t.Fatalf("served %d %q", resp.StatusCode, body)
	}
}

func TestPublishRejectsEscapingKeys(t *testing.T) {
	p, err := NewFS(t.TempDir(), "http://cdn.local")
	if err != nil {
		t.Fatal(err)
	}
	src := kit.WriteFile(t, t.TempDir(), "x.png", "x")
	for _, key := range []string{"", "../etc/passwd", "a/../../b", "/abs"} {
		if _, err := p.Publish(context.Background(), src, key); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
			t.Errorf("key %q: expected invalid argument, got %v", key, err)
		}
	}
}

func TestPublishMissingSource(t *testing.T) {
	p, _ := NewFS(t.TempDir(), "http://cdn.local")
	_, err := p.Publish(context.Background(), "/no/such/file.png", "catalogs/x.png")
	if !perr.IsCode(err, perr.ErrorCodeIO) {
		t.Fatalf("expected io error, got %v", err)
	}
}

func TestNewFSRejectsEmptyBase(t *testing.T) {
	if _, err := NewFS(t.TempDir(), ""); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
