package scraper

import (
	"context"
	"errors"
	"testing"

	"flyersync/internal/catalog"
	"flyersync/internal/platform/logger"
)

type fakeSource struct {
	ls  []catalog.Listing
	err error

	gotLanguage, gotURL string
}

func (f *fakeSource) Listings(_ context.Context, language, pageURL string) ([]catalog.Listing, error) {
	f.gotLanguage, f.gotURL = language, pageURL
	return f.ls, f.err
}

func TestServiceScrape(t *testing.T) {
	ok := &fakeSource{ls: []catalog.Listing{{SourceURL: "u", ValidityText: "17.03."}}}
	broken := &fakeSource{err: errors.New("chrome crashed")}
	s := NewService(map[string]Source{"lidl": ok, "aldi": broken}, logger.Nop())

	got := s.Scrape(context.Background(), "lidl", "fr", "https://lidl.example/fr")
	if len(got) != 1 || ok.gotLanguage != "fr" || ok.gotURL != "https://lidl.example/fr" {
		t.Fatalf("got %+v (lang %q url %q)", got, ok.gotLanguage, ok.gotURL)
	}
	if got := s.Scrape(context.Background(), "aldi", "de", "x"); got != nil {
		t.Fatalf("failing source should yield nil, got %+v", got)
	}
	if got := s.Scrape(context.Background(), "coop", "de", "x"); got != nil {
		t.Fatalf("unknown market should yield nil, got %+v", got)
	}
}

func TestServiceMarkets(t *testing.T) {
	s := Default(NewBrowser(true, 0, logger.Nop()), logger.Nop())
	m := s.Markets()
	if len(m) != 2 || m[0] != "aldi" || m[1] != "lidl" {
		t.Fatalf("markets = %v", m)
	}
	if !s.Supports("lidl") || s.Supports("coop") {
		t.Fatal("supports mismatch")
	}
}

func TestAbsURL(t *testing.T) {
	cases := []struct{ base, href, want string }{
		{"https://www.lidl.ch/c/de-CH/x", "/l/de/y", "https://www.lidl.ch/l/de/y"},
		{"https://www.lidl.ch/c/de-CH/x", "https://cdn.example/a.pdf", "https://cdn.example/a.pdf"},
		{"https://www.aldi-suisse.ch/de/a/b.html", "c.pdf", "https://www.aldi-suisse.ch/de/a/c.pdf"},
	}
	for _, c := range cases {
		if got := absURL(c.base, c.href); got != c.want {
			t.Errorf("absURL(%q, %q) = %q, want %q", c.base, c.href, got, c.want)
		}
	}
}
