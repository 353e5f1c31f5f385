package scraper

import (
	"testing"

	perr "flyersync/internal/platform/errors"
)

const lidlOverview = `<html><body>
<div class="flyer-list">
  <a class="flyer" href="/l/de/prospekte/aktionsprospekt-17-03-22-03/view/flyer/page/1">
    <span class="flyer__name">Aktionsprospekt</span>
    <span class="flyer__title">17.03.&nbsp;–&nbsp;22.03.2025</span>
  </a>
  <a class="flyer" href="/l/de/prospekte/aktionsprospekt-24-03-29-03/view/flyer/page/1">
    <span class="flyer__title">24.03. – 29.03.</span>
  </a>
</div>
</body></html>`

const lidlViewer = `<html><body>
<div class="menu">
  <a class="button button--primary" href="/share">Teilen</a>
  <a class="button button--primary" href="https://object.storage.eu01.onstackit.cloud/leaflets/pdfs/abc/Aktionsprospekt.pdf">
    PDF herunterladen
  </a>
</div>
</body></html>`

func TestCleanText(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  17.03.\u00a0–\u00a022.03. ", "17.03. - 22.03."},
		{"gültig\n\n  ab\tMontag", "gültig ab Montag"},
		{"Valables du 20.3 — 25.3", "Valables du 20.3 - 25.3"},
		{"", ""},
	}
	for _, c := range cases {
		if got := CleanText(c.in); got != c.want {
			t.Errorf("CleanText(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseLidlFlyer(t *testing.T) {
	href, text, err := parseLidlFlyer(lidlOverview, "https://www.lidl.ch/c/de-CH/werbeprospekte-als-pdf/s10019683")
	if err != nil {
		t.Fatal(err)
	}
	if href != "https://www.lidl.ch/l/de/prospekte/aktionsprospekt-17-03-22-03/view/flyer/page/1" {
		t.Fatalf("href = %s", href)
	}
	if got := lidlValidity(text); got != "17.03. - 22.03." {
		t.Fatalf("validity = %q (from %q)", got, text)
	}
}

func TestParseLidlFlyer_None(t *testing.T) {
	_, _, err := parseLidlFlyer(`<html><body><a href="/x">x</a></body></html>`, "https://www.lidl.ch")
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestLidlValidityDefault(t *testing.T) {
	if got := lidlValidity("Aktionsprospekt dieser Woche"); got != lidlDefaultValidity {
		t.Fatalf("got %q", got)
	}
}

func TestParseLidlPDFLink(t *testing.T) {
	got, err := parseLidlPDFLink(lidlViewer, "https://www.lidl.ch/l/de/prospekte/x/view/flyer/page/1")
	if err != nil {
		t.Fatal(err)
	}
	if got != "https://object.storage.eu01.onstackit.cloud/leaflets/pdfs/abc/Aktionsprospekt.pdf" {
		t.Fatalf("pdf = %s", got)
	}

	direct := `<html><body><a href="/files/volantino.pdf">scarica</a></body></html>`
	got, err = parseLidlPDFLink(direct, "https://www.lidl.ch/l/it/x")
	if err != nil || got != "https://www.lidl.ch/files/volantino.pdf" {
		t.Fatalf("fallback pdf = %s, %v", got, err)
	}

	if _, err := parseLidlPDFLink(`<html></html>`, "https://www.lidl.ch"); err == nil {
		t.Fatal("expected error without any pdf link")
	}
}

const aldiPage = `<html><body>
<article class="wrapper">
  <div class="card_leaflet__content"><h3>Aktionen der Woche</h3><p>Gültig ab Montag, 17.03.2025</p></div>
  <a href="https://s7g10.scene7.com/is/content/aldi/KW12_DE.pdf">Ansehen</a>
</article>
<article class="wrapper">
  <div class="card_leaflet__content"><h3>Wochenprospekt</h3><p>Gültig ab Montag, 24.03.2025</p></div>
  <a href="https://s7g10.scene7.com/is/content/aldi/KW13_DE.pdf">Ansehen</a>
</article>
<article class="wrapper">
  <div class="card_leaflet__content"><h3>Gartenmagazin</h3><p>Frühling 2025</p></div>
  <a href="https://s7g10.scene7.com/is/content/aldi/garten.pdf">Ansehen</a>
</article>
<article class="wrapper">
  <div class="card_leaflet__content"><h3>Aktionen der Woche</h3><p>Gültig ab Montag, 17.03.2025</p></div>
  <a href="https://s7g10.scene7.com/is/content/aldi/KW12_DE.pdf">Duplikat</a>
</article>
<article class="wrapper">
  <div class="card_leaflet__content"><p>Gültig ab 31.03.</p></div>
  <a href="/elsewhere.pdf">kein scene7</a>
</article>
<article class="wrapper"><a href="https://s7g10.scene7.com/x.pdf">no content</a></article>
</body></html>`

func TestParseAldiListings(t *testing.T) {
	ls, err := parseAldiListings(aldiPage, "de", "https://www.aldi-suisse.ch/de/aktionen.html")
	if err != nil {
		t.Fatal(err)
	}
	if len(ls) != 2 {
		t.Fatalf("expected 2 weekly leaflets, got %+v", ls)
	}
	if ls[0].SourceURL != "https://s7g10.scene7.com/is/content/aldi/KW12_DE.pdf" || ls[0].ValidityText != "Gültig ab Montag, 17.03.2025" {
		t.Fatalf("first = %+v", ls[0])
	}
	if ls[1].SourceURL != "https://s7g10.scene7.com/is/content/aldi/KW13_DE.pdf" {
		t.Fatalf("second = %+v", ls[1])
	}
}

func TestParseAldiListings_LanguageKeywords(t *testing.T) {
	page := `<html><body>
<article class="wrapper">
  <div class="card_leaflet__content"><p>Offerte valide dal lunedì 17.03.</p></div>
  <a href="https://s7g10.scene7.com/it.pdf">x</a>
</article></body></html>`

	it, _ := parseAldiListings(page, "it", "https://www.aldi-suisse.ch/it/")
	if len(it) != 1 {
		t.Fatalf("italian keywords should match, got %+v", it)
	}
	fr, _ := parseAldiListings(page, "fr", "https://www.aldi-suisse.ch/fr/")
	if len(fr) != 0 {
		t.Fatalf("french keywords should not match italian text, got %+v", fr)
	}
	none, _ := parseAldiListings(page, "en", "https://www.aldi-suisse.ch/en/")
	if len(none) != 0 {
		t.Fatalf("unknown language has no keywords, got %+v", none)
	}
}
