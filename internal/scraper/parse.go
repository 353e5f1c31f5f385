package scraper

import (
	"net/url"
	"regexp"
	"strings"

	"flyersync/internal/catalog"
	perr "flyersync/internal/platform/errors"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

var dashes = strings.NewReplacer("–", "-", "—", "-", "−", "-")

// CleanText normalises scraped text: NFKC (non-breaking spaces become
// spaces), dash variants folded to '-', whitespace runs collapsed
func CleanText(s string) string {
	s = dashes.Replace(norm.NFKC.String(s))
	return strings.Join(strings.Fields(s), " ")
}

func absURL(base, href string) string {
	href = strings.TrimSpace(href)
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}

func parseDoc(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "parse html")
	}
	return doc, nil
}

// lidlRange is a "17.03. - 22.03." style range inside the flyer teaser
var lidlRange = regexp.MustCompile(`\d{1,2}\.\d{1,2}\.?\s*-\s*\d{1,2}\.\d{1,2}\.?`)

const lidlDefaultValidity = "Valid this week"

// lidlValidity extracts the date range from a flyer teaser text
func lidlValidity(text string) string {
	if m := lidlRange.FindString(CleanText(text)); m != "" {
		return m
	}
	return lidlDefaultValidity
}

// parseLidlFlyer returns the absolute href and text of the first a.flyer
func parseLidlFlyer(html, base string) (string, string, error) {
	doc, err := parseDoc(html)
	if err != nil {
		return "", "", err
	}
	a := doc.Find("a.flyer").First()
	href, ok := a.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return "", "", perr.Unavailablef("no flyer link on %s", base)
	}
	return absURL(base, href), CleanText(a.Text()), nil
}

var lidlPDFWords = []string{"pdf", "herunterladen", "prospectus", "volantino"}

// parseLidlPDFLink finds the download link in the flyer viewer menu, falling
// back to any link to a .pdf
func parseLidlPDFLink(html, base string) (string, error) {
	doc, err := parseDoc(html)
	if err != nil {
		return "", err
	}
	var found string
	doc.Find("a.button--primary").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.ToLower(s.Text())
		for _, w := range lidlPDFWords {
			if strings.Contains(text, w) {
				if href, ok := s.Attr("href"); ok && href != "" {
					found = href
					return false
				}
			}
		}
		return true
	})
	if found == "" {
		if href, ok := doc.Find(`a[href*=".pdf"]`).First().Attr("href"); ok {
			found = href
		}
	}
	if found == "" {
		return "", perr.Unavailablef("no pdf link in flyer viewer %s", base)
	}
	return absURL(base, found), nil
}

// aldiKeywords mark a leaflet card as the weekly catalog, per language
var aldiKeywords = map[string][]string{
	"de": {"gültig", "woche", "aktionen", "montag", "donnerstag"},
	"fr": {"valables", "semaine", "actions", "lundi", "jeudi"},
	"it": {"valide", "settimana", "azioni", "lunedì", "giovedì"},
}

// parseAldiListings returns the weekly leaflets of an Aldi brochure page in
// page order
func parseAldiListings(html, language, base string) ([]catalog.Listing, error) {
	doc, err := parseDoc(html)
	if err != nil {
		return nil, err
	}
	words := aldiKeywords[language]
	seen := map[string]bool{}
	var out []catalog.Listing

	doc.Find("article.wrapper").Each(func(_ int, card *goquery.Selection) {
		content := card.Find(".card_leaflet__content").First()
		if content.Length() == 0 {
			return
		}
		text := strings.ToLower(CleanText(content.Text()))
		if !containsAny(text, words) {
			return
		}
		validity := CleanText(content.Find("p").First().Text())
		href, ok := card.Find(`a[href*="s7g10"]`).First().Attr("href")
		if !ok || validity == "" {
			return
		}
		u := absURL(base, href)
		if seen[u] {
			return
		}
		seen[u] = true
		out = append(out, catalog.Listing{SourceURL: u, ValidityText: validity})
	})
	return out, nil
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
