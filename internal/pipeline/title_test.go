package pipeline

import (
	"testing"

	"flyersync/internal/catalog"
)

func TestRenderTitle(t *testing.T) {
	cases := []struct {
		name    string
		tmpl    string
		several bool
		want    string
	}{
		{"single", "{market} Wöchentlicher Katalog", false, "Lidl Wöchentlicher Katalog"},
		{"several appends validity", "{market} Catalogue de la semaine", true, "Lidl Catalogue de la semaine (17.03. - 22.03.)"},
		{"validity in template", "{market} {validity}", true, "Lidl 17.03. - 22.03."},
		{"week placeholder", "{market} ({week})", false, "Lidl (next)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := RenderTitle(c.tmpl, "lidl", "17.03. - 22.03.", catalog.WeekNext, c.several)
			if got != c.want {
				t.Fatalf("got %q, want %q", got, c.want)
			}
		})
	}
}
