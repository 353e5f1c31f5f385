package pipeline

import (
	"strings"

	"flyersync/internal/catalog"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RenderTitle fills {market}, {validity} and {week} in tmpl. When several
// catalogs are published for the same pair and the template does not show
// the validity, it is appended so the titles stay distinguishable.
func RenderTitle(tmpl, market, validity string, week catalog.WeekType, several bool) string {
	title := strings.NewReplacer(
		"{market}", cases.Title(language.Und).String(market),
		"{validity}", validity,
		"{week}", string(week),
	).Replace(tmpl)
	if several && !strings.Contains(tmpl, "{validity}") && validity != "" {
		title += " (" + validity + ")"
	}
	return strings.TrimSpace(title)
}
