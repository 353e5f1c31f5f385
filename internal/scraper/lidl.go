package scraper

import (
	"context"
	"time"

	"flyersync/internal/catalog"
	perr "flyersync/internal/platform/errors"
	"flyersync/internal/platform/logger"

	"github.com/chromedp/chromedp"
)

const (
	oneTrustAccept  = "#onetrust-accept-btn-handler"
	lidlMenuButton  = "button:has(svg.icon-bars-horizontal)"
	lidlViewerReady = `span.button__icon svg.icon-bars-horizontal, a[href*=".pdf"]`
	lidlPDFLinks    = `a.button--primary, a[href*=".pdf"]`
)

// Lidl scrapes the single current flyer of a Lidl PDF overview page
type Lidl struct {
	browser *Browser
	log     *logger.Logger
}

// NewLidl returns the Lidl source
func NewLidl(b *Browser, log *logger.Logger) *Lidl {
	return &Lidl{browser: b, log: log}
}

// Listings opens the overview, takes the first flyer and reads the PDF link
// from the viewer menu
func (l *Lidl) Listings(ctx context.Context, language, pageURL string) ([]catalog.Listing, error) {
	var out []catalog.Listing
	err := l.browser.Do(ctx, func(ctx context.Context) error {
		if err := chromedp.Run(ctx, chromedp.Navigate(pageURL), chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnavailable, "open %s", pageURL)
		}
		if clickIfPresent(ctx, oneTrustAccept, 5*time.Second) {
			l.log.Debug().Str("language", language).Msg("accepted cookie banner")
		}

		if err := waitFor(ctx, "a.flyer", 20*time.Second); err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnavailable, "wait for flyers")
		}
		overview, err := pageHTML(ctx)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnavailable, "read overview html")
		}
		viewerURL, teaser, err := parseLidlFlyer(overview, pageURL)
		if err != nil {
			return err
		}
		validity := lidlValidity(teaser)
		l.log.Info().Str("language", language).Str("validity", validity).Str("url", viewerURL).Msg("found flyer")

		if err := chromedp.Run(ctx, chromedp.Navigate(viewerURL)); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnavailable, "open viewer %s", viewerURL)
		}
		if err := waitFor(ctx, lidlViewerReady, 15*time.Second); err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnavailable, "wait for viewer")
		}
		if !clickIfPresent(ctx, lidlMenuButton, 10*time.Second) {
			l.log.Debug().Msg("viewer menu button not clickable, looking for a direct pdf link")
		}
		_ = waitFor(ctx, lidlPDFLinks, 10*time.Second)

		viewer, err := pageHTML(ctx)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnavailable, "read viewer html")
		}
		pdf, err := parseLidlPDFLink(viewer, viewerURL)
		if err != nil {
			return err
		}
		out = []catalog.Listing{{SourceURL: pdf, ValidityText: validity}}
		return nil
	})
	return out, err
}
