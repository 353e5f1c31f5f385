package scraper

import (
	"context"
	"time"

	"flyersync/internal/catalog"
	perr "flyersync/internal/platform/errors"
	"flyersync/internal/platform/logger"

	"github.com/chromedp/chromedp"
)

const aldiPromoClose = "button.close-modal"

// Aldi scrapes every weekly leaflet of an Aldi Suisse brochure page
type Aldi struct {
	browser *Browser
	log     *logger.Logger
}

// NewAldi returns the Aldi source
func NewAldi(b *Browser, log *logger.Logger) *Aldi {
	return &Aldi{browser: b, log: log}
}

// Listings returns all leaflet cards whose text marks them as weekly catalogs
func (a *Aldi) Listings(ctx context.Context, language, pageURL string) ([]catalog.Listing, error) {
	var out []catalog.Listing
	err := a.browser.Do(ctx, func(ctx context.Context) error {
		if err := chromedp.Run(ctx, chromedp.Navigate(pageURL), chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnavailable, "open %s", pageURL)
		}
		if clickIfPresent(ctx, oneTrustAccept, 10*time.Second) {
			a.log.Debug().Str("language", language).Msg("accepted cookie banner")
		}
		if clickIfPresent(ctx, aldiPromoClose, 5*time.Second) {
			a.log.Debug().Str("language", language).Msg("closed promotion pop-up")
		}

		if err := waitFor(ctx, "article.wrapper", 20*time.Second); err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnavailable, "wait for leaflets")
		}
		html, err := pageHTML(ctx)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnavailable, "read brochure html")
		}
		out, err = parseAldiListings(html, language, pageURL)
		return err
	})
	return out, err
}
