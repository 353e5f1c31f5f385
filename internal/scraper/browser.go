package scraper

import (
	"context"
	"time"

	"flyersync/internal/platform/logger"

	"github.com/chromedp/chromedp"
)

// Browser starts a fresh headless Chrome for every scrape and tears it down
// afterwards
type Browser struct {
	headless bool
	timeout  time.Duration
	log      *logger.Logger
}

// NewBrowser returns a Browser whose sessions are cut off after timeout
func NewBrowser(headless bool, timeout time.Duration, log *logger.Logger) *Browser {
	return &Browser{headless: headless, timeout: timeout, log: log}
}

// Do runs fn inside a new browser tab
func (b *Browser) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, args ...any) {
		b.log.Debug().Msgf(format, args...)
	}))
	defer cancelTab()

	return fn(tabCtx)
}

// clickIfPresent waits up to wait for sel to become visible and clicks it.
// Cookie banners and promo pop-ups come and go, so absence is not an error.
func clickIfPresent(ctx context.Context, sel string, wait time.Duration) bool {
	tctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	err := chromedp.Run(tctx,
		chromedp.WaitVisible(sel, chromedp.ByQuery),
		chromedp.Click(sel, chromedp.ByQuery, chromedp.NodeVisible),
	)
	return err == nil
}

// waitFor is WaitVisible bounded by its own timeout
func waitFor(ctx context.Context, sel string, wait time.Duration) error {
	tctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	return chromedp.Run(tctx, chromedp.WaitVisible(sel, chromedp.ByQuery))
}

func pageHTML(ctx context.Context) (string, error) {
	var html string
	err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}
