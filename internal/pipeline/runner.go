// Package pipeline drives a run: scrape, compare with what is stored, select
// the current and next catalogs, then fetch, rasterize, publish and record
// each of them, one (market, language) pair at a time.
package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"flyersync/internal/catalog"
	"flyersync/internal/config"
	perr "flyersync/internal/platform/errors"
	"flyersync/internal/platform/logger"
	"flyersync/internal/publish"
)

// Options tune a Runner
type Options struct {
	Targets []config.Target
	DPI     float64
	// Force reprocesses pairs even when the validity texts are unchanged
	Force bool
	Now   func() time.Time
}

// Runner executes runs sequentially; it is not safe for concurrent Run calls
type Runner struct {
	deps Deps
	opts Options
	log  *logger.Logger
}

// New returns a Runner over deps
func New(deps Deps, opts Options, log *logger.Logger) *Runner {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DPI <= 0 {
		opts.DPI = config.DefaultDPI
	}
	return &Runner{deps: deps, opts: opts, log: log}
}

// Targets returns the configured targets in processing order
func (r *Runner) Targets() []config.Target { return r.opts.Targets }

// Run processes every configured target
func (r *Runner) Run(ctx context.Context) Report {
	return r.run(ctx, r.opts.Targets)
}

// RunMarket processes only the targets of market
func (r *Runner) RunMarket(ctx context.Context, market string) Report {
	var ts []config.Target
	for _, t := range r.opts.Targets {
		if t.Market == market {
			ts = append(ts, t)
		}
	}
	return r.run(ctx, ts)
}

func (r *Runner) run(ctx context.Context, targets []config.Target) Report {
	rep := Report{StartedAt: r.opts.Now()}
	defer func() {
		if err := r.deps.Scratch.Release(); err != nil {
			r.log.Error().Err(err).Msg("release scratch area")
		}
	}()

	r.log.Info().Int("targets", len(targets)).Msg("run started")
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			r.log.Warn().Err(err).Msg("run cancelled")
			break
		}
		rep.Outcomes = append(rep.Outcomes, r.processPair(ctx, t)...)
	}
	rep.FinishedAt = r.opts.Now()
	r.log.Info().
		Int("published", rep.Count(StatusPublished)).
		Int("unchanged", rep.Count(StatusUnchanged)).
		Int("failed", rep.Count(StatusFailed)+rep.Count(StatusStoreFailed)).
		Dur("took", rep.FinishedAt.Sub(rep.StartedAt)).
		Msg("run finished")
	return rep
}

func (r *Runner) processPair(ctx context.Context, t config.Target) []Outcome {
	log := r.log.With().Str("market", t.Market).Str("language", t.Language).Logger()
	base := Outcome{Market: t.Market, Language: t.Language}
	fail := func(status Status, err error) []Outcome {
		o := base
		o.Status, o.Error = status, err.Error()
		return []Outcome{o}
	}

	log.Info().Msg("processing pair")
	if err := r.deps.Scratch.Reset(); err != nil {
		log.Error().Err(err).Msg("clear scratch area")
		return fail(StatusFailed, err)
	}

	listings := r.deps.Scraper.Scrape(ctx, t.Market, t.Language, t.URL)
	if len(listings) == 0 {
		log.Warn().Msg("no catalogs found, skipping")
		o := base
		o.Status = StatusNoCandidates
		return []Outcome{o}
	}

	stored, err := r.deps.Store.QueryBy(ctx, t.Market, t.Language)
	if err != nil {
		log.Error().Err(err).Msg("read stored catalogs")
		return fail(StatusStoreFailed, err)
	}
	if !catalog.NeedsUpdate(catalog.ListingValidities(listings), catalog.Validities(stored)) && !r.opts.Force {
		log.Info().Msg("catalogs unchanged, skipping")
		o := base
		o.Status = StatusUnchanged
		return []Outcome{o}
	}

	today := r.opts.Now()
	selected := catalog.SelectCurrentAndNext(catalog.NewCandidates(listings, today), today)
	if len(selected) == 0 {
		log.Warn().Int("listings", len(listings)).Msg("no dated catalog to select, skipping")
		o := base
		o.Status = StatusNoSelection
		return []Outcome{o}
	}

	out := make([]Outcome, 0, len(selected))
	for _, sel := range selected {
		out = append(out, r.processSelected(ctx, t, sel, stored, len(selected) > 1, today))
	}
	return out
}

func (r *Runner) processSelected(ctx context.Context, t config.Target, sel catalog.Selected, stored []catalog.Record, several bool, today time.Time) Outcome {
	week := string(sel.WeekType)
	log := r.log.With().
		Str("market", t.Market).Str("language", t.Language).
		Str("week_type", week).Str("validity", sel.ValidityText).
		Logger()
	o := Outcome{Market: t.Market, Language: t.Language, WeekType: sel.WeekType, Validity: sel.ValidityText}
	failed := func(step string, err error) Outcome {
		log.Error().Err(err).Str("step", step).Str("code", perr.CodeOf(err).String()).Msg("catalog skipped")
		o.Status, o.Error = StatusFailed, step+": "+err.Error()
		return o
	}

	pdf, err := r.deps.Fetcher.Fetch(ctx, sel.SourceURL, r.deps.Scratch.PDFPath(t.Market, t.Language, week))
	if err != nil {
		return failed("fetch", err)
	}

	dir, err := r.deps.Scratch.ImageDir(t.Market, t.Language, week)
	if err != nil {
		return failed("rasterize", err)
	}
	images, err := r.deps.Rasterizer.Rasterize(ctx, pdf, dir, r.opts.DPI)
	if err != nil {
		return failed("rasterize", err)
	}
	if len(images) == 0 {
		return failed("rasterize", perr.Newf(perr.ErrorCodeIO, "no pages rendered"))
	}

	stamp := today.Format("20060102")
	refs := make([]string, 0, len(images))
	for _, img := range images {
		key := publish.Key(t.Market, t.Language, week, stamp, filepath.Base(img))
		ref, err := r.deps.Publisher.Publish(ctx, img, key)
		if err != nil {
			return failed("publish", err)
		}
		refs = append(refs, ref)
	}
	log.Info().Int("pages", len(refs)).Msg("pages published")

	rec := catalog.Record{
		Market:    t.Market,
		Language:  t.Language,
		Title:     RenderTitle(t.TitleTemplate, t.Market, sel.ValidityText, sel.WeekType, several),
		Validity:  sel.ValidityText,
		Thumbnail: refs[0],
		Pages:     refs,
		WeekType:  sel.WeekType,
	}
	id, err := r.replace(ctx, stored, rec)
	if err != nil {
		log.Error().Err(err).Msg("store catalog")
		o.Status, o.Error = StatusStoreFailed, err.Error()
		return o
	}
	log.Info().Str("id", id).Msg("catalog stored")
	o.Status, o.Pages, o.RecordID = StatusPublished, len(refs), id
	return o
}

// replace deletes the stored records occupying rec's week slot, then inserts
// rec. Records without a week type predate week tracking and are cleared too.
// Not atomic: a failure after a delete leaves the slot empty until next run.
func (r *Runner) replace(ctx context.Context, stored []catalog.Record, rec catalog.Record) (string, error) {
	for _, old := range stored {
		if old.WeekType != rec.WeekType && old.WeekType != "" {
			continue
		}
		if err := r.deps.Store.Delete(ctx, old); err != nil {
			return "", err
		}
	}
	return r.deps.Store.Insert(ctx, rec)
}
