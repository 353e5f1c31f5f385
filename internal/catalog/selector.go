package catalog

import (
	"slices"
	"time"
)

// SelectCurrentAndNext picks the catalog valid today (latest start on or
// before today) and the upcoming one (earliest start after today).
// Undated candidates are ignored. Equal start dates keep scrape order.
// The result is [current, next] with either side possibly missing.
func SelectCurrentAndNext(cands []Candidate, today time.Time) []Selected {
	dated := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if c.StartDate != nil {
			dated = append(dated, c)
		}
	}
	slices.SortStableFunc(dated, func(a, b Candidate) int {
		return dayOf(*a.StartDate).Compare(dayOf(*b.StartDate))
	})

	day := dayOf(today)

	var current, next *Candidate
	for i := len(dated) - 1; i >= 0; i-- {
		if !dayOf(*dated[i].StartDate).After(day) {
			current = &dated[i]
			break
		}
	}
	for i := range dated {
		if dayOf(*dated[i].StartDate).After(day) {
			next = &dated[i]
			break
		}
	}
	if current != nil && next != nil && current.SourceURL == next.SourceURL {
		next = nil
	}

	out := make([]Selected, 0, 2)
	if current != nil {
		out = append(out, Selected{Candidate: *current, WeekType: WeekCurrent})
	}
	if next != nil {
		out = append(out, Selected{Candidate: *next, WeekType: WeekNext})
	}
	return out
}

// dayOf drops the clock and zone so dates compare by calendar day
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
