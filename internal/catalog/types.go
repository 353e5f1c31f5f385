// Package catalog holds the weekly catalog domain: scraped listings, dated
// candidates, the current/next selection and the persisted record shape.
package catalog

import "time"

// WeekType classifies a selected catalog relative to today
type WeekType string

const (
	WeekCurrent WeekType = "current"
	WeekNext    WeekType = "next"
)

// Listing is a raw (url, validity text) pair as produced by a scraper
type Listing struct {
	SourceURL    string
	ValidityText string
}

// Candidate is a listing with its parsed start date. StartDate is nil when
// the validity text carries no usable date.
type Candidate struct {
	SourceURL    string
	ValidityText string
	StartDate    *time.Time
}

// NewCandidate parses the validity text of l relative to today
func NewCandidate(l Listing, today time.Time) Candidate {
	c := Candidate{SourceURL: l.SourceURL, ValidityText: l.ValidityText}
	if d, ok := ExtractStartDate(l.ValidityText, today); ok {
		c.StartDate = &d
	}
	return c
}

// NewCandidates maps NewCandidate over listings, keeping scrape order
func NewCandidates(ls []Listing, today time.Time) []Candidate {
	out := make([]Candidate, 0, len(ls))
	for _, l := range ls {
		out = append(out, NewCandidate(l, today))
	}
	return out
}

// Selected is a candidate chosen as the current or next catalog
type Selected struct {
	Candidate
	WeekType WeekType
}

// Record is the persisted catalog document. One current and one next record
// exist per (market, language); updates replace records, never patch them.
type Record struct {
	ID        string    `json:"id"`
	Market    string    `json:"marketName" validate:"required"`
	Language  string    `json:"language" validate:"required"`
	Title     string    `json:"title"`
	Validity  string    `json:"validity"`
	Thumbnail string    `json:"thumbnail"`
	Pages     []string  `json:"pages" validate:"dive,required"`
	WeekType  WeekType  `json:"weekType" validate:"omitempty,oneof=current next"`
	CreatedAt time.Time `json:"timestamp"`
}

// Validities returns the validity text of each record
func Validities(recs []Record) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Validity)
	}
	return out
}

// ListingValidities returns the validity text of each listing
func ListingValidities(ls []Listing) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.ValidityText)
	}
	return out
}
