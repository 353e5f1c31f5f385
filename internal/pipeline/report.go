package pipeline

import (
	"time"

	"flyersync/internal/catalog"
)

// Status is the outcome of one unit of work
type Status string

const (
	StatusPublished    Status = "published"
	StatusUnchanged    Status = "unchanged"
	StatusNoCandidates Status = "no-candidates"
	StatusNoSelection  Status = "no-selection"
	StatusFailed       Status = "failed"
	StatusStoreFailed  Status = "store-failed"
)

// Outcome reports one pair, or one selected catalog of a pair
type Outcome struct {
	Market   string           `json:"market"`
	Language string           `json:"language"`
	WeekType catalog.WeekType `json:"weekType,omitempty"`
	Status   Status           `json:"status"`
	Validity string           `json:"validity,omitempty"`
	Pages    int              `json:"pages,omitempty"`
	RecordID string           `json:"recordId,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// Report is the result of one run
type Report struct {
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Outcomes   []Outcome `json:"outcomes"`
}

// Count returns how many outcomes have status s
func (r Report) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}
