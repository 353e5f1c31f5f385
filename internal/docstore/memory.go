package docstore

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"flyersync/internal/catalog"
	perr "flyersync/internal/platform/errors"

	"github.com/google/uuid"
)

// Memory is an in-process store for dry runs and tests
type Memory struct {
	mu   sync.Mutex
	recs []catalog.Record
	now  func() time.Time
}

// NewMemory returns an empty store
func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func clone(r catalog.Record) catalog.Record {
	r.Pages = slices.Clone(r.Pages)
	return r
}

func (m *Memory) QueryBy(_ context.Context, market, language string) ([]catalog.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []catalog.Record
	for _, r := range m.recs {
		if r.Market == market && r.Language == language {
			out = append(out, clone(r))
		}
	}
	return out, nil
}

func (m *Memory) Insert(_ context.Context, rec catalog.Record) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec = clone(rec)
	rec.Pages = nonNil(rec.Pages)
	rec.ID = uuid.NewString()
	rec.CreatedAt = m.now().UTC()
	m.recs = append(m.recs, rec)
	return rec.ID, nil
}

func (m *Memory) Delete(_ context.Context, rec catalog.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = slices.DeleteFunc(m.recs, func(r catalog.Record) bool { return r.ID == rec.ID })
	return nil
}

func (m *Memory) DeleteBy(_ context.Context, market, language string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.recs)
	m.recs = slices.DeleteFunc(m.recs, func(r catalog.Record) bool {
		return r.Market == market && (language == "" || r.Language == language)
	})
	return before - len(m.recs), nil
}

func (m *Memory) List(_ context.Context) ([]catalog.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]catalog.Record, 0, len(m.recs))
	for _, r := range m.recs {
		out = append(out, clone(r))
	}
	slices.SortStableFunc(out, func(a, b catalog.Record) int {
		return cmp.Or(
			cmp.Compare(a.Market, b.Market),
			cmp.Compare(a.Language, b.Language),
			cmp.Compare(a.WeekType, b.WeekType),
		)
	})
	return out, nil
}

func (m *Memory) Get(_ context.Context, id string) (catalog.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.recs {
		if r.ID == id {
			return clone(r), nil
		}
	}
	return catalog.Record{}, perr.NotFoundf("catalog %s not found", id)
}

func (m *Memory) Close() error { return nil }
