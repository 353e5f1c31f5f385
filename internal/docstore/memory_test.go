package docstore

import (
	"context"
	"strings"
	"testing"

	"flyersync/internal/catalog"
	perr "flyersync/internal/platform/errors"
)

// exerciseStore runs the shared behaviour checks against any backend
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	recs := []catalog.Record{
		{Market: "lidl", Language: "de", Title: "Lidl Katalog", Validity: "17.03.-22.03.", Thumbnail: "t1", Pages: []string{"p1", "p2"}, WeekType: catalog.WeekCurrent},
		{Market: "lidl", Language: "de", Title: "Lidl Katalog", Validity: "24.03.-29.03.", Thumbnail: "t2", Pages: []string{"p3"}, WeekType: catalog.WeekNext},
		{Market: "lidl", Language: "fr", Title: "Lidl Catalogue", Validity: "17.03.-22.03.", Thumbnail: "t3", Pages: nil, WeekType: catalog.WeekCurrent},
		{Market: "aldi", Language: "de", Title: "Aldi Aktionen", Validity: "gültig ab 20.3.", Thumbnail: "t4", Pages: []string{"a"}},
	}
	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		id, err := s.Insert(ctx, r)
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		if id == "" {
			t.Fatal("empty id")
		}
		ids = append(ids, id)
	}

	got, err := s.QueryBy(ctx, "lidl", "de")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 lidl/de records, got %d", len(got))
	}
	for _, r := range got {
		if r.CreatedAt.IsZero() {
			t.Fatal("created_at not assigned")
		}
	}

	one, err := s.Get(ctx, ids[0])
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if one.Title != "Lidl Katalog" || len(one.Pages) != 2 || one.Pages[1] != "p2" || one.WeekType != catalog.WeekCurrent {
		t.Fatalf("round trip mismatch: %+v", one)
	}
	fr, err := s.Get(ctx, ids[2])
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fr.Pages == nil || len(fr.Pages) != 0 {
		t.Fatalf("nil pages should come back empty, got %#v", fr.Pages)
	}

	if _, err := s.Get(ctx, "missing"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	all, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 || all[0].Market != "aldi" || all[1].WeekType != catalog.WeekCurrent || all[2].WeekType != catalog.WeekNext {
		t.Fatalf("unexpected listing order: %+v", all)
	}

	if err := s.Delete(ctx, one); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, one); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
	got, _ = s.QueryBy(ctx, "lidl", "de")
	if len(got) != 1 || got[0].WeekType != catalog.WeekNext {
		t.Fatalf("after delete: %+v", got)
	}

	n, err := s.DeleteBy(ctx, "lidl", "")
	if err != nil || n != 2 {
		t.Fatalf("delete by market: n=%d err=%v", n, err)
	}
	n, err = s.DeleteBy(ctx, "aldi", "fr")
	if err != nil || n != 0 {
		t.Fatalf("delete by language: n=%d err=%v", n, err)
	}
	all, _ = s.List(ctx)
	if len(all) != 1 || all[0].Market != "aldi" {
		t.Fatalf("remaining: %+v", all)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	id, _ := m.Insert(ctx, catalog.Record{Market: "lidl", Language: "it", Pages: []string{"a"}})

	r, _ := m.Get(ctx, id)
	r.Pages[0] = "mutated"

	again, _ := m.Get(ctx, id)
	if again.Pages[0] != "a" {
		t.Fatal("store shares page slices with callers")
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	for _, name := range []string{"firestore", "pg", "sqlite3"} {
		if ValidDriver(name) {
			t.Fatalf("%s should not be a valid driver", name)
		}
		_, err := Open(context.Background(), Config{Driver: name})
		if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
			t.Fatalf("%s: expected invalid argument, got %v", name, err)
		}
	}
	for _, name := range Drivers {
		if !ValidDriver(strings.ToUpper(name)) {
			t.Fatalf("%s should be valid in any case", name)
		}
	}
	s, err := Open(context.Background(), Config{Driver: "Memory"})
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Close()
}
