package docstore

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "flyersync.db")
	s, err := Open(context.Background(), Config{Driver: "sqlite", URL: path})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	exerciseStore(t, s)
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "flyersync.db")

	s, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Insert(ctx, exampleRecord()); err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	s, err = OpenSQLite(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, err := s.QueryBy(ctx, "lidl", "de")
	if err != nil || len(got) != 1 {
		t.Fatalf("got %d records, err %v", len(got), err)
	}
}
