package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"flyersync/internal/catalog"
	"flyersync/internal/docstore"
	perr "flyersync/internal/platform/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// LoadRecords reads a JSON array of records. A missing file yields none.
func LoadRecords(path string) ([]catalog.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []catalog.Record{}, nil
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "read %s", path)
	}

	var recs []catalog.Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeValidation, "decode %s", path)
	}
	for i, r := range recs {
		if err := validate.Struct(r); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeValidation, "record %d", i)
		}
	}
	return recs, nil
}

// SaveRecords writes recs as an indented JSON array
func SaveRecords(path string, recs []catalog.Record) error {
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "encode records")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeIO, "create %s", dir)
		}
	}
	return perr.WrapIf(os.WriteFile(path, data, 0o644), perr.ErrorCodeIO, "write records")
}

// Seed inserts recs as new documents. Ids and timestamps in the input are
// replaced by the store's own.
func Seed(ctx context.Context, store docstore.Store, recs []catalog.Record) (int, error) {
	n := 0
	for _, r := range recs {
		if _, err := store.Insert(ctx, r); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
