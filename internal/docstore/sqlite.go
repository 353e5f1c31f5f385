package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"flyersync/internal/catalog"
	perr "flyersync/internal/platform/errors"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS brochures (
	id          TEXT PRIMARY KEY,
	market_name TEXT NOT NULL,
	language    TEXT NOT NULL,
	title       TEXT NOT NULL,
	validity    TEXT NOT NULL,
	thumbnail   TEXT NOT NULL,
	pages       TEXT NOT NULL,
	week_type   TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS brochures_market_language ON brochures (market_name, language);
`

// SQLite stores records in a local sqlite file
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeDB, "ensure sqlite dir")
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "open sqlite")
	}
	// one writer; the pipeline is sequential anyway
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "pragma journal_mode")
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "create sqlite schema")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "ping sqlite")
	}
	return &SQLite{db: db, now: time.Now}, nil
}

func (s *SQLite) QueryBy(ctx context.Context, market, language string) ([]catalog.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM brochures WHERE market_name = ? AND language = ? ORDER BY created_at`,
		market, language)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "query brochures")
	}
	return scanSQLRows(rows)
}

func (s *SQLite) Insert(ctx context.Context, rec catalog.Record) (string, error) {
	pages, err := json.Marshal(nonNil(rec.Pages))
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeDB, "encode pages")
	}
	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO brochures (id, market_name, language, title, validity, thumbnail, pages, week_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, rec.Market, rec.Language, rec.Title, rec.Validity, rec.Thumbnail, string(pages), string(rec.WeekType), s.now().UTC())
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeDB, "insert brochure")
	}
	return id, nil
}

func (s *SQLite) Delete(ctx context.Context, rec catalog.Record) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM brochures WHERE id = ?`, rec.ID)
	return perr.WrapIf(err, perr.ErrorCodeDB, "delete brochure")
}

func (s *SQLite) DeleteBy(ctx context.Context, market, language string) (int, error) {
	q := `DELETE FROM brochures WHERE market_name = ?`
	args := []any{market}
	if language != "" {
		q += ` AND language = ?`
		args = append(args, language)
	}
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, perr.Wrap(err, perr.ErrorCodeDB, "delete brochures")
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *SQLite) List(ctx context.Context) ([]catalog.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM brochures`+orderListing)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "list brochures")
	}
	return scanSQLRows(rows)
}

func (s *SQLite) Get(ctx context.Context, id string) (catalog.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM brochures WHERE id = ?`, id)
	if err != nil {
		return catalog.Record{}, perr.Wrap(err, perr.ErrorCodeDB, "get brochure")
	}
	recs, err := scanSQLRows(rows)
	if err != nil {
		return catalog.Record{}, err
	}
	if len(recs) == 0 {
		return catalog.Record{}, perr.NotFoundf("catalog %s not found", id)
	}
	return recs[0], nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func scanSQLRows(rows *sql.Rows) ([]catalog.Record, error) {
	defer rows.Close()
	var out []catalog.Record
	for rows.Next() {
		var (
			r     catalog.Record
			pages string
			week  string
		)
		if err := rows.Scan(&r.ID, &r.Market, &r.Language, &r.Title, &r.Validity, &r.Thumbnail, &pages, &week, &r.CreatedAt); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeDB, "scan brochure")
		}
		if err := json.Unmarshal([]byte(pages), &r.Pages); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeDB, "decode pages")
		}
		r.WeekType = catalog.WeekType(week)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "iterate brochures")
	}
	return out, nil
}

func nonNil(p []string) []string {
	if p == nil {
		return []string{}
	}
	return p
}
