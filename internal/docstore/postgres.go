package docstore

import (
	"context"
	"fmt"
	"time"

	"flyersync/internal/catalog"
	perr "flyersync/internal/platform/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS brochures (
	id          TEXT PRIMARY KEY,
	market_name TEXT NOT NULL,
	language    TEXT NOT NULL,
	title       TEXT NOT NULL,
	validity    TEXT NOT NULL,
	thumbnail   TEXT NOT NULL,
	pages       JSONB NOT NULL DEFAULT '[]',
	week_type   TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS brochures_market_language ON brochures (market_name, language);
`

// Postgres stores records in a pgx pool
type Postgres struct {
	pool *pgxpool.Pool
}

var newPool = pgxpool.NewWithConfig

// OpenPostgres connects, pings with backoff and ensures the schema
func OpenPostgres(ctx context.Context, cfg Config) (*Postgres, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "parse postgres url")
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "create postgres pool")
	}

	const (
		maxAttempts    = 10
		pingTimeout    = 3 * time.Second
		backoffStart   = 150 * time.Millisecond
		backoffCeiling = 2 * time.Second
	)
	var lastErr error
	backoff := backoffStart
	for i := 0; i < maxAttempts; i++ {
		toCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = pool.Ping(toCtx)
		cancel()
		if lastErr == nil {
			break
		}
		if ctx.Err() != nil {
			pool.Close()
			return nil, ctx.Err()
		}
		time.Sleep(backoff)
		backoff = min(backoff*2, backoffCeiling)
	}
	if lastErr != nil {
		pool.Close()
		return nil, perr.Wrap(fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr), perr.ErrorCodeDB, "ping postgres")
	}

	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "create postgres schema")
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) QueryBy(ctx context.Context, market, language string) ([]catalog.Record, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+selectColumns+` FROM brochures WHERE market_name = $1 AND language = $2 ORDER BY created_at`,
		market, language)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "query brochures")
	}
	return collectPG(rows)
}

func (p *Postgres) Insert(ctx context.Context, rec catalog.Record) (string, error) {
	id := uuid.NewString()
	_, err := p.pool.Exec(ctx,
		`INSERT INTO brochures (id, market_name, language, title, validity, thumbnail, pages, week_type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, rec.Market, rec.Language, rec.Title, rec.Validity, rec.Thumbnail, nonNil(rec.Pages), string(rec.WeekType))
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeDB, "insert brochure")
	}
	return id, nil
}

func (p *Postgres) Delete(ctx context.Context, rec catalog.Record) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM brochures WHERE id = $1`, rec.ID)
	return perr.WrapIf(err, perr.ErrorCodeDB, "delete brochure")
}

func (p *Postgres) DeleteBy(ctx context.Context, market, language string) (int, error) {
	tag, err := p.pool.Exec(ctx,
		`DELETE FROM brochures WHERE market_name = $1 AND ($2::text = '' OR language = $2)`,
		market, language)
	if err != nil {
		return 0, perr.Wrap(err, perr.ErrorCodeDB, "delete brochures")
	}
	return int(tag.RowsAffected()), nil
}

func (p *Postgres) List(ctx context.Context) ([]catalog.Record, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+selectColumns+` FROM brochures`+orderListing)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "list brochures")
	}
	return collectPG(rows)
}

func (p *Postgres) Get(ctx context.Context, id string) (catalog.Record, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+selectColumns+` FROM brochures WHERE id = $1`, id)
	if err != nil {
		return catalog.Record{}, perr.Wrap(err, perr.ErrorCodeDB, "get brochure")
	}
	recs, err := collectPG(rows)
	if err != nil {
		return catalog.Record{}, err
	}
	if len(recs) == 0 {
		return catalog.Record{}, perr.NotFoundf("catalog %s not found", id)
	}
	return recs[0], nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func collectPG(rows pgx.Rows) ([]catalog.Record, error) {
	recs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.Record, error) {
		var (
			r    catalog.Record
			week string
		)
		err := row.Scan(&r.ID, &r.Market, &r.Language, &r.Title, &r.Validity, &r.Thumbnail, &r.Pages, &week, &r.CreatedAt)
		r.WeekType = catalog.WeekType(week)
		return r, err
	})
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "scan brochures")
	}
	return recs, nil
}
