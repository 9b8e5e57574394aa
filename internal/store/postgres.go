package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"marketboard/internal/ticker"
)

const schema = `
CREATE TABLE IF NOT EXISTS tickers (
	symbol TEXT PRIMARY KEY,
	bid_price DOUBLE PRECISION,
	ask_price DOUBLE PRECISION,
	last_price DOUBLE PRECISION,
	prev_price_24h DOUBLE PRECISION,
	price_change_pct_24h DOUBLE PRECISION NOT NULL DEFAULT 0,
	high_price_24h DOUBLE PRECISION,
	low_price_24h DOUBLE PRECISION,
	volume_24h DOUBLE PRECISION,
	turnover_24h DOUBLE PRECISION,
	usd_index_price DOUBLE PRECISION,
	category TEXT NOT NULL DEFAULT 'spot',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_tickers_volume ON tickers (volume_24h DESC NULLS LAST, symbol);
`

const upsertQuery = `
INSERT INTO tickers (
	symbol, bid_price, ask_price, last_price, prev_price_24h,
	price_change_pct_24h, high_price_24h, low_price_24h,
	volume_24h, turnover_24h, usd_index_price, category, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
ON CONFLICT (symbol) DO UPDATE SET
	bid_price = EXCLUDED.bid_price,
	ask_price = EXCLUDED.ask_price,
	last_price = EXCLUDED.last_price,
	prev_price_24h = EXCLUDED.prev_price_24h,
	price_change_pct_24h = EXCLUDED.price_change_pct_24h,
	high_price_24h = EXCLUDED.high_price_24h,
	low_price_24h = EXCLUDED.low_price_24h,
	volume_24h = EXCLUDED.volume_24h,
	turnover_24h = EXCLUDED.turnover_24h,
	usd_index_price = EXCLUDED.usd_index_price,
	category = EXCLUDED.category,
	updated_at = now()
RETURNING (xmax = 0)
`

const listQuery = `
SELECT symbol, bid_price, ask_price, last_price, prev_price_24h,
	price_change_pct_24h, high_price_24h, low_price_24h,
	volume_24h, turnover_24h, usd_index_price, category, updated_at
FROM tickers
ORDER BY volume_24h DESC NULLS LAST, symbol ASC
`

// Postgres is the database-backed Store. Row-level locking on the
// primary key makes the single-statement upsert atomic per symbol, and
// updated_at is stamped server-side so it reflects the actual write.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to the database and ensures the schema exists
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Upsert(ctx context.Context, rec ticker.Record) (bool, error) {
	var created bool

	err := p.pool.QueryRow(ctx, upsertQuery,
		rec.Symbol, rec.BidPrice, rec.AskPrice, rec.LastPrice, rec.PrevPrice24h,
		rec.PriceChangePct24h, rec.HighPrice24h, rec.LowPrice24h,
		rec.Volume24h, rec.Turnover24h, rec.USDIndexPrice, rec.Category,
	).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("failed to upsert ticker %s: %w", rec.Symbol, err)
	}

	return created, nil
}

func (p *Postgres) All(ctx context.Context) ([]ticker.Record, error) {
	rows, err := p.pool.Query(ctx, listQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickers: %w", err)
	}
	defer rows.Close()

	var out []ticker.Record
	for rows.Next() {
		var rec ticker.Record
		if err := rows.Scan(
			&rec.Symbol, &rec.BidPrice, &rec.AskPrice, &rec.LastPrice, &rec.PrevPrice24h,
			&rec.PriceChangePct24h, &rec.HighPrice24h, &rec.LowPrice24h,
			&rec.Volume24h, &rec.Turnover24h, &rec.USDIndexPrice, &rec.Category, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ticker row: %w", err)
		}
		out = append(out, rec)
	}

	return out, rows.Err()
}

func (p *Postgres) Count(ctx context.Context) (int, error) {
	var count int
	if err := p.pool.QueryRow(ctx, "SELECT count(*) FROM tickers").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tickers: %w", err)
	}
	return count, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
