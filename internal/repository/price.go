package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/incomeclarity/prices-backend/internal/models"
)

type PriceRepo struct {
	pool *pgxpool.Pool
}

func NewPriceRepo(pool *pgxpool.Pool) *PriceRepo {
	return &PriceRepo{pool: pool}
}

// RecentFilter narrows a Recent query. A zero-value filter matches
// everything; callers are responsible for uppercasing Ticker.
type RecentFilter struct {
	Ticker string // exact match when non-empty
	Limit  int
}

// Recent returns the newest rows by ingestion time. Rows inserted in the
// same batch share created_at, so date breaks the tie.
func (r *PriceRepo) Recent(ctx context.Context, f RecentFilter) ([]models.PriceRecord, error) {
	query, args := buildTickerQuery(
		`SELECT id, ticker, date, open, high, low, close, volume, adjusted_close, created_at
		 FROM price_history WHERE 1=1`,
		nil,
		f.Ticker,
	)
	args = append(args, f.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC, date DESC LIMIT $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPrices(rows)
}

// History returns a symbol's sessions, newest trading day first.
func (r *PriceRepo) History(ctx context.Context, ticker string, limit int) ([]models.PriceRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, ticker, date, open, high, low, close, volume, adjusted_close, created_at
		 FROM price_history WHERE ticker = $1 ORDER BY date DESC LIMIT $2`,
		ticker, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPrices(rows)
}

// Tickers returns the distinct symbols present in the store.
func (r *PriceRepo) Tickers(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT ticker FROM price_history ORDER BY ticker ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tickers = append(tickers, t)
	}
	return tickers, rows.Err()
}

func (r *PriceRepo) Insert(ctx context.Context, p *models.PriceRecord) (*models.PriceRecord, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO price_history
		 (ticker, date, open, high, low, close, volume, adjusted_close)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 RETURNING id, ticker, date, open, high, low, close, volume, adjusted_close, created_at`,
		p.Ticker, p.Date, p.Open, p.High, p.Low, p.Close, p.Volume, p.AdjustedClose,
	)
	return scanPrice(row)
}

// InsertBatch loads records one statement at a time; importer volumes are
// small enough that COPY is not worth the extra plumbing.
func (r *PriceRepo) InsertBatch(ctx context.Context, records []models.PriceRecord) (int, error) {
	inserted := 0
	for i := range records {
		if _, err := r.Insert(ctx, &records[i]); err != nil {
			return inserted, fmt.Errorf("insert %s %s: %w",
				records[i].Ticker, records[i].Date.Format("2006-01-02"), err)
		}
		inserted++
	}
	return inserted, nil
}

// buildTickerQuery appends a ticker clause when ticker is non-empty.
func buildTickerQuery(baseQuery string, baseArgs []any, ticker string) (string, []any) {
	if ticker == "" {
		return baseQuery, baseArgs
	}
	args := append(baseArgs, ticker)
	return baseQuery + fmt.Sprintf(" AND ticker = $%d", len(args)), args
}

// --- scan helpers ---

type scannable interface {
	Scan(dest ...any) error
}

func scanPrice(row scannable) (*models.PriceRecord, error) {
	var p models.PriceRecord
	err := row.Scan(&p.ID, &p.Ticker, &p.Date, &p.Open, &p.High, &p.Low,
		&p.Close, &p.Volume, &p.AdjustedClose, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

type rowsIter interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func collectPrices(rows rowsIter) ([]models.PriceRecord, error) {
	var out []models.PriceRecord
	for rows.Next() {
		var p models.PriceRecord
		if err := rows.Scan(&p.ID, &p.Ticker, &p.Date, &p.Open, &p.High, &p.Low,
			&p.Close, &p.Volume, &p.AdjustedClose, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
