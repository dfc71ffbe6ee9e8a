package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/incomeclarity/prices-backend/internal/models"
	"github.com/incomeclarity/prices-backend/internal/repository"
	"github.com/incomeclarity/prices-backend/internal/testutil"
)

func seedRecord(ticker string, day time.Time, open, close float64) *models.PriceRecord {
	high := open
	if close > high {
		high = close
	}
	low := open
	if close < low {
		low = close
	}
	return &models.PriceRecord{
		Ticker:        ticker,
		Date:          day,
		Open:          open,
		High:          high + 1,
		Low:           low - 1,
		Close:         close,
		Volume:        10_000,
		AdjustedClose: close,
	}
}

func TestPriceRepo(t *testing.T) {
	pool := testutil.SetupPool(t)
	repo := repository.NewPriceRepo(pool)
	ctx := context.Background()

	day := time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)

	// Insert
	p, err := repo.Insert(ctx, seedRecord("TESTX", day, 100, 105))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if p.ID == 0 {
		t.Fatal("expected non-zero ID")
	}
	if p.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set by the store")
	}
	t.Logf("Inserted: id=%d ticker=%s", p.ID, p.Ticker)

	// Recent (unfiltered)
	recent, err := repo.Recent(ctx, repository.RecentFilter{Limit: 10})
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) == 0 {
		t.Fatal("expected recent rows")
	}
	if len(recent) > 10 {
		t.Fatalf("limit not honored: got %d rows", len(recent))
	}
	for i := 1; i < len(recent); i++ {
		if recent[i].CreatedAt.After(recent[i-1].CreatedAt) {
			t.Fatal("rows not ordered by created_at DESC")
		}
	}
	t.Logf("Recent: %d rows", len(recent))

	// Recent (ticker filter)
	filtered, err := repo.Recent(ctx, repository.RecentFilter{Ticker: "TESTX", Limit: 10})
	if err != nil {
		t.Fatalf("Recent(TESTX): %v", err)
	}
	if len(filtered) == 0 {
		t.Fatal("expected filtered rows")
	}
	for _, r := range filtered {
		if r.Ticker != "TESTX" {
			t.Fatalf("filter leak: got ticker %s", r.Ticker)
		}
	}
	t.Logf("Recent(TESTX): %d rows", len(filtered))

	// Recent (no match) is empty, not an error
	none, err := repo.Recent(ctx, repository.RecentFilter{Ticker: "NOSUCHTICKER", Limit: 10})
	if err != nil {
		t.Fatalf("Recent(no match): %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no rows, got %d", len(none))
	}

	// History
	if _, err := repo.Insert(ctx, seedRecord("TESTX", day.AddDate(0, 0, 1), 105, 103)); err != nil {
		t.Fatalf("Insert day 2: %v", err)
	}
	history, err := repo.History(ctx, "TESTX", 5)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) < 2 {
		t.Fatalf("expected at least 2 sessions, got %d", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].Date.After(history[i-1].Date) {
			t.Fatal("history not ordered by date DESC")
		}
	}
	t.Logf("History: %d sessions", len(history))

	// Tickers
	tickers, err := repo.Tickers(ctx)
	if err != nil {
		t.Fatalf("Tickers: %v", err)
	}
	found := false
	for _, tk := range tickers {
		if tk == "TESTX" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected TESTX in ticker list")
	}
	t.Logf("Tickers: %v", tickers)
}

func TestPriceRepo_InsertBatch(t *testing.T) {
	pool := testutil.SetupPool(t)
	repo := repository.NewPriceRepo(pool)
	ctx := context.Background()

	day := time.Date(2025, 8, 22, 0, 0, 0, 0, time.UTC)
	batch := []models.PriceRecord{
		*seedRecord("BATCHA", day, 10, 11),
		*seedRecord("BATCHB", day, 20, 19),
	}

	inserted, err := repo.InsertBatch(ctx, batch)
	if err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}
	if inserted != 2 {
		t.Fatalf("expected 2 inserted, got %d", inserted)
	}
	t.Logf("InsertBatch: %d rows", inserted)
}
