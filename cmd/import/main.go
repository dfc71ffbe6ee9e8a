// import loads daily OHLCV CSV exports into the price_history table.
//
// Usage: import file.csv [file2.csv ...]
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/incomeclarity/prices-backend/internal/config"
	"github.com/incomeclarity/prices-backend/internal/db"
	"github.com/incomeclarity/prices-backend/internal/ingest"
	"github.com/incomeclarity/prices-backend/internal/repository"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: import file.csv [file2.csv ...]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	pool, err := db.Connect(cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "[DB] Connection failed: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := repository.NewPriceRepo(pool)
	totalInserted := 0

	for _, path := range os.Args[1:] {
		fmt.Printf("[IMPORT] Parsing %s ...\n", path)

		records, skipped, err := ingest.ParseFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[IMPORT] %s: %v\n", path, err)
			os.Exit(1)
		}
		if len(skipped) > 0 {
			fmt.Printf("[IMPORT] %s: skipped %d malformed lines\n", path, len(skipped))
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		inserted, err := repo.InsertBatch(ctx, records)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "[IMPORT] %s: inserted %d of %d before failing: %v\n",
				path, inserted, len(records), err)
			os.Exit(1)
		}

		fmt.Printf("[IMPORT] %s: inserted %d records\n", path, inserted)
		totalInserted += inserted
	}

	fmt.Printf("[IMPORT] Done - %d records inserted\n", totalInserted)
}
