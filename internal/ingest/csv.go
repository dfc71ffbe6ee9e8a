package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/incomeclarity/prices-backend/internal/models"
)

// Expected header: ticker,date,open,high,low,close,volume,adjusted_close
// (the export format of the dashboard's price feed). adjusted_close may be
// blank, in which case close is used.
const expectedColumns = 8

// ParseFile reads an OHLCV CSV export and returns the records it could
// parse plus the line numbers it had to skip.
func ParseFile(path string) ([]models.PriceRecord, []int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return Parse(file)
}

func Parse(r io.Reader) ([]models.PriceRecord, []int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	// Skip header
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, nil, fmt.Errorf("file is empty")
		}
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	var records []models.PriceRecord
	var skipped []int

	line := 1
	for {
		line++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped = append(skipped, line)
			continue
		}

		rec, err := parseRow(row)
		if err != nil {
			fmt.Printf("[INGEST] Line %d skipped: %v\n", line, err)
			skipped = append(skipped, line)
			continue
		}
		records = append(records, *rec)
	}

	return records, skipped, nil
}

func parseRow(row []string) (*models.PriceRecord, error) {
	if len(row) < expectedColumns {
		return nil, fmt.Errorf("expected %d columns, got %d", expectedColumns, len(row))
	}

	ticker := strings.ToUpper(strings.TrimSpace(row[0]))
	if ticker == "" {
		return nil, fmt.Errorf("empty ticker")
	}

	date, err := time.Parse("2006-01-02", strings.TrimSpace(row[1]))
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", row[1], err)
	}

	open, err := parsePrice(row[2], "open")
	if err != nil {
		return nil, err
	}
	high, err := parsePrice(row[3], "high")
	if err != nil {
		return nil, err
	}
	low, err := parsePrice(row[4], "low")
	if err != nil {
		return nil, err
	}
	closePx, err := parsePrice(row[5], "close")
	if err != nil {
		return nil, err
	}

	volume, err := strconv.ParseInt(strings.TrimSpace(row[6]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse volume %q: %w", row[6], err)
	}
	if volume < 0 {
		return nil, fmt.Errorf("negative volume %d", volume)
	}

	adjClose := closePx
	if v := strings.TrimSpace(row[7]); v != "" {
		adjClose, err = parsePrice(v, "adjusted_close")
		if err != nil {
			return nil, err
		}
	}

	if high < open || high < closePx {
		return nil, fmt.Errorf("high %.2f below open/close", high)
	}
	if low > open || low > closePx {
		return nil, fmt.Errorf("low %.2f above open/close", low)
	}

	return &models.PriceRecord{
		Ticker:        ticker,
		Date:          date,
		Open:          open,
		High:          high,
		Low:           low,
		Close:         closePx,
		Volume:        volume,
		AdjustedClose: adjClose,
	}, nil
}

func parsePrice(s, field string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, s, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative %s %.2f", field, v)
	}
	return v, nil
}
