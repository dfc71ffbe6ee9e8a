package models

import "time"

// PriceRecord is one daily OHLCV row from the price_history table.
// Date is the trading session the prices apply to; CreatedAt is the
// moment the row was ingested, which can differ by days for backfills.
type PriceRecord struct {
	ID            int64     `json:"id"`
	Ticker        string    `json:"ticker"`
	Date          time.Time `json:"date"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Close         float64   `json:"close"`
	Volume        int64     `json:"volume"`
	AdjustedClose float64   `json:"adjustedClose"`
	CreatedAt     time.Time `json:"createdAt"`
}
