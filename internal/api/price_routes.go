package api

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/incomeclarity/prices-backend/internal/models"
	"github.com/incomeclarity/prices-backend/internal/repository"
)

// priceView is the client-facing shape of a price record. Date is
// truncated to the calendar day; dayChange and dayChangePercent are
// computed per request, never stored.
type priceView struct {
	ID               int64   `json:"id"`
	Ticker           string  `json:"ticker"`
	Date             string  `json:"date"`
	Open             float64 `json:"open"`
	High             float64 `json:"high"`
	Low              float64 `json:"low"`
	Close            float64 `json:"close"`
	Volume           int64   `json:"volume"`
	AdjustedClose    float64 `json:"adjustedClose"`
	CreatedAt        string  `json:"createdAt"`
	DayChange        float64 `json:"dayChange"`
	DayChangePercent float64 `json:"dayChangePercent"`
}

type recentPricesResponse struct {
	Success bool        `json:"success"`
	Count   int         `json:"count"`
	Prices  []priceView `json:"prices"`
}

func newPriceView(p models.PriceRecord) priceView {
	return priceView{
		ID:               p.ID,
		Ticker:           p.Ticker,
		Date:             p.Date.Format("2006-01-02"),
		Open:             p.Open,
		High:             p.High,
		Low:              p.Low,
		Close:            p.Close,
		Volume:           p.Volume,
		AdjustedClose:    p.AdjustedClose,
		CreatedAt:        p.CreatedAt.UTC().Format(time.RFC3339),
		DayChange:        round2(p.Close - p.Open),
		DayChangePercent: dayChangePercent(p.Open, p.Close),
	}
}

func dayChangePercent(open, close float64) float64 {
	if open == 0 {
		return 0
	}
	return round2((close - open) / open * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func toPriceViews(records []models.PriceRecord) []priceView {
	out := make([]priceView, len(records))
	for i, p := range records {
		out[i] = newPriceView(p)
	}
	return out
}

// handleRecentPrices serves GET /v1/prices/recent?limit=&ticker=.
// Results are ordered by ingestion time so freshly imported rows surface
// first regardless of their trading date.
func (s *Server) handleRecentPrices(w http.ResponseWriter, r *http.Request) {
	filter := repository.RecentFilter{
		Ticker: parseTicker(r),
		Limit:  parseLimit(r, defaultRecentLimit),
	}

	records, err := s.priceRepo.Recent(r.Context(), filter)
	if err != nil {
		fmt.Printf("[API] Error fetching recent prices: %v\n", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	views := toPriceViews(records)
	writeJSON(w, http.StatusOK, recentPricesResponse{
		Success: true,
		Count:   len(views),
		Prices:  views,
	})
}

func (s *Server) handleTickers(w http.ResponseWriter, r *http.Request) {
	tickers, err := s.priceRepo.Tickers(r.Context())
	if err != nil {
		fmt.Printf("[API] Error fetching tickers: %v\n", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if tickers == nil {
		tickers = []string{}
	}
	writeJSON(w, http.StatusOK, tickers)
}

func (s *Server) handleTickerHistory(w http.ResponseWriter, r *http.Request) {
	ticker := parsePathTicker(r)
	if ticker == "" {
		writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}
	limit := parseLimit(r, defaultRecentLimit)

	records, err := s.priceRepo.History(r.Context(), ticker, limit)
	if err != nil {
		fmt.Printf("[API] Error fetching history for %s: %v\n", ticker, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	views := toPriceViews(records)
	writeJSON(w, http.StatusOK, recentPricesResponse{
		Success: true,
		Count:   len(views),
		Prices:  views,
	})
}
