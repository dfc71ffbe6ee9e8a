package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/incomeclarity/prices-backend/internal/models"
	"github.com/incomeclarity/prices-backend/internal/repository"
)

const (
	defaultRecentLimit = 20
	maxQueryLimit      = 100
)

// priceStore is the slice of PriceRepo the handlers need; keeping it as
// an interface lets handler tests run against a stub instead of Postgres.
type priceStore interface {
	Recent(ctx context.Context, f repository.RecentFilter) ([]models.PriceRecord, error)
	History(ctx context.Context, ticker string, limit int) ([]models.PriceRecord, error)
	Tickers(ctx context.Context) ([]string, error)
}

type Server struct {
	pool       *pgxpool.Pool
	priceRepo  priceStore
	httpServer *http.Server
	apiKey     string
}

func NewServer(pool *pgxpool.Pool, port int, apiKey, corsOrigin string) *Server {
	s := &Server{
		pool:      pool,
		priceRepo: repository.NewPriceRepo(pool),
		apiKey:    apiKey,
	}

	mux := http.NewServeMux()

	// Price routes
	mux.HandleFunc("GET /v1/prices/recent", s.handleRecentPrices)
	mux.HandleFunc("GET /v1/prices/tickers", s.handleTickers)
	mux.HandleFunc("GET /v1/prices/{ticker}/history", s.handleTickerHistory)

	// Health check (no auth required)
	mux.HandleFunc("GET /health", s.handleHealth)

	handler := s.authMiddleware(corsMiddleware(recoveryMiddleware(mux), corsOrigin))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	fmt.Printf("[API] REST API server started on http://localhost%s\n", s.httpServer.Addr)
	fmt.Printf("[API] Health check: http://localhost%s/health\n", s.httpServer.Addr)
	if s.apiKey != "" {
		fmt.Println("[API] Authentication: enabled (Bearer token)")
	} else {
		fmt.Println("[API] Authentication: disabled (no API_KEY configured)")
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// --- middleware ---

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" || r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth || token != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler, allowOrigin string) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// recoveryMiddleware is the server-side counterpart of the dashboard's
// error boundary: an unexpected panic becomes a logged 500 envelope
// instead of a dropped connection.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				fmt.Printf("[API] Panic serving %s %s: %v\n", r.Method, r.URL.Path, rec)
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// --- query parameter helpers ---

// parseLimit reads ?limit=. Absent, non-numeric, or non-positive values
// fall back to the default; anything above maxQueryLimit is clamped.
func parseLimit(r *http.Request, defaultLimit int) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return defaultLimit
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return defaultLimit
	}
	if n > maxQueryLimit {
		return maxQueryLimit
	}
	return n
}

// parseTicker reads ?ticker= and normalizes it for exact-match filtering.
func parseTicker(r *http.Request) string {
	return strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("ticker")))
}

func parsePathTicker(r *http.Request) string {
	return strings.ToUpper(strings.TrimSpace(r.PathValue("ticker")))
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
