package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/incomeclarity/prices-backend/internal/httputil"
)

const maxBodyBytes = 4 << 20

// Prober fetches a page and classifies its rendering state. It replaces
// the old shell script that dumped headless-browser HTML to a temp file
// and grepped it.
type Prober struct {
	httpClient *http.Client
	retry      httputil.RetryConfig
}

func New() *Prober {
	return &Prober{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		retry: httputil.RetryConfig{
			MaxAttempts: 2,
			BaseDelay:   2 * time.Second,
			MaxDelay:    5 * time.Second,
		},
	}
}

func (p *Prober) Check(ctx context.Context, url string) (Result, error) {
	resp, err := httputil.Do(ctx, p.httpClient, p.retry, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	})
	if err != nil {
		return Result{Verdict: VerdictUndetermined}, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Result{Verdict: VerdictUndetermined}, fmt.Errorf("read body: %w", err)
	}

	return Classify(string(body)), nil
}
