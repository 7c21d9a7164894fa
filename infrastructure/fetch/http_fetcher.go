package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"racetally/logging"
)

const defaultUserAgent = "racetally/1.0"

// maxFetchBytes caps a single fetched payload at 16MB.
const maxFetchBytes = 16 << 20

// HTTPFetcher retrieves raw payloads from plain HTTP sources.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	logger    *logging.Logger
}

// NewHTTPFetcher creates a fetcher with the given request timeout.
func NewHTTPFetcher(timeout time.Duration, logger *logging.Logger) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
		logger:    logger.WithComponent("http_fetcher"),
	}
}

// Get fetches one URL and returns the response body.
func (f *HTTPFetcher) Get(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json, text/html;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("read body from %s: %w", url, err)
	}

	f.logger.Fetch("Fetched payload",
		"url", url,
		"bytes", len(body),
		"duration_ms", time.Since(start).Milliseconds())

	return body, nil
}
