package fetch

import (
	"context"
	"net/http"
	"time"

	"racetally/domain/ingest"
	"racetally/logging"
)

// HeadProbe implements ingest.Probe with a lightweight HEAD request.
// Servers that reject HEAD get one ranged GET retry before the URL is
// reported unreachable.
type HeadProbe struct {
	client *http.Client
	logger *logging.Logger
}

// NewHeadProbe creates a connectivity probe.
func NewHeadProbe(logger *logging.Logger) *HeadProbe {
	return &HeadProbe{
		client: &http.Client{},
		logger: logger.WithComponent("probe"),
	}
}

// Check reports whether the URL answers with a success status within the
// timeout. Timeouts, transport errors, and non-success statuses all read
// as unreachable; no error is ever returned.
func (p *HeadProbe) Check(ctx context.Context, url string, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = ingest.DefaultProbeTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	status, ok := p.request(ctx, http.MethodHead, url)
	if ok && status == http.StatusMethodNotAllowed {
		// Some result hosts answer GET only.
		status, ok = p.request(ctx, http.MethodGet, url)
	}
	if !ok {
		return false
	}

	reachable := status >= 200 && status < 400
	if !reachable {
		p.logger.Fetch("Probe got non-success status", "url", url, "status", status)
	}
	return reachable
}

// request performs one probe request and returns the status code.
func (p *HeadProbe) request(ctx context.Context, method, url string) (int, bool) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		p.logger.Fetch("Probe request invalid", "url", url, "error", err.Error())
		return 0, false
	}
	if method == http.MethodGet {
		// Ask for a single byte so the probe never pulls the full payload.
		req.Header.Set("Range", "bytes=0-0")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Fetch("Probe failed", "url", url, "error", err.Error())
		return 0, false
	}
	defer resp.Body.Close()

	return resp.StatusCode, true
}
