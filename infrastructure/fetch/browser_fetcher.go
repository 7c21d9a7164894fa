package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/naozine/nz-html-fetch/pkg/htmlfetch"

	"racetally/logging"
)

// BrowserFetcher renders pages in a headless browser for sources that
// build their result tables with client-side scripts.
type BrowserFetcher struct {
	fetcher *htmlfetch.Fetcher
	logger  *logging.Logger
}

// BrowserOptions configures the headless browser session.
type BrowserOptions struct {
	Stealth     bool
	Proxy       string
	BrowserPath string
}

// BrowserFetchOptions configures one fetch.
type BrowserFetchOptions struct {
	BlockAds    bool
	BlockImages bool
	WaitTime    time.Duration
	Selector    string
}

// NewBrowserFetcher starts a headless browser session.
func NewBrowserFetcher(opts *BrowserOptions, logger *logging.Logger) (*BrowserFetcher, error) {
	var fetcherOpts []htmlfetch.Option

	if opts != nil {
		if opts.BrowserPath != "" {
			fetcherOpts = append(fetcherOpts, htmlfetch.WithBrowserPath(opts.BrowserPath))
		}
		if opts.Proxy != "" {
			fetcherOpts = append(fetcherOpts, htmlfetch.WithProxy(opts.Proxy))
		}
		fetcherOpts = append(fetcherOpts, htmlfetch.WithStealth(opts.Stealth))
	}

	fetcher := htmlfetch.New(fetcherOpts...)
	if err := fetcher.Start(); err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &BrowserFetcher{
		fetcher: fetcher,
		logger:  logger.WithComponent("browser_fetcher"),
	}, nil
}

// Close shuts down the browser session.
func (f *BrowserFetcher) Close() error {
	if f.fetcher != nil {
		return f.fetcher.Close()
	}
	return nil
}

// FetchMarkdown renders the page and returns its content as markdown.
func (f *BrowserFetcher) FetchMarkdown(ctx context.Context, url string, opts *BrowserFetchOptions) (string, error) {
	fetchOpts := buildFetchOptions(opts)
	fetchOpts = append(fetchOpts, htmlfetch.WithMarkdown())

	result, err := f.fetcher.Fetch(ctx, url, fetchOpts...)
	if err != nil {
		return "", fmt.Errorf("browser fetch %s: %w", url, err)
	}

	f.logger.Fetch("Rendered page",
		"url", url,
		"final_url", result.FinalURL,
		"duration_ms", result.Duration.Milliseconds())

	return result.Markdown, nil
}

// FetchHTML renders the page and returns the raw HTML.
func (f *BrowserFetcher) FetchHTML(ctx context.Context, url string, opts *BrowserFetchOptions) (string, error) {
	fetchOpts := buildFetchOptions(opts)

	result, err := f.fetcher.Fetch(ctx, url, fetchOpts...)
	if err != nil {
		return "", fmt.Errorf("browser fetch %s: %w", url, err)
	}

	f.logger.Fetch("Rendered page",
		"url", url,
		"final_url", result.FinalURL,
		"duration_ms", result.Duration.Milliseconds())

	return result.HTML, nil
}

// buildFetchOptions translates fetch options to htmlfetch options.
func buildFetchOptions(opts *BrowserFetchOptions) []htmlfetch.FetchOption {
	var fetchOpts []htmlfetch.FetchOption

	if opts == nil {
		return fetchOpts
	}

	if opts.BlockAds || opts.BlockImages {
		blocking := htmlfetch.BlockingOptions{
			Ads:   opts.BlockAds,
			Image: opts.BlockImages,
		}
		fetchOpts = append(fetchOpts, htmlfetch.WithBlocking(blocking))
	}

	if opts.Selector != "" {
		timeout := 30 * time.Second
		if opts.WaitTime > 0 {
			timeout = opts.WaitTime
		}
		fetchOpts = append(fetchOpts, htmlfetch.WithSelector(opts.Selector, timeout))
	}

	return fetchOpts
}
