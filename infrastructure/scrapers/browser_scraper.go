package scrapers

import (
	"context"
	"fmt"
	"log/slog"

	"racetally/domain/ingest"
	"racetally/domain/race"
	"racetally/infrastructure/fetch"
	"racetally/logging"
)

// BrowserScraper ingests script-rendered result pages through a headless
// browser. The rendered page is read as markdown: the first heading names
// the event and the first table carries the result rows.
type BrowserScraper struct {
	fetcher *fetch.BrowserFetcher
	opts    *fetch.BrowserFetchOptions
	logger  *logging.Logger
}

var _ ingest.Capability = (*BrowserScraper)(nil)

// NewBrowserScraper creates a browser-backed scraper.
func NewBrowserScraper(fetcher *fetch.BrowserFetcher, opts *fetch.BrowserFetchOptions, logger *logging.Logger) *BrowserScraper {
	return &BrowserScraper{
		fetcher: fetcher,
		opts:    opts,
		logger:  logger.WithComponent("browser_scraper"),
	}
}

// Name identifies the capability in logs and registry listings.
func (s *BrowserScraper) Name() string {
	return "browser"
}

// ScrapeEvent renders the page and parses the markdown result table.
func (s *BrowserScraper) ScrapeEvent(ctx context.Context, url string) (*race.ScrapedData, error) {
	markdown, err := s.fetcher.FetchMarkdown(ctx, url, s.opts)
	if err != nil {
		return nil, err
	}

	page := parseResultsPage(markdown)
	if page.EventName == "" && len(page.Results) == 0 {
		return nil, fmt.Errorf("page at %s has no recognizable event content", url)
	}

	data := &race.ScrapedData{
		Event: race.Event{
			Name:     page.EventName,
			Date:     page.Date,
			URL:      url,
			Distance: page.Distance,
			Location: page.Location,
			Metadata: page.Metadata,
		},
		Results: page.Results,
		Raw:     []byte(markdown),
	}

	s.logger.Scrape("Parsed rendered page", url, slog.Int("results", len(data.Results)))

	return data, nil
}
