package scrapers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"racetally/domain/ingest"
	"racetally/domain/race"
	"racetally/infrastructure/fetch"
	"racetally/logging"
)

// jsonFeed mirrors the export layout published by timing providers that
// expose structured feeds.
type jsonFeed struct {
	Event   jsonFeedEvent    `json:"event"`
	Results []jsonFeedResult `json:"results"`
}

type jsonFeedEvent struct {
	Name      string            `json:"name"`
	Organiser string            `json:"organiser"`
	Date      string            `json:"date"`
	Distance  string            `json:"distance"`
	Location  string            `json:"location"`
	Metadata  map[string]string `json:"metadata"`
}

type jsonFeedResult struct {
	Position int               `json:"position"`
	Bib      string            `json:"bib"`
	Name     string            `json:"name"`
	Club     string            `json:"club"`
	Category string            `json:"category"`
	Time     string            `json:"time"`
	Splits   map[string]string `json:"splits"`
}

// JSONFeedScraper ingests sources that publish a structured JSON feed.
type JSONFeedScraper struct {
	fetcher *fetch.HTTPFetcher
	logger  *logging.Logger
}

var _ ingest.Capability = (*JSONFeedScraper)(nil)

// NewJSONFeedScraper creates a JSON feed scraper.
func NewJSONFeedScraper(fetcher *fetch.HTTPFetcher, logger *logging.Logger) *JSONFeedScraper {
	return &JSONFeedScraper{
		fetcher: fetcher,
		logger:  logger.WithComponent("jsonfeed_scraper"),
	}
}

// Name identifies the capability in logs and registry listings.
func (s *JSONFeedScraper) Name() string {
	return "jsonfeed"
}

// ScrapeEvent fetches the feed and maps it into scraped data.
func (s *JSONFeedScraper) ScrapeEvent(ctx context.Context, url string) (*race.ScrapedData, error) {
	payload, err := s.fetcher.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	var feed jsonFeed
	if err := json.Unmarshal(payload, &feed); err != nil {
		return nil, fmt.Errorf("parse feed from %s: %w", url, err)
	}
	if feed.Event.Name == "" {
		return nil, fmt.Errorf("feed from %s has no event name", url)
	}

	data := &race.ScrapedData{
		Event: race.Event{
			Organiser: feed.Event.Organiser,
			Name:      feed.Event.Name,
			Date:      feed.Event.Date,
			URL:       url,
			Distance:  feed.Event.Distance,
			Location:  feed.Event.Location,
			Metadata:  feed.Event.Metadata,
		},
		Raw: payload,
	}

	for _, row := range feed.Results {
		seconds, _ := race.ParseElapsed(row.Time)
		data.Results = append(data.Results, race.Result{
			Position:      row.Position,
			BibNumber:     row.Bib,
			AthleteName:   row.Name,
			Club:          row.Club,
			Category:      row.Category,
			Distance:      feed.Event.Distance,
			FinishTime:    row.Time,
			FinishSeconds: seconds,
			Splits:        row.Splits,
		})
	}

	s.logger.Scrape("Parsed JSON feed", url, slog.Int("results", len(data.Results)))

	return data, nil
}
