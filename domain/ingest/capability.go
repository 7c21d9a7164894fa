package ingest

import (
	"context"
	"time"

	"racetally/domain/race"
)

// DefaultProbeTimeout bounds the reachability check performed before a scrape.
const DefaultProbeTimeout = 5 * time.Second

// Capability is pluggable, organiser-specific logic that turns an event
// URL into an event descriptor plus result rows.
type Capability interface {
	// Name identifies the capability in logs and registry listings.
	Name() string

	// ScrapeEvent fetches one event page and parses it into scraped data.
	ScrapeEvent(ctx context.Context, url string) (*race.ScrapedData, error)
}

// Probe performs a bounded-time reachability check for a source URL.
// Reachability is always reported as a boolean, never an error; false is
// a legitimate negative signal, not an exceptional condition.
type Probe interface {
	Check(ctx context.Context, url string, timeout time.Duration) bool
}
