package race

import (
	"strings"
	"time"
)

// DistanceUnknown is recorded when a source does not declare a race distance.
const DistanceUnknown = "Unknown"

// Event represents a single race or competition, keyed by its source URL.
type Event struct {
	ID        string
	Organiser string
	Name      string
	Date      string
	URL       string
	Distance  string
	Location  string
	Metadata  map[string]string
	CreatedAt time.Time
}

// NormalizedDistance returns the event distance, or DistanceUnknown when absent.
func (e *Event) NormalizedDistance() string {
	if strings.TrimSpace(e.Distance) == "" {
		return DistanceUnknown
	}
	return e.Distance
}

// Result represents one participant's performance row for an event.
type Result struct {
	ID            string
	EventID       string
	Position      int
	BibNumber     string
	AthleteName   string
	Club          string
	Category      string
	Distance      string
	FinishTime    string
	FinishSeconds float64
	Splits        map[string]string
}

// Finished reports whether the row carries a parseable finish time.
func (r *Result) Finished() bool {
	return r.FinishSeconds > 0
}

// ScrapedData is the transient output of one capability invocation:
// an event descriptor plus zero or more result rows.
// It is never persisted directly; the coordinator maps it into
// event and result writes.
type ScrapedData struct {
	Event   Event
	Results []Result
	Raw     []byte
}

// HasResults reports whether the scrape produced any result rows.
func (d *ScrapedData) HasResults() bool {
	return len(d.Results) > 0
}
