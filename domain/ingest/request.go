package ingest

import (
	"racetally/domain/jobs"
)

// ScrapeJobRequest describes one submission to the ingestion pipeline.
type ScrapeJobRequest struct {
	Organiser string `json:"organiser,omitempty"`
	EventURL  string `json:"event_url"`
	StartedBy string `json:"started_by,omitempty"`
}

// ScrapeJobResult is the synchronous outcome of one processed scrape job.
// The job record remains the durable source of truth; this value exists
// for immediate caller feedback.
type ScrapeJobResult struct {
	Job          *jobs.Job `json:"job"`
	EventID      string    `json:"event_id"`
	ResultsCount int       `json:"results_count"`
}
