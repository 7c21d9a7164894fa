package application

import (
	"context"

	"racetally/domain/ingest"
	"racetally/domain/jobs"
)

// UpdateNotifier defines interface for update notifications.
type UpdateNotifier interface {
	NotifyUpdate()
	NotifyJobUpdate(jobID string, job *jobs.Job)
}

// ScrapeService orchestrates scrape jobs through their full lifecycle.
type ScrapeService interface {
	// ProcessScrapeJob runs one scrape job synchronously through the whole
	// pipeline and returns its outcome. The returned error wraps the job id
	// and the pipeline error kind.
	ProcessScrapeJob(ctx context.Context, request ingest.ScrapeJobRequest) (*ingest.ScrapeJobResult, error)

	// SubmitScrapeJob creates the job record and runs the pipeline in the
	// background, returning the pending job immediately.
	SubmitScrapeJob(ctx context.Context, request ingest.ScrapeJobRequest) (*jobs.Job, error)

	// Job record queries
	GetJob(ctx context.Context, jobID string) (*jobs.Job, error)
	ListJobs(ctx context.Context) ([]*jobs.Job, error)
	ListActiveJobs(ctx context.Context) ([]*jobs.Job, error)

	// SetUpdateNotifier sets the notifier informed of job changes.
	SetUpdateNotifier(notifier UpdateNotifier)
}
