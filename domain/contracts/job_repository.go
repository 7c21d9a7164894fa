package contracts

import (
	"context"
	"time"

	"racetally/domain/jobs"
)

// JobUpdate is a partial update applied to a stored job. Nil fields are
// left untouched.
type JobUpdate struct {
	Status       *jobs.JobStatus
	ResultsCount *int
	ErrorMessage *string
}

// WithStatus returns a JobUpdate that sets only the status.
func WithStatus(status jobs.JobStatus) JobUpdate {
	return JobUpdate{Status: &status}
}

// WithCompletion returns a JobUpdate for a successful terminal transition.
func WithCompletion(resultsCount int) JobUpdate {
	status := jobs.JobStatusCompleted
	return JobUpdate{Status: &status, ResultsCount: &resultsCount}
}

// WithFailure returns a JobUpdate for a failed terminal transition.
func WithFailure(errorMessage string) JobUpdate {
	status := jobs.JobStatusFailed
	return JobUpdate{Status: &status, ErrorMessage: &errorMessage}
}

// JobRepository defines persistence operations for scrape jobs.
// Updates must be visible to subsequent reads as soon as they return;
// the job record is the operator-facing source of truth while the
// pipeline is still running, not only at the end.
type JobRepository interface {
	// CreateJob persists a new job record.
	CreateJob(ctx context.Context, job *jobs.Job) error

	// UpdateJob applies a partial update and returns the updated record.
	// Returns ErrJobNotFound if the id is unknown.
	UpdateJob(ctx context.Context, jobID string, update JobUpdate) (*jobs.Job, error)

	// GetJob retrieves a job by id. Returns ErrJobNotFound if unknown.
	GetJob(ctx context.Context, jobID string) (*jobs.Job, error)

	ListJobs(ctx context.Context) ([]*jobs.Job, error)
	ListJobsByStatus(ctx context.Context, status jobs.JobStatus) ([]*jobs.Job, error)
	ListActiveJobs(ctx context.Context) ([]*jobs.Job, error)
	DeleteOldJobs(ctx context.Context, olderThan time.Time) error
}
