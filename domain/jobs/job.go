package jobs

import (
	"time"
)

// JobStatus represents the status of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// JobType represents the type of job.
type JobType string

const (
	JobTypeScrape JobType = "scrape"
)

// Job represents a background scrape job with lifecycle tracking.
type Job struct {
	ID           string
	Type         JobType
	Status       JobStatus
	Organiser    string
	EventURL     string
	StartedBy    string
	ResultsCount int
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

// IsActive returns true if the job is still running or pending.
func (j *Job) IsActive() bool {
	return j.Status == JobStatusPending || j.Status == JobStatusRunning
}

// IsComplete returns true if the job has finished (successfully, with error, or cancelled).
func (j *Job) IsComplete() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed || j.Status == JobStatusCancelled
}

// Succeeded returns true if the job completed without error.
func (j *Job) Succeeded() bool {
	return j.Status == JobStatusCompleted
}

// GetJobTypeDisplayName returns a human-readable display name for the job type.
func (j *Job) GetJobTypeDisplayName() string {
	switch j.Type {
	case JobTypeScrape:
		return "Result Scrape"
	default:
		return string(j.Type)
	}
}

// Duration returns how long the job has been running, or total duration if complete.
func (j *Job) Duration() time.Duration {
	if j.CompletedAt != nil {
		return j.CompletedAt.Sub(j.CreatedAt)
	}
	return time.Since(j.CreatedAt)
}
