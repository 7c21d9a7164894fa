package events

import (
	"time"

	"racetally/domain/jobs"
)

// JobStartedEvent represents a job that has begun running
type JobStartedEvent struct {
	Job       *jobs.Job
	Timestamp time.Time
}

// JobCompletedEvent represents a job that has completed successfully
type JobCompletedEvent struct {
	Job       *jobs.Job
	EventID   string
	Timestamp time.Time
}

// JobFailedEvent represents a job that has failed
type JobFailedEvent struct {
	Job       *jobs.Job
	Error     string
	Timestamp time.Time
}

// EventIngestedEvent represents the first successful ingestion of an event URL
type EventIngestedEvent struct {
	EventID      string
	EventURL     string
	ResultsCount int
	Job          *jobs.Job
	Timestamp    time.Time
}
