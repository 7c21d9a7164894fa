package jobs

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// DefaultOrganiser is recorded when a scrape request does not name one.
const DefaultOrganiser = "unknown"

// JobFactory creates new jobs with proper initialization
type JobFactory struct{}

// CreateScrapeJob creates a new pending scrape job for an event URL
func (jf *JobFactory) CreateScrapeJob(organiser, eventURL, startedBy string) *Job {
	if organiser == "" {
		organiser = DefaultOrganiser
	}

	jobID := jf.generateJobID(JobTypeScrape)
	now := time.Now()

	return &Job{
		ID:        jobID,
		Type:      JobTypeScrape,
		Status:    JobStatusPending,
		Organiser: organiser,
		EventURL:  eventURL,
		StartedBy: startedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// generateJobID creates a unique job identifier
func (jf *JobFactory) generateJobID(jobType JobType) string {
	// Generate random component for uniqueness
	bytes := make([]byte, 4)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp-only if random fails
		return fmt.Sprintf("%s_%s", jobType, time.Now().Format("20060102_150405"))
	}

	return fmt.Sprintf("%s_%s_%s",
		jobType,
		time.Now().Format("20060102_150405"),
		hex.EncodeToString(bytes))
}
