package presenters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"racetally/domain/jobs"
)

// Helper to create test job data
func createTestJob(id string, status jobs.JobStatus) *jobs.Job {
	created := time.Date(2026, 5, 10, 9, 30, 0, 0, time.UTC)
	return &jobs.Job{
		ID:        id,
		Type:      jobs.JobTypeScrape,
		Status:    status,
		Organiser: "harriers",
		EventURL:  "https://results.harriers.example/races/42",
		StartedBy: "tester",
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestJobPresenter_FormatJob_BasicFields(t *testing.T) {
	// Arrange
	presenter := NewJobPresenter()
	job := createTestJob("job-123", jobs.JobStatusRunning)

	// Act
	result := presenter.FormatJob(job)

	// Assert - Test presentation outcomes
	require.NotNil(t, result)
	assert.Equal(t, "job-123", result.ID)
	assert.Equal(t, string(jobs.JobTypeScrape), result.Type)
	assert.Equal(t, "Result Scrape", result.TypeDisplay)
	assert.Equal(t, string(jobs.JobStatusRunning), result.Status)
	assert.Equal(t, "harriers", result.Organiser)
	assert.Equal(t, "https://results.harriers.example/races/42", result.EventURL)
	assert.Equal(t, "tester", result.StartedBy)
	assert.Equal(t, "2026-05-10T09:30:00Z", result.CreatedAt)
	assert.True(t, result.IsActive)
	assert.False(t, result.IsComplete)

	// Active jobs have no completion data yet
	assert.Empty(t, result.CompletedAt)
	assert.Empty(t, result.Duration)
}

func TestJobPresenter_FormatJob_CompletedJob(t *testing.T) {
	// Arrange
	presenter := NewJobPresenter()
	job := createTestJob("job-done", jobs.JobStatusCompleted)
	job.ResultsCount = 150
	completedAt := job.CreatedAt.Add(90 * time.Second)
	job.CompletedAt = &completedAt
	job.UpdatedAt = completedAt

	// Act
	result := presenter.FormatJob(job)

	// Assert
	require.NotNil(t, result)
	assert.Equal(t, string(jobs.JobStatusCompleted), result.Status)
	assert.Equal(t, 150, result.ResultsCount)
	assert.Equal(t, "2026-05-10T09:31:30Z", result.CompletedAt)
	assert.Equal(t, "1m30s", result.Duration)
	assert.False(t, result.IsActive)
	assert.True(t, result.IsComplete)
}

func TestJobPresenter_FormatJob_FailedJob(t *testing.T) {
	// Arrange
	presenter := NewJobPresenter()
	job := createTestJob("job-err", jobs.JobStatusFailed)
	job.ErrorMessage = "site unreachable: https://results.harriers.example/races/42"
	completedAt := job.CreatedAt.Add(5 * time.Second)
	job.CompletedAt = &completedAt

	// Act
	result := presenter.FormatJob(job)

	// Assert
	require.NotNil(t, result)
	assert.Equal(t, string(jobs.JobStatusFailed), result.Status)
	assert.Contains(t, result.Error, "site unreachable")
	assert.True(t, result.IsComplete)
}

func TestJobPresenter_FormatJobList_MultipleJobs(t *testing.T) {
	// Arrange
	presenter := NewJobPresenter()
	jobList := []*jobs.Job{
		createTestJob("job-1", jobs.JobStatusRunning),
		createTestJob("job-2", jobs.JobStatusCompleted),
		createTestJob("job-3", jobs.JobStatusFailed),
	}

	// Act
	result := presenter.FormatJobList(jobList)

	// Assert - Test list formatting outcomes
	require.NotNil(t, result)
	require.Len(t, result.Jobs, 3)
	assert.Equal(t, 3, result.Count)

	// Should contain all job IDs
	assert.Equal(t, "job-1", result.Jobs[0].ID)
	assert.Equal(t, "job-2", result.Jobs[1].ID)
	assert.Equal(t, "job-3", result.Jobs[2].ID)

	// Should contain formatted statuses
	assert.Equal(t, string(jobs.JobStatusRunning), result.Jobs[0].Status)
	assert.Equal(t, string(jobs.JobStatusCompleted), result.Jobs[1].Status)
	assert.Equal(t, string(jobs.JobStatusFailed), result.Jobs[2].Status)
}

func TestJobPresenter_FormatJobList_EmptyList(t *testing.T) {
	// Arrange
	presenter := NewJobPresenter()
	emptyJobs := []*jobs.Job{}

	// Act
	result := presenter.FormatJobList(emptyJobs)

	// Assert
	require.NotNil(t, result)
	assert.Empty(t, result.Jobs)
	assert.Equal(t, 0, result.Count)
}

func TestJobPresenter_FormatJobList_SkipsNilEntries(t *testing.T) {
	// Arrange
	presenter := NewJobPresenter()
	jobList := []*jobs.Job{
		createTestJob("job-1", jobs.JobStatusRunning),
		nil,
		createTestJob("job-2", jobs.JobStatusCompleted),
	}

	// Act
	result := presenter.FormatJobList(jobList)

	// Assert
	require.NotNil(t, result)
	require.Len(t, result.Jobs, 2)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, "job-1", result.Jobs[0].ID)
	assert.Equal(t, "job-2", result.Jobs[1].ID)
}

// Test nil safety and error handling
func TestJobPresenter_NilSafety(t *testing.T) {
	presenter := NewJobPresenter()

	// Should not panic with nil job
	result := presenter.FormatJob(nil)
	assert.Nil(t, result)
}
