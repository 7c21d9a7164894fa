package presenters

import (
	"racetally/domain/jobs"
)

// JobPresenterInterface defines the contract for job presentation logic.
type JobPresenterInterface interface {
	// FormatJob converts one job to its view model.
	FormatJob(job *jobs.Job) *JobView

	// FormatJobList converts multiple jobs to a list view model.
	FormatJobList(jobList []*jobs.Job) *JobListView
}

// Ensure JobPresenter implements the interface.
var _ JobPresenterInterface = (*JobPresenter)(nil)
