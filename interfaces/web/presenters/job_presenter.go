package presenters

import (
	"time"

	"racetally/domain/jobs"
)

// Job-related view data structures

// JobView represents one scrape job for API responses
type JobView struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	TypeDisplay  string `json:"type_display"`
	Status       string `json:"status"`
	Organiser    string `json:"organiser"`
	EventURL     string `json:"event_url"`
	StartedBy    string `json:"started_by,omitempty"`
	ResultsCount int    `json:"results_count"`
	Error        string `json:"error,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
	CompletedAt  string `json:"completed_at,omitempty"`
	Duration     string `json:"duration,omitempty"`
	IsActive     bool   `json:"is_active"`
	IsComplete   bool   `json:"is_complete"`
}

// JobListView represents a list of jobs
type JobListView struct {
	Jobs  []*JobView `json:"jobs"`
	Count int        `json:"count"`
}

// JobPresenter transforms job domain data into API view models.
type JobPresenter struct{}

// NewJobPresenter creates a job presenter.
func NewJobPresenter() *JobPresenter {
	return &JobPresenter{}
}

// FormatJob converts one job to its view model.
func (p *JobPresenter) FormatJob(job *jobs.Job) *JobView {
	if job == nil {
		return nil
	}

	view := &JobView{
		ID:           job.ID,
		Type:         string(job.Type),
		TypeDisplay:  job.GetJobTypeDisplayName(),
		Status:       string(job.Status),
		Organiser:    job.Organiser,
		EventURL:     job.EventURL,
		StartedBy:    job.StartedBy,
		ResultsCount: job.ResultsCount,
		Error:        job.ErrorMessage,
		CreatedAt:    job.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    job.UpdatedAt.Format(time.RFC3339),
		IsActive:     job.IsActive(),
		IsComplete:   job.IsComplete(),
	}

	if job.CompletedAt != nil {
		view.CompletedAt = job.CompletedAt.Format(time.RFC3339)
		view.Duration = job.Duration().Truncate(time.Millisecond).String()
	}

	return view
}

// FormatJobList converts multiple jobs to a list view model.
func (p *JobPresenter) FormatJobList(jobList []*jobs.Job) *JobListView {
	jobViews := make([]*JobView, 0, len(jobList))

	for _, job := range jobList {
		if view := p.FormatJob(job); view != nil {
			jobViews = append(jobViews, view)
		}
	}

	return &JobListView{
		Jobs:  jobViews,
		Count: len(jobViews),
	}
}
