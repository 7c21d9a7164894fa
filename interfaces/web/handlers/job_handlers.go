package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"racetally/application"
	"racetally/domain/ingest"
	"racetally/interfaces/web/presenters"
	"racetally/logging"
)

// JobHandlers handles scrape job HTTP endpoints.
// Provides a thin orchestration layer over the scrape service.
type JobHandlers struct {
	scrapeService application.ScrapeService
	jobPresenter  *presenters.JobPresenter
	logger        *logging.Logger
}

// NewJobHandlers creates a new job handlers instance.
func NewJobHandlers(
	scrapeService application.ScrapeService,
	jobPresenter *presenters.JobPresenter,
) *JobHandlers {
	return &JobHandlers{
		scrapeService: scrapeService,
		jobPresenter:  jobPresenter,
		logger:        logging.Default().WithComponent("job_handler"),
	}
}

// SubmitScrape queues a new scrape job and returns 202 with the job record.
// POST /scrape
func (h *JobHandlers) SubmitScrape(w http.ResponseWriter, r *http.Request) {
	var request ingest.ScrapeJobRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if request.EventURL == "" {
		WriteError(w, http.StatusBadRequest, "event_url is required")
		return
	}

	job, err := h.scrapeService.SubmitScrapeJob(r.Context(), request)
	if err != nil {
		h.logger.Error("Failed to submit scrape job", "event_url", request.EventURL, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to submit scrape job")
		return
	}

	h.logger.Info("Scrape job queued",
		"job_id", job.ID,
		"event_url", request.EventURL)

	WriteJSON(w, http.StatusAccepted, h.jobPresenter.FormatJob(job))
}

// ListJobs returns all jobs, newest first.
// GET /jobs
func (h *JobHandlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobList, err := h.scrapeService.ListJobs(r.Context())
	if err != nil {
		h.logger.Error("Failed to list jobs", "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to list jobs")
		return
	}

	WriteJSON(w, http.StatusOK, h.jobPresenter.FormatJobList(jobList))
}

// ListActiveJobs returns pending and running jobs.
// GET /jobs/active
func (h *JobHandlers) ListActiveJobs(w http.ResponseWriter, r *http.Request) {
	jobList, err := h.scrapeService.ListActiveJobs(r.Context())
	if err != nil {
		h.logger.Error("Failed to list active jobs", "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to list active jobs")
		return
	}

	WriteJSON(w, http.StatusOK, h.jobPresenter.FormatJobList(jobList))
}

// GetJobStatus returns the current status of a job.
// GET /jobs/{jobID}
func (h *JobHandlers) GetJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	if jobID == "" {
		WriteError(w, http.StatusBadRequest, "missing job ID")
		return
	}

	job, err := h.scrapeService.GetJob(r.Context(), jobID)
	if err != nil {
		status := StatusFromError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("Failed to get job", "job_id", jobID, "error", err)
		}
		WriteError(w, status, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, h.jobPresenter.FormatJob(job))
}
