package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"racetally/domain/contracts"
	"racetally/domain/events"
	"racetally/domain/ingest"
	"racetally/domain/jobs"
	"racetally/logging"
)

// EventPublisher publishes domain events.
type EventPublisher interface {
	PublishJobStarted(event events.JobStartedEvent)
	PublishJobCompleted(event events.JobCompletedEvent)
	PublishJobFailed(event events.JobFailedEvent)
	PublishEventIngested(event events.EventIngestedEvent)
}

// ScrapeServiceImpl implements the scrape job pipeline.
//
// Each processed request walks one strictly ordered pipeline: create the
// job, mark it running, resolve a capability, consult the event store for
// an existing event, probe connectivity, scrape, persist, and finalize the
// job record. Independent jobs may run concurrently; all shared state
// lives behind the repository contracts.
type ScrapeServiceImpl struct {
	jobRepo      contracts.JobRepository
	eventRepo    contracts.EventRepository
	registry     *ScraperRegistry
	probe        ingest.Probe
	archive      contracts.PayloadArchive
	probeTimeout time.Duration
	notifier     UpdateNotifier
	eventBus     EventPublisher
	logger       *logging.Logger
}

// NewScrapeService creates a new scrape service. A non-positive
// probeTimeout falls back to ingest.DefaultProbeTimeout.
func NewScrapeService(
	jobRepo contracts.JobRepository,
	eventRepo contracts.EventRepository,
	registry *ScraperRegistry,
	probe ingest.Probe,
	archive contracts.PayloadArchive,
	eventBus EventPublisher,
	probeTimeout time.Duration,
) ScrapeService {
	if probeTimeout <= 0 {
		probeTimeout = ingest.DefaultProbeTimeout
	}
	return &ScrapeServiceImpl{
		jobRepo:      jobRepo,
		eventRepo:    eventRepo,
		registry:     registry,
		probe:        probe,
		archive:      archive,
		probeTimeout: probeTimeout,
		eventBus:     eventBus,
		logger:       logging.Default().WithComponent("scrape_service"),
	}
}

// ProcessScrapeJob runs one scrape job synchronously through the pipeline.
func (s *ScrapeServiceImpl) ProcessScrapeJob(ctx context.Context, request ingest.ScrapeJobRequest) (*ingest.ScrapeJobResult, error) {
	job, err := s.createJob(ctx, request)
	if err != nil {
		return nil, err
	}

	return s.runPipeline(ctx, job, request)
}

// SubmitScrapeJob creates the job record and runs the pipeline in the background.
func (s *ScrapeServiceImpl) SubmitScrapeJob(ctx context.Context, request ingest.ScrapeJobRequest) (*jobs.Job, error) {
	job, err := s.createJob(ctx, request)
	if err != nil {
		return nil, err
	}

	go func() {
		// The submission context ends with the caller's request; the
		// pipeline owns its own lifetime.
		if _, err := s.runPipeline(context.Background(), job, request); err != nil {
			s.logger.Error("Background scrape job failed", "job_id", job.ID, "error", err)
		}
	}()

	s.logger.Info("Scrape job submitted", "job_id", job.ID, "event_url", request.EventURL)
	return job, nil
}

// createJob builds and persists the pending job record.
func (s *ScrapeServiceImpl) createJob(ctx context.Context, request ingest.ScrapeJobRequest) (*jobs.Job, error) {
	jobFactory := &jobs.JobFactory{}
	job := jobFactory.CreateScrapeJob(request.Organiser, request.EventURL, request.StartedBy)

	if err := s.jobRepo.CreateJob(ctx, job); err != nil {
		s.logger.Error("Failed to create job", "event_url", request.EventURL, "error", err)
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	s.notifyJobUpdate(job.ID, job)
	return job, nil
}

// runPipeline drives a created job from pending to a terminal status.
func (s *ScrapeServiceImpl) runPipeline(ctx context.Context, job *jobs.Job, request ingest.ScrapeJobRequest) (*ingest.ScrapeJobResult, error) {
	running, err := s.jobRepo.UpdateJob(ctx, job.ID, contracts.WithStatus(jobs.JobStatusRunning))
	if err != nil {
		return nil, fmt.Errorf("failed to mark job %s running: %w", job.ID, err)
	}
	job = running

	s.notifyJobUpdate(job.ID, job)
	if s.eventBus != nil {
		s.eventBus.PublishJobStarted(events.JobStartedEvent{Job: job, Timestamp: time.Now()})
	}

	eventID, resultsCount, err := s.ingestEvent(ctx, job, request)
	if err != nil {
		return nil, s.finalizeFailure(ctx, job, err)
	}

	return s.finalizeSuccess(ctx, job, eventID, resultsCount)
}

// ingestEvent performs capability resolution, dedup, probing, scraping,
// and persistence for one job. Every returned error wraps its pipeline
// error kind.
func (s *ScrapeServiceImpl) ingestEvent(ctx context.Context, job *jobs.Job, request ingest.ScrapeJobRequest) (string, int, error) {
	capability, err := s.registry.Resolve(request.Organiser, request.EventURL)
	if err != nil {
		return "", 0, err
	}

	existing, err := s.eventRepo.FindByURL(ctx, request.EventURL)
	if err != nil {
		return "", 0, fmt.Errorf("%w: lookup for %s: %v", ingest.ErrPersistenceFailure, request.EventURL, err)
	}
	if existing != nil {
		// Already ingested: reuse the stored event, skip scrape and save.
		s.logger.Scrape("Event already ingested", request.EventURL,
			slog.String("job_id", job.ID),
			slog.String("event_id", existing.ID))
		return existing.ID, 0, nil
	}

	if !s.probe.Check(ctx, request.EventURL, s.probeTimeout) {
		return "", 0, fmt.Errorf("%w: %s", ingest.ErrSiteUnreachable, request.EventURL)
	}

	data, err := capability.ScrapeEvent(ctx, request.EventURL)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %s: %v", ingest.ErrScrapeFailure, capability.Name(), err)
	}

	s.archivePayload(ctx, job.ID, data.Raw)

	event := data.Event
	event.URL = request.EventURL
	if event.Organiser == "" {
		event.Organiser = job.Organiser
	}

	eventID, created, err := s.eventRepo.SaveEvent(ctx, &event)
	if err != nil {
		return "", 0, fmt.Errorf("%w: save event for %s: %v", ingest.ErrPersistenceFailure, request.EventURL, err)
	}
	if !created {
		// A concurrent job for the same URL won the insert. Treat this
		// attempt as a dedup hit and discard the scraped rows.
		s.logger.Scrape("Concurrent ingestion won, reusing stored event", request.EventURL,
			slog.String("job_id", job.ID),
			slog.String("event_id", eventID))
		return eventID, 0, nil
	}

	resultsCount := 0
	if data.HasResults() {
		resultsCount, err = s.eventRepo.SaveResults(ctx, eventID, data.Results, event.NormalizedDistance())
		if err != nil {
			return "", 0, fmt.Errorf("%w: save results for %s: %v", ingest.ErrPersistenceFailure, request.EventURL, err)
		}
	}

	if s.eventBus != nil {
		s.eventBus.PublishEventIngested(events.EventIngestedEvent{
			EventID:      eventID,
			EventURL:     request.EventURL,
			ResultsCount: resultsCount,
			Job:          job,
			Timestamp:    time.Now(),
		})
	}

	return eventID, resultsCount, nil
}

// archivePayload stores the raw payload for later inspection. Archival is
// advisory; failures never affect the job outcome.
func (s *ScrapeServiceImpl) archivePayload(ctx context.Context, jobID string, payload []byte) {
	if s.archive == nil || len(payload) == 0 {
		return
	}

	if _, err := s.archive.Store(ctx, jobID, payload); err != nil {
		s.logger.Warn("Failed to archive raw payload", "job_id", jobID, "error", err)
	}
}

// finalizeSuccess records the terminal completed status and builds the result.
func (s *ScrapeServiceImpl) finalizeSuccess(ctx context.Context, job *jobs.Job, eventID string, resultsCount int) (*ingest.ScrapeJobResult, error) {
	updated, err := s.jobRepo.UpdateJob(ctx, job.ID, contracts.WithCompletion(resultsCount))
	if err != nil {
		return nil, fmt.Errorf("failed to complete job %s: %w", job.ID, err)
	}

	s.logger.Scrape("Scrape job completed", updated.EventURL,
		slog.String("job_id", updated.ID),
		slog.String("event_id", eventID),
		slog.Int("results", resultsCount))

	if s.eventBus != nil {
		s.eventBus.PublishJobCompleted(events.JobCompletedEvent{
			Job:       updated,
			EventID:   eventID,
			Timestamp: time.Now(),
		})
	}
	s.notifyJobUpdate(updated.ID, updated)

	return &ingest.ScrapeJobResult{
		Job:          updated,
		EventID:      eventID,
		ResultsCount: resultsCount,
	}, nil
}

// finalizeFailure records the terminal failed status and wraps the cause
// with the job id for the caller. The stored errorMessage and the
// returned error carry the same text.
func (s *ScrapeServiceImpl) finalizeFailure(ctx context.Context, job *jobs.Job, cause error) error {
	updated, err := s.jobRepo.UpdateJob(ctx, job.ID, contracts.WithFailure(cause.Error()))
	if err != nil {
		s.logger.Error("Failed to record job failure", "job_id", job.ID, "error", err)
		updated = job
	}

	s.logger.ScrapeError("Scrape job failed", cause, job.EventURL, slog.String("job_id", job.ID))

	if s.eventBus != nil {
		s.eventBus.PublishJobFailed(events.JobFailedEvent{
			Job:       updated,
			Error:     cause.Error(),
			Timestamp: time.Now(),
		})
	}
	s.notifyJobUpdate(updated.ID, updated)

	return fmt.Errorf("scrape job %s: %w", job.ID, cause)
}

// GetJob retrieves a job record by id.
func (s *ScrapeServiceImpl) GetJob(ctx context.Context, jobID string) (*jobs.Job, error) {
	return s.jobRepo.GetJob(ctx, jobID)
}

// ListJobs returns all job records, newest first.
func (s *ScrapeServiceImpl) ListJobs(ctx context.Context) ([]*jobs.Job, error) {
	return s.jobRepo.ListJobs(ctx)
}

// ListActiveJobs returns pending and running job records.
func (s *ScrapeServiceImpl) ListActiveJobs(ctx context.Context) ([]*jobs.Job, error) {
	return s.jobRepo.ListActiveJobs(ctx)
}

// SetUpdateNotifier sets the update notifier for job changes.
func (s *ScrapeServiceImpl) SetUpdateNotifier(notifier UpdateNotifier) {
	s.notifier = notifier
}

// notifyJobUpdate notifies clients of job updates.
func (s *ScrapeServiceImpl) notifyJobUpdate(jobID string, job *jobs.Job) {
	if s.notifier != nil {
		s.notifier.NotifyJobUpdate(jobID, job)
	}
}
