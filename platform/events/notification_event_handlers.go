package events

import (
	"racetally/domain/events"
	"racetally/logging"
)

// SSEBroadcaster defines the interface for SSE broadcasting (same as the web layer's manager)
type SSEBroadcaster interface {
	BroadcastJobUpdate(jobID string, data string)
	BroadcastJobListUpdate()
	BroadcastEventsUpdate()
}

// NotificationEventHandlers handles job events and converts them to appropriate notifications
type NotificationEventHandlers struct {
	sseBroadcaster SSEBroadcaster
	logger         *logging.Logger
}

// NewNotificationEventHandlers creates event handlers for notifications
func NewNotificationEventHandlers(sseBroadcaster SSEBroadcaster) *NotificationEventHandlers {
	return &NotificationEventHandlers{
		sseBroadcaster: sseBroadcaster,
		logger:         logging.Default().WithComponent("notification_events"),
	}
}

// RegisterHandlers registers all notification event handlers with the event bus
func (h *NotificationEventHandlers) RegisterHandlers(eventBus *JobEventBus) {
	// Register handlers for each event type
	eventBus.OnJobStarted(h.handleJobStarted)
	eventBus.OnJobCompleted(h.handleJobCompleted)
	eventBus.OnJobFailed(h.handleJobFailed)
	eventBus.OnEventIngested(h.handleEventIngested)
}

// Event handler implementations

func (h *NotificationEventHandlers) handleJobStarted(event events.JobStartedEvent) {
	jobID := "unknown"
	if event.Job != nil {
		jobID = event.Job.ID
	}
	h.logger.Info("Handling job started event", "job_id", jobID)

	// Update job list for all connected clients
	h.sseBroadcaster.BroadcastJobListUpdate()
}

func (h *NotificationEventHandlers) handleJobCompleted(event events.JobCompletedEvent) {
	jobID := "unknown"
	if event.Job != nil {
		jobID = event.Job.ID
	}
	h.logger.Info("Handling job completed event", "job_id", jobID, "event_id", event.EventID)

	// Update job list for all connected clients
	h.sseBroadcaster.BroadcastJobListUpdate()
}

func (h *NotificationEventHandlers) handleJobFailed(event events.JobFailedEvent) {
	jobID := "unknown"
	if event.Job != nil {
		jobID = event.Job.ID
	}
	h.logger.Info("Handling job failed event", "job_id", jobID, "error", event.Error)

	// Update job list for all connected clients
	h.sseBroadcaster.BroadcastJobListUpdate()
}

func (h *NotificationEventHandlers) handleEventIngested(event events.EventIngestedEvent) {
	jobID := "unknown"
	if event.Job != nil {
		jobID = event.Job.ID
	}
	h.logger.Info("Handling event ingested", "event_url", event.EventURL, "job_id", jobID, "results", event.ResultsCount)

	// Update events table when an ingestion lands new rows
	h.sseBroadcaster.BroadcastEventsUpdate()
}
