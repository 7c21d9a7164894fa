package events

// JobEventPublisher defines the interface for publishing job-related events.
type JobEventPublisher interface {
	PublishJobStarted(event JobStartedEvent)
	PublishJobCompleted(event JobCompletedEvent)
	PublishJobFailed(event JobFailedEvent)
	PublishEventIngested(event EventIngestedEvent)
}
