package events

import (
	"sync"

	"racetally/domain/events"
	"racetally/logging"
)

// JobEventBus provides type-safe event publishing and subscription for job-related events
type JobEventBus struct {
	mu     sync.RWMutex
	logger *logging.Logger

	// Event handler slices for each event type
	jobStartedHandlers    []func(events.JobStartedEvent)
	jobCompletedHandlers  []func(events.JobCompletedEvent)
	jobFailedHandlers     []func(events.JobFailedEvent)
	eventIngestedHandlers []func(events.EventIngestedEvent)
}

// NewJobEventBus creates a new typed job event bus
func NewJobEventBus() *JobEventBus {
	return &JobEventBus{
		logger:                logging.Default().WithComponent("job_event_bus"),
		jobStartedHandlers:    make([]func(events.JobStartedEvent), 0),
		jobCompletedHandlers:  make([]func(events.JobCompletedEvent), 0),
		jobFailedHandlers:     make([]func(events.JobFailedEvent), 0),
		eventIngestedHandlers: make([]func(events.EventIngestedEvent), 0),
	}
}

// Subscribe methods for each event type

func (bus *JobEventBus) OnJobStarted(handler func(events.JobStartedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.jobStartedHandlers = append(bus.jobStartedHandlers, handler)
}

func (bus *JobEventBus) OnJobCompleted(handler func(events.JobCompletedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.jobCompletedHandlers = append(bus.jobCompletedHandlers, handler)
}

func (bus *JobEventBus) OnJobFailed(handler func(events.JobFailedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.jobFailedHandlers = append(bus.jobFailedHandlers, handler)
}

func (bus *JobEventBus) OnEventIngested(handler func(events.EventIngestedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.eventIngestedHandlers = append(bus.eventIngestedHandlers, handler)
}

// Publish methods for each event type

func (bus *JobEventBus) PublishJobStarted(event events.JobStartedEvent) {
	bus.mu.RLock()
	handlers := make([]func(events.JobStartedEvent), len(bus.jobStartedHandlers))
	copy(handlers, bus.jobStartedHandlers)
	bus.mu.RUnlock()

	// Execute handlers asynchronously to avoid blocking the publisher
	for _, handler := range handlers {
		go func(h func(events.JobStartedEvent)) {
			defer func() {
				if r := recover(); r != nil {
					bus.logger.Error("Event handler panicked in JobStarted",
						"job_id", event.Job.ID,
						"panic", r)
				}
			}()
			h(event)
		}(handler)
	}
}

func (bus *JobEventBus) PublishJobCompleted(event events.JobCompletedEvent) {
	bus.mu.RLock()
	handlers := make([]func(events.JobCompletedEvent), len(bus.jobCompletedHandlers))
	copy(handlers, bus.jobCompletedHandlers)
	bus.mu.RUnlock()

	for _, handler := range handlers {
		go func(h func(events.JobCompletedEvent)) {
			defer func() {
				if r := recover(); r != nil {
					bus.logger.Error("Event handler panicked in JobCompleted",
						"job_id", event.Job.ID,
						"panic", r)
				}
			}()
			h(event)
		}(handler)
	}
}

func (bus *JobEventBus) PublishJobFailed(event events.JobFailedEvent) {
	bus.mu.RLock()
	handlers := make([]func(events.JobFailedEvent), len(bus.jobFailedHandlers))
	copy(handlers, bus.jobFailedHandlers)
	bus.mu.RUnlock()

	for _, handler := range handlers {
		go func(h func(events.JobFailedEvent)) {
			defer func() {
				if r := recover(); r != nil {
					bus.logger.Error("Event handler panicked in JobFailed",
						"job_id", event.Job.ID,
						"error", event.Error,
						"panic", r)
				}
			}()
			h(event)
		}(handler)
	}
}

func (bus *JobEventBus) PublishEventIngested(event events.EventIngestedEvent) {
	bus.mu.RLock()
	handlers := make([]func(events.EventIngestedEvent), len(bus.eventIngestedHandlers))
	copy(handlers, bus.eventIngestedHandlers)
	bus.mu.RUnlock()

	for _, handler := range handlers {
		go func(h func(events.EventIngestedEvent)) {
			defer func() {
				if r := recover(); r != nil {
					bus.logger.Error("Event handler panicked in EventIngested",
						"event_url", event.EventURL,
						"job_id", event.Job.ID,
						"panic", r)
				}
			}()
			h(event)
		}(handler)
	}
}
