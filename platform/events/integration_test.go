package events

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"racetally/domain/events"
	"racetally/domain/jobs"
)

func createTestJobForIntegration(jobID string, status jobs.JobStatus) *jobs.Job {
	return &jobs.Job{
		ID:          jobID,
		Type:        jobs.JobTypeScrape,
		Status:      status,
		Organiser:   "harriers",
		EventURL:    "https://results.harriers.example/races/42",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		CompletedAt: func() *time.Time { t := time.Now(); return &t }(),
	}
}

// Integration test for the complete event flow: EventBus -> EventHandlers -> SSE
func TestEventSystem_EndToEndFlow_EventBusToSSENotification(t *testing.T) {
	// Arrange - Set up the complete event system
	mockSSE := &MockSSEBroadcaster{}

	// Create event bus and handlers
	eventBus := NewJobEventBus()
	notificationHandlers := NewNotificationEventHandlers(mockSSE)
	notificationHandlers.RegisterHandlers(eventBus)

	// Create test job
	testJob := createTestJobForIntegration("integration-job", jobs.JobStatusCompleted)

	// Set up expectations
	mockSSE.On("BroadcastJobListUpdate").Return()
	mockSSE.On("BroadcastEventsUpdate").Return()

	// Act - Publish events through the event bus
	eventBus.PublishJobCompleted(events.JobCompletedEvent{
		Job:       testJob,
		EventID:   "event-1",
		Timestamp: time.Now(),
	})

	eventBus.PublishEventIngested(events.EventIngestedEvent{
		EventID:      "event-1",
		EventURL:     testJob.EventURL,
		ResultsCount: 57,
		Job:          testJob,
		Timestamp:    time.Now(),
	})

	// Wait for async event processing
	time.Sleep(50 * time.Millisecond)

	// Assert - Verify the complete flow worked
	mockSSE.AssertExpectations(t)
	mockSSE.AssertCalled(t, "BroadcastJobListUpdate")
	mockSSE.AssertCalled(t, "BroadcastEventsUpdate")
}

// Integration test for failed job flow
func TestEventSystem_EndToEndFlow_JobFailureNotification(t *testing.T) {
	// Arrange
	mockSSE := &MockSSEBroadcaster{}

	eventBus := NewJobEventBus()
	notificationHandlers := NewNotificationEventHandlers(mockSSE)
	notificationHandlers.RegisterHandlers(eventBus)

	testJob := createTestJobForIntegration("failed-job", jobs.JobStatusFailed)

	// Set expectations - no events update for failed jobs
	mockSSE.On("BroadcastJobListUpdate").Return()

	// Act
	eventBus.PublishJobFailed(events.JobFailedEvent{
		Job:       testJob,
		Error:     "Test error",
		Timestamp: time.Now(),
	})

	time.Sleep(50 * time.Millisecond)

	// Assert
	mockSSE.AssertExpectations(t)
	mockSSE.AssertCalled(t, "BroadcastJobListUpdate")

	// Should NOT broadcast events update for failed jobs
	mockSSE.AssertNotCalled(t, "BroadcastEventsUpdate")
}

// Integration test for multiple concurrent events
func TestEventSystem_EndToEndFlow_ConcurrentEvents_AllProcessed(t *testing.T) {
	// Arrange
	mockSSE := &MockSSEBroadcaster{}

	eventBus := NewJobEventBus()
	notificationHandlers := NewNotificationEventHandlers(mockSSE)
	notificationHandlers.RegisterHandlers(eventBus)

	// Create multiple test jobs
	const numJobs = 5
	testJobs := make([]*jobs.Job, numJobs)
	for i := 0; i < numJobs; i++ {
		testJobs[i] = createTestJobForIntegration(fmt.Sprintf("concurrent-job-%d", i), jobs.JobStatusCompleted)
	}

	// Set up expectations for all jobs
	mockSSE.On("BroadcastJobListUpdate").Return().Times(numJobs)
	mockSSE.On("BroadcastEventsUpdate").Return().Times(numJobs)

	// Act - Publish events concurrently
	var wg sync.WaitGroup
	wg.Add(numJobs)

	for i := 0; i < numJobs; i++ {
		go func(job *jobs.Job) {
			defer wg.Done()

			eventBus.PublishJobCompleted(events.JobCompletedEvent{
				Job:       job,
				EventID:   "event-" + job.ID,
				Timestamp: time.Now(),
			})

			eventBus.PublishEventIngested(events.EventIngestedEvent{
				EventID:      "event-" + job.ID,
				EventURL:     job.EventURL,
				ResultsCount: 10,
				Job:          job,
				Timestamp:    time.Now(),
			})
		}(testJobs[i])
	}

	wg.Wait()

	// Wait for all async event processing
	time.Sleep(100 * time.Millisecond)

	// Assert
	mockSSE.AssertExpectations(t)
	mockSSE.AssertNumberOfCalls(t, "BroadcastJobListUpdate", numJobs)
	mockSSE.AssertNumberOfCalls(t, "BroadcastEventsUpdate", numJobs)
}

// Integration test verifying event isolation - different event types handled separately
func TestEventSystem_EndToEndFlow_EventTypeIsolation(t *testing.T) {
	// Arrange
	mockSSE := &MockSSEBroadcaster{}

	eventBus := NewJobEventBus()
	notificationHandlers := NewNotificationEventHandlers(mockSSE)
	notificationHandlers.RegisterHandlers(eventBus)

	startedJob := createTestJobForIntegration("started-job", jobs.JobStatusRunning)
	completedJob := createTestJobForIntegration("completed-job", jobs.JobStatusCompleted)
	failedJob := createTestJobForIntegration("failed-job", jobs.JobStatusFailed)

	mockSSE.On("BroadcastJobListUpdate").Return()
	mockSSE.On("BroadcastEventsUpdate").Return() // Only for the ingested event

	// Act - Publish different event types
	eventBus.PublishJobStarted(events.JobStartedEvent{
		Job:       startedJob,
		Timestamp: time.Now(),
	})

	eventBus.PublishJobCompleted(events.JobCompletedEvent{
		Job:       completedJob,
		EventID:   "event-1",
		Timestamp: time.Now(),
	})

	eventBus.PublishJobFailed(events.JobFailedEvent{
		Job:       failedJob,
		Error:     "Test error",
		Timestamp: time.Now(),
	})

	// Only successful ingestions carry new result rows
	eventBus.PublishEventIngested(events.EventIngestedEvent{
		EventID:      "event-1",
		EventURL:     completedJob.EventURL,
		ResultsCount: 57,
		Job:          completedJob,
		Timestamp:    time.Now(),
	})

	time.Sleep(100 * time.Millisecond)

	// Assert
	mockSSE.AssertExpectations(t)

	// Verify events update was called only once (for the ingested event)
	mockSSE.AssertNumberOfCalls(t, "BroadcastEventsUpdate", 1)
	mockSSE.AssertNumberOfCalls(t, "BroadcastJobListUpdate", 3) // For all three job events
}

// Integration test for system resilience when handlers panic
func TestEventSystem_EndToEndFlow_HandlerPanicResilience(t *testing.T) {
	// Arrange
	mockSSE1 := &MockSSEBroadcaster{}
	mockSSE2 := &MockSSEBroadcaster{}

	eventBus := NewJobEventBus()

	// Register two sets of handlers - one will panic, one will work
	handlers1 := NewNotificationEventHandlers(mockSSE1)
	handlers2 := NewNotificationEventHandlers(mockSSE2)

	handlers1.RegisterHandlers(eventBus)
	handlers2.RegisterHandlers(eventBus)

	testJob := createTestJobForIntegration("panic-test-job", jobs.JobStatusCompleted)

	// First handler will panic
	mockSSE1.On("BroadcastJobListUpdate").
		Run(func(args mock.Arguments) {
			panic("Handler 1 panic!")
		}).Return()

	// Second handler should work normally despite first handler panic
	mockSSE2.On("BroadcastJobListUpdate").Return()

	// Act - should not crash despite handler panic
	require.NotPanics(t, func() {
		eventBus.PublishJobCompleted(events.JobCompletedEvent{
			Job:       testJob,
			EventID:   "event-1",
			Timestamp: time.Now(),
		})
	})

	time.Sleep(100 * time.Millisecond)

	// Assert - second handler should still work
	mockSSE2.AssertExpectations(t)
}

// Integration test for event ordering and timing
func TestEventSystem_EndToEndFlow_EventOrdering(t *testing.T) {
	// Arrange
	mockSSE := &MockSSEBroadcaster{}

	eventBus := NewJobEventBus()
	notificationHandlers := NewNotificationEventHandlers(mockSSE)
	notificationHandlers.RegisterHandlers(eventBus)

	testJob := createTestJobForIntegration("ordering-job", jobs.JobStatusCompleted)

	// Track call order
	var callOrder []string
	var mu sync.Mutex

	mockSSE.On("BroadcastJobListUpdate").
		Run(func(args mock.Arguments) {
			mu.Lock()
			callOrder = append(callOrder, "JobListUpdate")
			mu.Unlock()
		}).Return()

	mockSSE.On("BroadcastEventsUpdate").
		Run(func(args mock.Arguments) {
			mu.Lock()
			callOrder = append(callOrder, "EventsUpdate")
			mu.Unlock()
		}).Return()

	// Act - Publish events
	eventBus.PublishJobCompleted(events.JobCompletedEvent{
		Job:       testJob,
		EventID:   "event-1",
		Timestamp: time.Now(),
	})

	eventBus.PublishEventIngested(events.EventIngestedEvent{
		EventID:      "event-1",
		EventURL:     testJob.EventURL,
		ResultsCount: 57,
		Job:          testJob,
		Timestamp:    time.Now(),
	})

	time.Sleep(100 * time.Millisecond)

	// Assert
	mockSSE.AssertExpectations(t)

	mu.Lock()
	require.Len(t, callOrder, 2, "All handlers should have been called")

	// Verify that all expected calls were made (order may vary due to async nature)
	assert.Contains(t, callOrder, "JobListUpdate")
	assert.Contains(t, callOrder, "EventsUpdate")
	mu.Unlock()
}
