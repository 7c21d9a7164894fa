package mocks

import (
	"github.com/stretchr/testify/mock"

	"racetally/domain/events"
)

// MockJobEventPublisher is a mock implementation of JobEventPublisher for testing
type MockJobEventPublisher struct {
	mock.Mock
}

func (m *MockJobEventPublisher) PublishJobStarted(event events.JobStartedEvent) {
	m.Called(event)
}

func (m *MockJobEventPublisher) PublishJobCompleted(event events.JobCompletedEvent) {
	m.Called(event)
}

func (m *MockJobEventPublisher) PublishJobFailed(event events.JobFailedEvent) {
	m.Called(event)
}

func (m *MockJobEventPublisher) PublishEventIngested(event events.EventIngestedEvent) {
	m.Called(event)
}
