package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"racetally/domain/jobs"
	"racetally/domain/race"
)

// MockCapability implements Capability for testing
type MockCapability struct {
	mock.Mock
}

func (m *MockCapability) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockCapability) ScrapeEvent(ctx context.Context, url string) (*race.ScrapedData, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*race.ScrapedData), args.Error(1)
}

// MockProbe implements Probe for testing
type MockProbe struct {
	mock.Mock
}

func (m *MockProbe) Check(ctx context.Context, url string, timeout time.Duration) bool {
	args := m.Called(ctx, url, timeout)
	return args.Bool(0)
}

// MockPayloadArchive implements PayloadArchive for testing
type MockPayloadArchive struct {
	mock.Mock
}

func (m *MockPayloadArchive) Store(ctx context.Context, jobID string, payload []byte) (string, error) {
	args := m.Called(ctx, jobID, payload)
	return args.String(0), args.Error(1)
}

// MockUpdateNotifier implements UpdateNotifier for testing
type MockUpdateNotifier struct {
	mock.Mock
}

func (m *MockUpdateNotifier) NotifyUpdate() {
	m.Called()
}

func (m *MockUpdateNotifier) NotifyJobUpdate(jobID string, job *jobs.Job) {
	m.Called(jobID, job)
}
