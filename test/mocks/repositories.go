package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"racetally/domain/contracts"
	"racetally/domain/jobs"
	"racetally/domain/race"
)

// MockJobRepository implements JobRepository for testing
type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) CreateJob(ctx context.Context, job *jobs.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) UpdateJob(ctx context.Context, jobID string, update contracts.JobUpdate) (*jobs.Job, error) {
	args := m.Called(ctx, jobID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobs.Job), args.Error(1)
}

func (m *MockJobRepository) GetJob(ctx context.Context, jobID string) (*jobs.Job, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobs.Job), args.Error(1)
}

func (m *MockJobRepository) ListJobs(ctx context.Context) ([]*jobs.Job, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*jobs.Job), args.Error(1)
}

func (m *MockJobRepository) ListJobsByStatus(ctx context.Context, status jobs.JobStatus) ([]*jobs.Job, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*jobs.Job), args.Error(1)
}

func (m *MockJobRepository) ListActiveJobs(ctx context.Context) ([]*jobs.Job, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*jobs.Job), args.Error(1)
}

func (m *MockJobRepository) DeleteOldJobs(ctx context.Context, olderThan time.Time) error {
	args := m.Called(ctx, olderThan)
	return args.Error(0)
}

// MockEventRepository implements EventRepository for testing
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) FindByURL(ctx context.Context, url string) (*race.Event, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*race.Event), args.Error(1)
}

func (m *MockEventRepository) SaveEvent(ctx context.Context, event *race.Event) (string, bool, error) {
	args := m.Called(ctx, event)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockEventRepository) SaveResults(ctx context.Context, eventID string, results []race.Result, distance string) (int, error) {
	args := m.Called(ctx, eventID, results, distance)
	return args.Int(0), args.Error(1)
}

func (m *MockEventRepository) GetEvent(ctx context.Context, eventID string) (*race.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*race.Event), args.Error(1)
}

func (m *MockEventRepository) ListEvents(ctx context.Context) ([]*race.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*race.Event), args.Error(1)
}

func (m *MockEventRepository) GetResultsForEvent(ctx context.Context, eventID string) ([]*race.Result, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*race.Result), args.Error(1)
}

func (m *MockEventRepository) GetResultsForAthlete(ctx context.Context, athleteName string) ([]*race.Result, error) {
	args := m.Called(ctx, athleteName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*race.Result), args.Error(1)
}

func (m *MockEventRepository) ListAthleteNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
