package helpers

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/mock"

	"racetally/domain/jobs"
	"racetally/domain/race"
	"racetally/test/mocks"
)

// MockRepositories holds all repository mocks for easy injection
type MockRepositories struct {
	Job   *mocks.MockJobRepository
	Event *mocks.MockEventRepository
}

// NewMockRepositories creates a new set of repository mocks
func NewMockRepositories() *MockRepositories {
	return &MockRepositories{
		Job:   &mocks.MockJobRepository{},
		Event: &mocks.MockEventRepository{},
	}
}

// ExpectJobCreated sets up expectations for a successful job insert
func (m *MockRepositories) ExpectJobCreated() {
	m.Job.On("CreateJob", mock.Anything, mock.AnythingOfType("*jobs.Job")).Return(nil)
}

// ExpectNoExistingEvent sets up expectations for a URL with no stored event
func (m *MockRepositories) ExpectNoExistingEvent(url string) {
	m.Event.On("FindByURL", mock.Anything, url).Return(nil, nil)
}

// ExpectExistingEvent sets up expectations for a URL already ingested
func (m *MockRepositories) ExpectExistingEvent(url string, event *race.Event) {
	m.Event.On("FindByURL", mock.Anything, url).Return(event, nil)
}

// ExpectEventSaved sets up expectations for the insert-or-existing save
func (m *MockRepositories) ExpectEventSaved(eventID string, created bool) {
	m.Event.On("SaveEvent", mock.Anything, mock.AnythingOfType("*race.Event")).Return(eventID, created, nil)
}

// ExpectResultsSaved sets up expectations for a result batch write
func (m *MockRepositories) ExpectResultsSaved(eventID string, count int) {
	m.Event.On("SaveResults", mock.Anything, eventID, mock.Anything, mock.Anything).Return(count, nil)
}

// AssertAllExpectations verifies all mock expectations were met
func (m *MockRepositories) AssertAllExpectations(t mock.TestingT) {
	m.Job.AssertExpectations(t)
	m.Event.AssertExpectations(t)
}

// TestData provides simple builders for test data
type TestData struct{}

// NewTestData creates a test data builder
func NewTestData() *TestData {
	return &TestData{}
}

// SimpleJob creates a basic scrape job for testing
func (td *TestData) SimpleJob(id string, status jobs.JobStatus) *jobs.Job {
	now := time.Now()
	return &jobs.Job{
		ID:        id,
		Type:      jobs.JobTypeScrape,
		Status:    status,
		Organiser: "harriers",
		EventURL:  "https://results.harriers.example/races/42",
		StartedBy: "tester",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SimpleEvent creates a basic event for testing
func (td *TestData) SimpleEvent(id, name string) *race.Event {
	return &race.Event{
		ID:        id,
		Organiser: "harriers",
		Name:      name,
		Date:      "2026-05-10",
		URL:       "https://results.harriers.example/races/42",
		Distance:  "10K",
		Location:  "Riverside Park",
		CreatedAt: time.Now(),
	}
}

// SimpleResults creates n finished result rows for an event, slowest last
func (td *TestData) SimpleResults(eventID string, n int) []race.Result {
	results := make([]race.Result, 0, n)
	for i := 0; i < n; i++ {
		seconds := float64(2400 + 60*i)
		results = append(results, race.Result{
			EventID:       eventID,
			Position:      i + 1,
			AthleteName:   fmt.Sprintf("Runner %d", i+1),
			Club:          "Test Harriers",
			Distance:      "10K",
			FinishTime:    race.FormatElapsed(seconds),
			FinishSeconds: seconds,
		})
	}
	return results
}

// ScrapedEvent creates scraper output with an event and n result rows
func (td *TestData) ScrapedEvent(name string, n int) *race.ScrapedData {
	event := td.SimpleEvent("", name)
	event.ID = ""
	return &race.ScrapedData{
		Event:   *event,
		Results: td.SimpleResults("", n),
		Raw:     []byte(`{"source":"test"}`),
	}
}

// Helper for common test context
func TestContext() context.Context {
	return context.Background()
}

// Helper for time-based tests
func TestTime(daysAgo int) *time.Time {
	t := time.Now().AddDate(0, 0, -daysAgo)
	return &t
}
