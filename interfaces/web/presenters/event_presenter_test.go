package presenters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"racetally/domain/race"
)

// Helper to create test event data
func createTestEvent(id, name string) *race.Event {
	return &race.Event{
		ID:        id,
		Organiser: "harriers",
		Name:      name,
		Date:      "2026-05-10",
		URL:       "https://results.harriers.example/races/42",
		Distance:  "10K",
		Location:  "Riverside Park",
		Metadata:  map[string]string{"surface": "road"},
		CreatedAt: time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC),
	}
}

func createTestResult(eventID, name string, seconds float64) *race.Result {
	return &race.Result{
		ID:            "result-1",
		EventID:       eventID,
		Position:      1,
		BibNumber:     "101",
		AthleteName:   name,
		Club:          "Riverside Harriers",
		Category:      "SF",
		Distance:      "10K",
		FinishTime:    race.FormatElapsed(seconds),
		FinishSeconds: seconds,
		Splits:        map[string]string{"5K": "18:55"},
	}
}

func TestEventPresenter_FormatEvent_BasicFields(t *testing.T) {
	// Arrange
	presenter := NewEventPresenter()
	event := createTestEvent("event-1", "Spring 10K")

	// Act
	result := presenter.FormatEvent(event)

	// Assert - Test presentation outcomes
	require.NotNil(t, result)
	assert.Equal(t, "event-1", result.ID)
	assert.Equal(t, "harriers", result.Organiser)
	assert.Equal(t, "Spring 10K", result.Name)
	assert.Equal(t, "2026-05-10", result.Date)
	assert.Equal(t, "https://results.harriers.example/races/42", result.URL)
	assert.Equal(t, "10K", result.Distance)
	assert.Equal(t, "Riverside Park", result.Location)
	assert.Equal(t, "road", result.Metadata["surface"])
	assert.Equal(t, "2026-05-10T12:00:00Z", result.CreatedAt)
}

func TestEventPresenter_FormatEvent_MissingDistance(t *testing.T) {
	// Arrange
	presenter := NewEventPresenter()
	event := createTestEvent("event-1", "Mystery Dash")
	event.Distance = ""

	// Act
	result := presenter.FormatEvent(event)

	// Assert
	require.NotNil(t, result)
	assert.Equal(t, race.DistanceUnknown, result.Distance)
}

func TestEventPresenter_FormatEventList_MultipleEvents(t *testing.T) {
	// Arrange
	presenter := NewEventPresenter()
	events := []*race.Event{
		createTestEvent("event-1", "Spring 10K"),
		createTestEvent("event-2", "Summer 5K"),
	}

	// Act
	result := presenter.FormatEventList(events)

	// Assert
	require.NotNil(t, result)
	require.Len(t, result.Events, 2)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, "Spring 10K", result.Events[0].Name)
	assert.Equal(t, "Summer 5K", result.Events[1].Name)
}

func TestEventPresenter_FormatEventList_EmptyList(t *testing.T) {
	// Arrange
	presenter := NewEventPresenter()

	// Act
	result := presenter.FormatEventList(nil)

	// Assert
	require.NotNil(t, result)
	assert.Empty(t, result.Events)
	assert.Equal(t, 0, result.Count)
}

func TestEventPresenter_FormatEventResults(t *testing.T) {
	// Arrange
	presenter := NewEventPresenter()
	event := createTestEvent("event-1", "Spring 10K")
	results := []*race.Result{
		createTestResult("event-1", "Ann Harper", 2292),
		createTestResult("event-1", "Ben Okoro", 2355),
	}

	// Act
	view := presenter.FormatEventResults(event, results)

	// Assert
	require.NotNil(t, view)
	require.NotNil(t, view.Event)
	assert.Equal(t, "event-1", view.Event.ID)
	require.Len(t, view.Results, 2)
	assert.Equal(t, 2, view.Count)
	assert.Equal(t, "Ann Harper", view.Results[0].AthleteName)
	assert.Equal(t, "38:12", view.Results[0].FinishTime)
	assert.Equal(t, 2292.0, view.Results[0].FinishSeconds)
	assert.Equal(t, "18:55", view.Results[0].Splits["5K"])
}

func TestEventPresenter_FormatCourseProfile(t *testing.T) {
	// Arrange
	presenter := NewEventPresenter()
	profile := &race.CourseProfile{
		EventID:         "event-1",
		FieldSize:       4,
		Finishers:       3,
		MedianSeconds:   2700,
		MeanSeconds:     2700,
		SpreadSeconds:   600,
		DifficultyScore: 37.5,
	}

	// Act
	view := presenter.FormatCourseProfile(profile)

	// Assert
	require.NotNil(t, view)
	assert.Equal(t, "event-1", view.EventID)
	assert.Equal(t, 4, view.FieldSize)
	assert.Equal(t, 3, view.Finishers)
	assert.Equal(t, 2700.0, view.MedianSeconds)
	assert.Equal(t, "45:00", view.MedianTime)
	assert.Equal(t, 37.5, view.DifficultyScore)
}

// Test nil safety and error handling
func TestEventPresenter_NilSafety(t *testing.T) {
	presenter := NewEventPresenter()

	assert.Nil(t, presenter.FormatEvent(nil))
	assert.Nil(t, presenter.FormatResult(nil))
	assert.Nil(t, presenter.FormatCourseProfile(nil))
}
