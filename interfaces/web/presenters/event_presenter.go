package presenters

import (
	"time"

	"racetally/domain/race"
)

// Event and result view data structures

// EventView represents one ingested event for API responses
type EventView struct {
	ID        string            `json:"id"`
	Organiser string            `json:"organiser"`
	Name      string            `json:"name"`
	Date      string            `json:"date,omitempty"`
	URL       string            `json:"url"`
	Distance  string            `json:"distance"`
	Location  string            `json:"location,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt string            `json:"created_at"`
}

// EventListView represents a list of events
type EventListView struct {
	Events []*EventView `json:"events"`
	Count  int          `json:"count"`
}

// ResultView represents one result row for API responses
type ResultView struct {
	ID            string            `json:"id"`
	EventID       string            `json:"event_id"`
	Position      int               `json:"position,omitempty"`
	BibNumber     string            `json:"bib_number,omitempty"`
	AthleteName   string            `json:"athlete_name"`
	Club          string            `json:"club,omitempty"`
	Category      string            `json:"category,omitempty"`
	Distance      string            `json:"distance,omitempty"`
	FinishTime    string            `json:"finish_time,omitempty"`
	FinishSeconds float64           `json:"finish_seconds,omitempty"`
	Splits        map[string]string `json:"splits,omitempty"`
}

// EventResultsView represents an event together with its result rows
type EventResultsView struct {
	Event   *EventView    `json:"event"`
	Results []*ResultView `json:"results"`
	Count   int           `json:"count"`
}

// CourseProfileView represents course difficulty metrics for API responses
type CourseProfileView struct {
	EventID         string  `json:"event_id"`
	FieldSize       int     `json:"field_size"`
	Finishers       int     `json:"finishers"`
	MedianSeconds   float64 `json:"median_seconds"`
	MedianTime      string  `json:"median_time"`
	MeanSeconds     float64 `json:"mean_seconds"`
	SpreadSeconds   float64 `json:"spread_seconds"`
	DifficultyScore float64 `json:"difficulty_score"`
}

// EventPresenter transforms event domain data into API view models.
type EventPresenter struct{}

// NewEventPresenter creates an event presenter.
func NewEventPresenter() *EventPresenter {
	return &EventPresenter{}
}

// FormatEvent converts one event to its view model.
func (p *EventPresenter) FormatEvent(event *race.Event) *EventView {
	if event == nil {
		return nil
	}

	return &EventView{
		ID:        event.ID,
		Organiser: event.Organiser,
		Name:      event.Name,
		Date:      event.Date,
		URL:       event.URL,
		Distance:  event.NormalizedDistance(),
		Location:  event.Location,
		Metadata:  event.Metadata,
		CreatedAt: event.CreatedAt.Format(time.RFC3339),
	}
}

// FormatEventList converts multiple events to a list view model.
func (p *EventPresenter) FormatEventList(events []*race.Event) *EventListView {
	eventViews := make([]*EventView, 0, len(events))

	for _, event := range events {
		if view := p.FormatEvent(event); view != nil {
			eventViews = append(eventViews, view)
		}
	}

	return &EventListView{
		Events: eventViews,
		Count:  len(eventViews),
	}
}

// FormatResult converts one result row to its view model.
func (p *EventPresenter) FormatResult(result *race.Result) *ResultView {
	if result == nil {
		return nil
	}

	return &ResultView{
		ID:            result.ID,
		EventID:       result.EventID,
		Position:      result.Position,
		BibNumber:     result.BibNumber,
		AthleteName:   result.AthleteName,
		Club:          result.Club,
		Category:      result.Category,
		Distance:      result.Distance,
		FinishTime:    result.FinishTime,
		FinishSeconds: result.FinishSeconds,
		Splits:        result.Splits,
	}
}

// FormatResults converts multiple result rows to view models.
func (p *EventPresenter) FormatResults(results []*race.Result) []*ResultView {
	resultViews := make([]*ResultView, 0, len(results))

	for _, result := range results {
		if view := p.FormatResult(result); view != nil {
			resultViews = append(resultViews, view)
		}
	}

	return resultViews
}

// FormatEventResults converts an event and its result rows to a combined view model.
func (p *EventPresenter) FormatEventResults(event *race.Event, results []*race.Result) *EventResultsView {
	resultViews := p.FormatResults(results)

	return &EventResultsView{
		Event:   p.FormatEvent(event),
		Results: resultViews,
		Count:   len(resultViews),
	}
}

// FormatCourseProfile converts course difficulty metrics to a view model.
func (p *EventPresenter) FormatCourseProfile(profile *race.CourseProfile) *CourseProfileView {
	if profile == nil {
		return nil
	}

	return &CourseProfileView{
		EventID:         profile.EventID,
		FieldSize:       profile.FieldSize,
		Finishers:       profile.Finishers,
		MedianSeconds:   profile.MedianSeconds,
		MedianTime:      race.FormatElapsed(profile.MedianSeconds),
		MeanSeconds:     profile.MeanSeconds,
		SpreadSeconds:   profile.SpreadSeconds,
		DifficultyScore: profile.DifficultyScore,
	}
}
