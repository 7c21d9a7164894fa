package application

import (
	"context"

	"racetally/domain/contracts"
	"racetally/domain/race"
)

// EventBrowsingService handles event browsing and course statistics queries.
type EventBrowsingService struct {
	eventRepo contracts.EventRepository
	perf      *race.PerformanceService
}

// NewEventBrowsingService creates a new event browsing service.
func NewEventBrowsingService(eventRepo contracts.EventRepository) *EventBrowsingService {
	return &EventBrowsingService{
		eventRepo: eventRepo,
		perf:      race.NewPerformanceService(),
	}
}

// ListEvents retrieves all ingested events, newest first.
func (s *EventBrowsingService) ListEvents(ctx context.Context) ([]*race.Event, error) {
	return s.eventRepo.ListEvents(ctx)
}

// GetEvent retrieves a single event by id.
func (s *EventBrowsingService) GetEvent(ctx context.Context, eventID string) (*race.Event, error) {
	return s.eventRepo.GetEvent(ctx, eventID)
}

// GetEventResults retrieves the result rows for an event in finishing order.
func (s *EventBrowsingService) GetEventResults(ctx context.Context, eventID string) ([]*race.Result, error) {
	if _, err := s.eventRepo.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.eventRepo.GetResultsForEvent(ctx, eventID)
}

// GetCourseProfile computes aggregate difficulty metrics for an event's field.
func (s *EventBrowsingService) GetCourseProfile(ctx context.Context, eventID string) (*race.CourseProfile, error) {
	if _, err := s.eventRepo.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}

	field, err := s.eventRepo.GetResultsForEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	return s.perf.ProfileCourse(eventID, field), nil
}
