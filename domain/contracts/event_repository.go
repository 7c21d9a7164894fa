package contracts

import (
	"context"

	"racetally/domain/race"
)

// EventRepository defines persistence operations for events and results.
type EventRepository interface {
	// FindByURL retrieves the event stored for a source URL, or nil if
	// no event exists for it.
	FindByURL(ctx context.Context, url string) (*race.Event, error)

	// SaveEvent inserts an event keyed by its source URL. If an event
	// already exists for that URL the existing id is returned with
	// created=false; the insert and the existence check are atomic.
	SaveEvent(ctx context.Context, event *race.Event) (eventID string, created bool, err error)

	// SaveResults persists a batch of result rows for an event and
	// returns the number of rows actually written. Rows that cannot be
	// stored are skipped, not fatal.
	SaveResults(ctx context.Context, eventID string, results []race.Result, distance string) (int, error)

	// GetEvent retrieves an event by id. Returns ErrEventNotFound if unknown.
	GetEvent(ctx context.Context, eventID string) (*race.Event, error)

	ListEvents(ctx context.Context) ([]*race.Event, error)
	GetResultsForEvent(ctx context.Context, eventID string) ([]*race.Result, error)
	GetResultsForAthlete(ctx context.Context, athleteName string) ([]*race.Result, error)
	ListAthleteNames(ctx context.Context) ([]string, error)
}
