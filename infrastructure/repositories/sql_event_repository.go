package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"racetally/database"
	"racetally/domain/contracts"
	"racetally/domain/race"
	"racetally/infrastructure/serialization"
)

const eventColumns = "id, organiser, name, event_date, event_url, distance, location, metadata_json, created_at"

const resultColumns = "id, event_id, position, bib_number, athlete_name, club, category, distance, finish_time, finish_seconds, splits_json"

// SqlEventRepository implements contracts.EventRepository using hand-written SQL with read/write separation.
type SqlEventRepository struct {
	*BaseRepository
	serializer *serialization.AttributeSerializer
}

// NewSqlEventRepository creates a new event repository with read/write database separation.
func NewSqlEventRepository(database *database.Database) contracts.EventRepository {
	return &SqlEventRepository{
		BaseRepository: NewBaseRepository(database),
		serializer:     serialization.NewAttributeSerializer(),
	}
}

// FindByURL retrieves the event stored for a source URL, or nil if absent.
func (r *SqlEventRepository) FindByURL(ctx context.Context, url string) (*race.Event, error) {
	query := "SELECT " + eventColumns + " FROM events WHERE event_url = ?"

	row := r.ReadDB().QueryRowContext(ctx, query, url)
	event, err := r.scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find event by url %s: %w", url, err)
	}
	return event, nil
}

// SaveEvent inserts an event keyed by its source URL. The UNIQUE constraint
// on event_url makes the existence check and insert a single atomic step:
// when two pipelines race on the same URL, exactly one insert wins and the
// loser receives the winner's id with created=false.
func (r *SqlEventRepository) SaveEvent(ctx context.Context, event *race.Event) (string, bool, error) {
	eventID := event.ID
	if eventID == "" {
		eventID = uuid.NewString()
	}

	metadataJSON, err := r.serializer.Serialize(event.Metadata)
	if err != nil {
		return "", false, fmt.Errorf("save event %s: %w", event.URL, err)
	}

	organiser := event.Organiser
	if organiser == "" {
		organiser = "unknown"
	}

	query := `
		INSERT INTO events (id, organiser, name, event_date, event_url, distance, location, metadata_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(event_url) DO NOTHING
	`

	result, err := r.WriteDB().ExecContext(ctx, query,
		eventID,
		organiser,
		event.Name,
		event.Date,
		event.URL,
		event.NormalizedDistance(),
		event.Location,
		metadataJSON,
	)
	if err != nil {
		return "", false, fmt.Errorf("save event %s: %w", event.URL, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return "", false, fmt.Errorf("save event %s: %w", event.URL, err)
	}
	if affected > 0 {
		return eventID, true, nil
	}

	// Conflict path: a concurrent insert won on this URL.
	existing, err := r.FindByURL(ctx, event.URL)
	if err != nil {
		return "", false, err
	}
	if existing == nil {
		return "", false, fmt.Errorf("save event %s: conflicting row not readable", event.URL)
	}
	return existing.ID, false, nil
}

// SaveResults persists a batch of result rows for an event in one transaction.
// Rows without an athlete name are skipped; the returned count covers rows
// actually written.
func (r *SqlEventRepository) SaveResults(ctx context.Context, eventID string, results []race.Result, distance string) (int, error) {
	if len(results) == 0 {
		return 0, nil
	}

	written := 0
	err := r.WithTx(func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO results (`+resultColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, row := range results {
			if strings.TrimSpace(row.AthleteName) == "" {
				continue
			}

			splitsJSON, err := r.serializer.Serialize(row.Splits)
			if err != nil {
				return err
			}

			rowID := row.ID
			if rowID == "" {
				rowID = uuid.NewString()
			}

			rowDistance := row.Distance
			if rowDistance == "" {
				rowDistance = distance
			}

			if _, err := stmt.ExecContext(ctx,
				rowID,
				eventID,
				row.Position,
				row.BibNumber,
				row.AthleteName,
				row.Club,
				row.Category,
				rowDistance,
				row.FinishTime,
				row.FinishSeconds,
				splitsJSON,
			); err != nil {
				return err
			}
			written++
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("save results for event %s: %w", eventID, err)
	}

	return written, nil
}

// GetEvent retrieves an event by id.
func (r *SqlEventRepository) GetEvent(ctx context.Context, eventID string) (*race.Event, error) {
	query := "SELECT " + eventColumns + " FROM events WHERE id = ?"

	row := r.ReadDB().QueryRowContext(ctx, query, eventID)
	event, err := r.scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get event %s: %w", eventID, contracts.ErrEventNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get event %s: %w", eventID, err)
	}
	return event, nil
}

// ListEvents retrieves all events, newest first.
func (r *SqlEventRepository) ListEvents(ctx context.Context) ([]*race.Event, error) {
	query := "SELECT " + eventColumns + " FROM events ORDER BY created_at DESC"

	rows, err := r.ReadDB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []*race.Event
	for rows.Next() {
		event, err := r.scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}

// GetResultsForEvent retrieves all result rows for one event ordered by position.
func (r *SqlEventRepository) GetResultsForEvent(ctx context.Context, eventID string) ([]*race.Result, error) {
	query := "SELECT " + resultColumns + " FROM results WHERE event_id = ? ORDER BY position, finish_seconds"
	return r.queryResults(ctx, query, eventID)
}

// GetResultsForAthlete retrieves all result rows recorded for an athlete name.
func (r *SqlEventRepository) GetResultsForAthlete(ctx context.Context, athleteName string) ([]*race.Result, error) {
	query := "SELECT " + resultColumns + " FROM results WHERE athlete_name = ? COLLATE NOCASE ORDER BY event_id, position"
	return r.queryResults(ctx, query, athleteName)
}

// ListAthleteNames retrieves the distinct athlete names across all results.
func (r *SqlEventRepository) ListAthleteNames(ctx context.Context) ([]string, error) {
	query := "SELECT DISTINCT athlete_name FROM results ORDER BY athlete_name"

	rows, err := r.ReadDB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list athlete names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan athlete name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate athlete names: %w", err)
	}

	return names, nil
}

// queryResults runs a multi-row result query and scans the rows.
func (r *SqlEventRepository) queryResults(ctx context.Context, query string, args ...any) ([]*race.Result, error) {
	rows, err := r.ReadDB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var results []*race.Result
	for rows.Next() {
		result, err := r.scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}

	return results, nil
}

// scanEvent maps one events row onto the domain type.
func (r *SqlEventRepository) scanEvent(row rowScanner) (*race.Event, error) {
	var (
		event        race.Event
		metadataJSON string
	)

	err := row.Scan(
		&event.ID,
		&event.Organiser,
		&event.Name,
		&event.Date,
		&event.URL,
		&event.Distance,
		&event.Location,
		&metadataJSON,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	event.Metadata, err = r.serializer.Deserialize(metadataJSON)
	if err != nil {
		return nil, err
	}

	return &event, nil
}

// scanResult maps one results row onto the domain type.
func (r *SqlEventRepository) scanResult(row rowScanner) (*race.Result, error) {
	var (
		result     race.Result
		splitsJSON string
	)

	err := row.Scan(
		&result.ID,
		&result.EventID,
		&result.Position,
		&result.BibNumber,
		&result.AthleteName,
		&result.Club,
		&result.Category,
		&result.Distance,
		&result.FinishTime,
		&result.FinishSeconds,
		&splitsJSON,
	)
	if err != nil {
		return nil, err
	}

	result.Splits, err = r.serializer.Deserialize(splitsJSON)
	if err != nil {
		return nil, err
	}

	return &result, nil
}
