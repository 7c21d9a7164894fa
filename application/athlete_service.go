package application

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"racetally/domain/contracts"
	"racetally/domain/race"
)

// DefaultSearchLimit caps fuzzy search responses when the caller does not
// specify a limit.
const DefaultSearchLimit = 20

// AthleteMatch is one fuzzy search hit. Distance is the edit distance
// between the query and the stored name; substring hits score zero.
type AthleteMatch struct {
	Name     string
	Distance int
}

// AthleteService handles athlete-centric queries over ingested results.
type AthleteService struct {
	eventRepo contracts.EventRepository
	perf      *race.PerformanceService
}

// NewAthleteService creates a new athlete service.
func NewAthleteService(eventRepo contracts.EventRepository) *AthleteService {
	return &AthleteService{
		eventRepo: eventRepo,
		perf:      race.NewPerformanceService(),
	}
}

// SearchAthletes ranks known athlete names against a query by edit
// distance. Names containing the query always qualify; other names
// qualify within a distance budget proportional to the query length.
func (s *AthleteService) SearchAthletes(ctx context.Context, query string, limit int) ([]AthleteMatch, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	names, err := s.eventRepo.ListAthleteNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list athlete names: %w", err)
	}

	maxDistance := len([]rune(needle)) / 2
	if maxDistance < 2 {
		maxDistance = 2
	}

	var matches []AthleteMatch
	for _, name := range names {
		candidate := strings.ToLower(name)

		distance := levenshtein.ComputeDistance(needle, candidate)
		if strings.Contains(candidate, needle) {
			distance = 0
		}
		if distance > maxDistance {
			continue
		}

		matches = append(matches, AthleteMatch{Name: name, Distance: distance})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Name < matches[j].Name
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// GetAthleteResults retrieves every result recorded for an athlete.
func (s *AthleteService) GetAthleteResults(ctx context.Context, athleteName string) ([]*race.Result, error) {
	results, err := s.eventRepo.GetResultsForAthlete(ctx, athleteName)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no results for %q: %w", athleteName, contracts.ErrAthleteNotFound)
	}
	return results, nil
}

// CompareAthletes aggregates head-to-head margins across every event
// both athletes finished.
func (s *AthleteService) CompareAthletes(ctx context.Context, athleteA, athleteB string) (*race.HeadToHead, error) {
	resultsA, err := s.eventRepo.GetResultsForAthlete(ctx, athleteA)
	if err != nil {
		return nil, err
	}
	resultsB, err := s.eventRepo.GetResultsForAthlete(ctx, athleteB)
	if err != nil {
		return nil, err
	}
	if len(resultsA) == 0 {
		return nil, fmt.Errorf("no results for %q: %w", athleteA, contracts.ErrAthleteNotFound)
	}
	if len(resultsB) == 0 {
		return nil, fmt.Errorf("no results for %q: %w", athleteB, contracts.ErrAthleteNotFound)
	}

	return s.perf.CompareAthletes(athleteA, athleteB, append(resultsA, resultsB...)), nil
}

// RankAthleteInEvent computes the percentile ranking for an athlete
// within one event's field.
func (s *AthleteService) RankAthleteInEvent(ctx context.Context, athleteName, eventID string) (*race.PercentileRanking, error) {
	field, err := s.eventRepo.GetResultsForEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	ranking := s.perf.RankAthlete(athleteName, field)
	if ranking == nil {
		return nil, fmt.Errorf("no finish for %q in event %s: %w", athleteName, eventID, contracts.ErrAthleteNotFound)
	}
	return ranking, nil
}
