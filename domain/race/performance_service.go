package race

import (
	"math"
	"sort"
	"strings"
)

// PercentileRanking represents how one finish time sits within a field.
type PercentileRanking struct {
	AthleteName   string
	EventID       string
	FinishSeconds float64
	FieldSize     int
	Beaten        int     // finishers slower than the athlete
	Percentile    float64 // 0-100, higher is better
}

// HeadToHead represents an aggregate comparison between two athletes
// across the events they both finished.
type HeadToHead struct {
	AthleteA      string
	AthleteB      string
	SharedEvents  int
	WinsA         int
	WinsB         int
	Ties          int
	AvgMarginSecs float64 // positive when A is faster on average
}

// CourseProfile represents aggregate difficulty metrics for one event.
type CourseProfile struct {
	EventID         string
	FieldSize       int
	Finishers       int
	MedianSeconds   float64
	MeanSeconds     float64
	SpreadSeconds   float64 // slowest minus fastest finisher
	DifficultyScore float64 // 0-100, relative to the supplied baseline
}

// PerformanceService computes rankings and comparisons over result rows.
// It is stateless; all inputs arrive as arguments.
type PerformanceService struct {
	// baselineSeconds anchors difficulty scoring; a course whose median
	// equals the baseline scores 50.
	baselineSeconds float64
}

// NewPerformanceService creates a performance service with the default baseline.
func NewPerformanceService() *PerformanceService {
	return &PerformanceService{
		baselineSeconds: 3600,
	}
}

// RankAthlete computes the percentile ranking for one athlete within a field.
// Returns nil if the athlete has no finish time in the field.
func (s *PerformanceService) RankAthlete(athleteName string, field []*Result) *PercentileRanking {
	var subject *Result
	for _, r := range field {
		if r.Finished() && equalAthleteName(r.AthleteName, athleteName) {
			subject = r
			break
		}
	}
	if subject == nil {
		return nil
	}

	finishers := 0
	beaten := 0
	for _, r := range field {
		if !r.Finished() {
			continue
		}
		finishers++
		if r.FinishSeconds > subject.FinishSeconds {
			beaten++
		}
	}

	percentile := 0.0
	if finishers > 1 {
		percentile = float64(beaten) / float64(finishers-1) * 100
	} else if finishers == 1 {
		percentile = 100
	}

	return &PercentileRanking{
		AthleteName:   subject.AthleteName,
		EventID:       subject.EventID,
		FinishSeconds: subject.FinishSeconds,
		FieldSize:     finishers,
		Beaten:        beaten,
		Percentile:    math.Round(percentile*10) / 10,
	}
}

// CompareAthletes aggregates finish-time margins for two athletes across
// every event where both recorded a finish.
func (s *PerformanceService) CompareAthletes(athleteA, athleteB string, results []*Result) *HeadToHead {
	comparison := &HeadToHead{
		AthleteA: athleteA,
		AthleteB: athleteB,
	}

	timesA := finishTimesByEvent(athleteA, results)
	timesB := finishTimesByEvent(athleteB, results)

	totalMargin := 0.0
	for eventID, secondsA := range timesA {
		secondsB, shared := timesB[eventID]
		if !shared {
			continue
		}

		comparison.SharedEvents++
		margin := secondsB - secondsA
		totalMargin += margin

		switch {
		case margin > 0:
			comparison.WinsA++
		case margin < 0:
			comparison.WinsB++
		default:
			comparison.Ties++
		}
	}

	if comparison.SharedEvents > 0 {
		comparison.AvgMarginSecs = math.Round(totalMargin/float64(comparison.SharedEvents)*10) / 10
	}

	return comparison
}

// ProfileCourse computes aggregate difficulty metrics for one event's field.
func (s *PerformanceService) ProfileCourse(eventID string, field []*Result) *CourseProfile {
	profile := &CourseProfile{
		EventID:   eventID,
		FieldSize: len(field),
	}

	var times []float64
	for _, r := range field {
		if r.Finished() {
			times = append(times, r.FinishSeconds)
		}
	}
	profile.Finishers = len(times)
	if len(times) == 0 {
		return profile
	}

	sort.Float64s(times)
	profile.MedianSeconds = median(times)
	profile.MeanSeconds = mean(times)
	profile.SpreadSeconds = times[len(times)-1] - times[0]
	profile.DifficultyScore = s.scoreDifficulty(profile.MedianSeconds)

	return profile
}

// Private helpers for ranking computation

// scoreDifficulty maps a median finish time onto a 0-100 scale around the baseline.
func (s *PerformanceService) scoreDifficulty(medianSeconds float64) float64 {
	if medianSeconds <= 0 || s.baselineSeconds <= 0 {
		return 0
	}

	score := 50 * medianSeconds / s.baselineSeconds
	if score > 100 {
		score = 100
	}
	return math.Round(score*10) / 10
}

// finishTimesByEvent indexes one athlete's finish times by event id.
func finishTimesByEvent(athleteName string, results []*Result) map[string]float64 {
	times := make(map[string]float64)
	for _, r := range results {
		if r.Finished() && equalAthleteName(r.AthleteName, athleteName) {
			times[r.EventID] = r.FinishSeconds
		}
	}
	return times
}

func equalAthleteName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}
