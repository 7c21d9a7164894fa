package presenters

import (
	"racetally/application"
	"racetally/domain/race"
)

// Athlete view data structures

// AthleteMatchView represents one fuzzy search hit
type AthleteMatchView struct {
	Name     string `json:"name"`
	Distance int    `json:"distance"`
}

// AthleteSearchView represents a fuzzy search response
type AthleteSearchView struct {
	Query   string              `json:"query"`
	Matches []*AthleteMatchView `json:"matches"`
	Count   int                 `json:"count"`
}

// HeadToHeadView represents an aggregate comparison between two athletes
type HeadToHeadView struct {
	AthleteA      string  `json:"athlete_a"`
	AthleteB      string  `json:"athlete_b"`
	SharedEvents  int     `json:"shared_events"`
	WinsA         int     `json:"wins_a"`
	WinsB         int     `json:"wins_b"`
	Ties          int     `json:"ties"`
	AvgMarginSecs float64 `json:"avg_margin_seconds"`
}

// PercentileView represents one finish time's standing within a field
type PercentileView struct {
	AthleteName   string  `json:"athlete_name"`
	EventID       string  `json:"event_id"`
	FinishSeconds float64 `json:"finish_seconds"`
	FinishTime    string  `json:"finish_time"`
	FieldSize     int     `json:"field_size"`
	Beaten        int     `json:"beaten"`
	Percentile    float64 `json:"percentile"`
}

// AthleteResultsView represents every result recorded for one athlete
type AthleteResultsView struct {
	AthleteName string        `json:"athlete_name"`
	Results     []*ResultView `json:"results"`
	Count       int           `json:"count"`
}

// AthletePresenter transforms athlete query results into API view models.
type AthletePresenter struct {
	eventPresenter *EventPresenter
}

// NewAthletePresenter creates an athlete presenter.
func NewAthletePresenter() *AthletePresenter {
	return &AthletePresenter{
		eventPresenter: NewEventPresenter(),
	}
}

// FormatSearch converts fuzzy search matches to a view model.
func (p *AthletePresenter) FormatSearch(query string, matches []application.AthleteMatch) *AthleteSearchView {
	matchViews := make([]*AthleteMatchView, 0, len(matches))

	for _, match := range matches {
		matchViews = append(matchViews, &AthleteMatchView{
			Name:     match.Name,
			Distance: match.Distance,
		})
	}

	return &AthleteSearchView{
		Query:   query,
		Matches: matchViews,
		Count:   len(matchViews),
	}
}

// FormatHeadToHead converts a head-to-head comparison to a view model.
func (p *AthletePresenter) FormatHeadToHead(comparison *race.HeadToHead) *HeadToHeadView {
	if comparison == nil {
		return nil
	}

	return &HeadToHeadView{
		AthleteA:      comparison.AthleteA,
		AthleteB:      comparison.AthleteB,
		SharedEvents:  comparison.SharedEvents,
		WinsA:         comparison.WinsA,
		WinsB:         comparison.WinsB,
		Ties:          comparison.Ties,
		AvgMarginSecs: comparison.AvgMarginSecs,
	}
}

// FormatPercentile converts a percentile ranking to a view model.
func (p *AthletePresenter) FormatPercentile(ranking *race.PercentileRanking) *PercentileView {
	if ranking == nil {
		return nil
	}

	return &PercentileView{
		AthleteName:   ranking.AthleteName,
		EventID:       ranking.EventID,
		FinishSeconds: ranking.FinishSeconds,
		FinishTime:    race.FormatElapsed(ranking.FinishSeconds),
		FieldSize:     ranking.FieldSize,
		Beaten:        ranking.Beaten,
		Percentile:    ranking.Percentile,
	}
}

// FormatAthleteResults converts an athlete's results to a view model.
func (p *AthletePresenter) FormatAthleteResults(athleteName string, results []*race.Result) *AthleteResultsView {
	resultViews := p.eventPresenter.FormatResults(results)

	return &AthleteResultsView{
		AthleteName: athleteName,
		Results:     resultViews,
		Count:       len(resultViews),
	}
}
