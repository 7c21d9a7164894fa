package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"racetally/application"
	"racetally/interfaces/web/presenters"
	"racetally/logging"
)

// AthleteHandlers handles HTTP requests for athlete search and comparison.
type AthleteHandlers struct {
	athleteService   *application.AthleteService
	athletePresenter *presenters.AthletePresenter
	logger           *logging.Logger
}

// NewAthleteHandlers creates a new athlete handlers instance.
func NewAthleteHandlers(
	athleteService *application.AthleteService,
	athletePresenter *presenters.AthletePresenter,
) *AthleteHandlers {
	return &AthleteHandlers{
		athleteService:   athleteService,
		athletePresenter: athletePresenter,
		logger:           logging.Default().WithComponent("athlete_handler"),
	}
}

// SearchAthletes ranks known athlete names against a fuzzy query.
// GET /athletes/search?q={query}&limit={n}
func (h *AthleteHandlers) SearchAthletes(w http.ResponseWriter, r *http.Request) {
	query := queryString(r, "q")
	if query == "" {
		WriteError(w, http.StatusBadRequest, "missing q parameter")
		return
	}
	limit := queryInt(r, "limit", application.DefaultSearchLimit)

	matches, err := h.athleteService.SearchAthletes(r.Context(), query, limit)
	if err != nil {
		h.logger.Error("Failed to search athletes", "query", query, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to search athletes")
		return
	}

	WriteJSON(w, http.StatusOK, h.athletePresenter.FormatSearch(query, matches))
}

// GetAthleteResults returns every result recorded for an athlete.
// GET /athletes/results?name={athlete}
func (h *AthleteHandlers) GetAthleteResults(w http.ResponseWriter, r *http.Request) {
	name := queryString(r, "name")
	if name == "" {
		WriteError(w, http.StatusBadRequest, "missing name parameter")
		return
	}

	results, err := h.athleteService.GetAthleteResults(r.Context(), name)
	if err != nil {
		status := StatusFromError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("Failed to get athlete results", "athlete", name, "error", err)
		}
		WriteError(w, status, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, h.athletePresenter.FormatAthleteResults(name, results))
}

// CompareAthletes aggregates head-to-head margins between two athletes.
// GET /athletes/compare?a={athleteA}&b={athleteB}
func (h *AthleteHandlers) CompareAthletes(w http.ResponseWriter, r *http.Request) {
	athleteA := queryString(r, "a")
	athleteB := queryString(r, "b")
	if athleteA == "" || athleteB == "" {
		WriteError(w, http.StatusBadRequest, "missing a or b parameter")
		return
	}

	comparison, err := h.athleteService.CompareAthletes(r.Context(), athleteA, athleteB)
	if err != nil {
		status := StatusFromError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("Failed to compare athletes", "athlete_a", athleteA, "athlete_b", athleteB, "error", err)
		}
		WriteError(w, status, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, h.athletePresenter.FormatHeadToHead(comparison))
}

// GetPercentile returns one athlete's percentile standing within an event's field.
// GET /events/{eventID}/percentile?athlete={name}
func (h *AthleteHandlers) GetPercentile(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	if eventID == "" {
		WriteError(w, http.StatusBadRequest, "missing event ID")
		return
	}

	name := queryString(r, "athlete")
	if name == "" {
		WriteError(w, http.StatusBadRequest, "missing athlete parameter")
		return
	}

	ranking, err := h.athleteService.RankAthleteInEvent(r.Context(), name, eventID)
	if err != nil {
		status := StatusFromError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("Failed to rank athlete", "athlete", name, "event_id", eventID, "error", err)
		}
		WriteError(w, status, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, h.athletePresenter.FormatPercentile(ranking))
}
