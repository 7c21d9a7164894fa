package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"racetally/application"
	"racetally/interfaces/web/presenters"
	"racetally/logging"
)

// EventHandlers handles HTTP requests for ingested events and their results.
type EventHandlers struct {
	browsingService *application.EventBrowsingService
	eventPresenter  *presenters.EventPresenter
	logger          *logging.Logger
}

// NewEventHandlers creates a new event handlers instance.
func NewEventHandlers(
	browsingService *application.EventBrowsingService,
	eventPresenter *presenters.EventPresenter,
) *EventHandlers {
	return &EventHandlers{
		browsingService: browsingService,
		eventPresenter:  eventPresenter,
		logger:          logging.Default().WithComponent("event_handler"),
	}
}

// ListEvents returns all ingested events, newest first.
// GET /events
func (h *EventHandlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.browsingService.ListEvents(r.Context())
	if err != nil {
		h.logger.Error("Failed to list events", "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	WriteJSON(w, http.StatusOK, h.eventPresenter.FormatEventList(events))
}

// GetEvent returns one event by id.
// GET /events/{eventID}
func (h *EventHandlers) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	if eventID == "" {
		WriteError(w, http.StatusBadRequest, "missing event ID")
		return
	}

	event, err := h.browsingService.GetEvent(r.Context(), eventID)
	if err != nil {
		status := StatusFromError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("Failed to get event", "event_id", eventID, "error", err)
		}
		WriteError(w, status, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, h.eventPresenter.FormatEvent(event))
}

// GetEventResults returns an event together with its result rows.
// GET /events/{eventID}/results
func (h *EventHandlers) GetEventResults(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	if eventID == "" {
		WriteError(w, http.StatusBadRequest, "missing event ID")
		return
	}

	event, err := h.browsingService.GetEvent(r.Context(), eventID)
	if err != nil {
		status := StatusFromError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("Failed to get event", "event_id", eventID, "error", err)
		}
		WriteError(w, status, err.Error())
		return
	}

	results, err := h.browsingService.GetEventResults(r.Context(), eventID)
	if err != nil {
		h.logger.Error("Failed to get event results", "event_id", eventID, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to get event results")
		return
	}

	WriteJSON(w, http.StatusOK, h.eventPresenter.FormatEventResults(event, results))
}

// GetCourseProfile returns aggregate difficulty metrics for an event's field.
// GET /events/{eventID}/profile
func (h *EventHandlers) GetCourseProfile(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	if eventID == "" {
		WriteError(w, http.StatusBadRequest, "missing event ID")
		return
	}

	profile, err := h.browsingService.GetCourseProfile(r.Context(), eventID)
	if err != nil {
		status := StatusFromError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("Failed to profile course", "event_id", eventID, "error", err)
		}
		WriteError(w, status, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, h.eventPresenter.FormatCourseProfile(profile))
}
