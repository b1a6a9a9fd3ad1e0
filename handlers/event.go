package handlers

import (
	"net/http"
	"slices"

	"github.com/camden-git/familymapbackend/graph"
	"github.com/camden-git/familymapbackend/logger"
	"github.com/camden-git/familymapbackend/models"
	"github.com/go-chi/chi/v5"
)

type EventHandler struct {
	Log *logger.Logger
}

type EventResponse struct {
	models.Event
	Color graph.MarkerColor `json:"color"`
}

// ListEvents returns the events of the current filtered view ordered by year,
// each with its marker colour
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	sess, snap, ok := currentSnapshot(w, r, h.Log)
	if !ok {
		return
	}
	events := snap.FilteredEvents()
	slices.SortStableFunc(events, graph.CompareByYear)
	h.writeEvents(w, sess.Store, events)
}

// ListPersonEvents returns one person's filtered events in life order: birth
// first, death last, the rest by year
func (h *EventHandler) ListPersonEvents(w http.ResponseWriter, r *http.Request) {
	sess, snap, ok := currentSnapshot(w, r, h.Log)
	if !ok {
		return
	}
	personID := chi.URLParam(r, "person_id")
	if _, found := snap.PersonByID(personID); !found {
		WriteAPIError(w, http.StatusNotFound, CodeNotFound, "person not found: "+personID)
		return
	}
	events := snap.FilteredEventsOf(personID)
	graph.SortChronologically(events)
	h.writeEvents(w, sess.Store, events)
}

func (h *EventHandler) writeEvents(w http.ResponseWriter, store *graph.Store, events []models.Event) {
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		color, err := store.ColorFor(e.EventType)
		if err != nil {
			writeEngineError(w, h.Log, err)
			return
		}
		out = append(out, EventResponse{Event: e, Color: color})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	sess, snap, ok := currentSnapshot(w, r, h.Log)
	if !ok {
		return
	}
	eventID := chi.URLParam(r, "event_id")
	event, found := snap.EventByID(eventID)
	if !found {
		WriteAPIError(w, http.StatusNotFound, CodeNotFound, "event not found: "+eventID)
		return
	}
	color, err := sess.Store.ColorFor(event.EventType)
	if err != nil {
		writeEngineError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, EventResponse{Event: event, Color: color})
}

// GetColor returns the session's marker colour for an event type
func (h *EventHandler) GetColor(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r)
	color, err := sess.Store.ColorFor(chi.URLParam(r, "event_type"))
	if err != nil {
		writeEngineError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, color)
}
