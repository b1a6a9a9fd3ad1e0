package handlers

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/camden-git/familymapbackend/database"
	"github.com/camden-git/familymapbackend/graph"
	"github.com/camden-git/familymapbackend/logger"
	"github.com/camden-git/familymapbackend/realtime"
	"github.com/camden-git/familymapbackend/services"
	"github.com/camden-git/familymapbackend/workers"
)

func filterFromPreferences(p database.Preferences) graph.Filter {
	return graph.Filter{MotherSide: p.MotherSide, FatherSide: p.FatherSide, Female: p.Female, Male: p.Male}
}

func kindsFromPreferences(p database.Preferences) graph.LineKinds {
	return graph.LineKinds{Spouse: p.SpouseLines, Life: p.LifeLines, Family: p.FamilyLines}
}

type FilterHandler struct {
	Prefs *sql.DB
	Pool  *workers.Pool
	Hub   services.Broadcaster
	Log   *logger.Logger
}

// FilterPayload overrides individual toggles; unset ones come from the
// user's stored settings
type FilterPayload struct {
	MotherSide *bool `json:"mother_side"`
	FatherSide *bool `json:"father_side"`
	Female     *bool `json:"female"`
	Male       *bool `json:"male"`
}

func (p FilterPayload) apply(f graph.Filter) graph.Filter {
	if p.MotherSide != nil {
		f.MotherSide = *p.MotherSide
	}
	if p.FatherSide != nil {
		f.FatherSide = *p.FatherSide
	}
	if p.Female != nil {
		f.Female = *p.Female
	}
	if p.Male != nil {
		f.Male = *p.Male
	}
	return f
}

type FilterResponse struct {
	Filter     graph.Filter `json:"filter"`
	Generation uint64       `json:"generation"`
	Persons    int          `json:"persons"`
	Events     int          `json:"events"`
	Traversal  []string     `json:"traversal"`
}

// ApplyFilter recomputes the session's filtered view
func (h *FilterHandler) ApplyFilter(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r)

	var payload FilterPayload
	if err := decodeAndValidate(r, &payload, true); err != nil {
		writeDecodeError(w, err)
		return
	}
	prefs, err := database.GetPreferences(h.Prefs, sess.Username)
	if err != nil {
		h.Log.Error("Failed to load preferences", "username", sess.Username, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "failed to load settings")
		return
	}
	f := payload.apply(filterFromPreferences(prefs))

	snap, err := workers.Run(r.Context(), h.Pool, workers.JobFilter, func(ctx context.Context) (*graph.Snapshot, error) {
		return sess.Store.ApplyFilter(f)
	})
	if err != nil {
		writeEngineError(w, h.Log, err)
		return
	}

	persons, events := snap.FilteredPersons(), snap.FilteredEvents()
	if h.Hub != nil {
		h.Hub.Broadcast(realtime.Event{
			Type:       realtime.EventFilterApplied,
			SessionID:  sess.ID,
			Generation: snap.Generation(),
			Extra:      map[string]interface{}{"persons": len(persons), "events": len(events)},
		})
	}
	traversal := snap.Traversal()
	if traversal == nil {
		traversal = []string{}
	}
	writeJSON(w, http.StatusOK, FilterResponse{
		Filter:     f,
		Generation: snap.Generation(),
		Persons:    len(persons),
		Events:     len(events),
		Traversal:  traversal,
	})
}
