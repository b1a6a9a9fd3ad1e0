package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strconv"

	"github.com/camden-git/familymapbackend/database"
	"github.com/camden-git/familymapbackend/graph"
	"github.com/camden-git/familymapbackend/logger"
	"github.com/camden-git/familymapbackend/workers"
)

type LinesHandler struct {
	Prefs *sql.DB
	Pool  *workers.Pool
	Style graph.LineStyle
	Log   *logger.Logger
}

func queryBool(r *http.Request, name string, current bool) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return current, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return current, fmt.Errorf("invalid %s value %q", name, raw)
	}
	return v, nil
}

// GetLines builds the spouse, life and family lines for a selected event.
// Line kinds come from stored settings unless overridden by the spouse, life
// and family query parameters.
func (h *LinesHandler) GetLines(w http.ResponseWriter, r *http.Request) {
	sess, snap, ok := currentSnapshot(w, r, h.Log)
	if !ok {
		return
	}
	eventID := r.URL.Query().Get("event_id")
	if eventID == "" {
		WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, "Missing required parameter: event_id")
		return
	}
	personID := r.URL.Query().Get("person_id")

	prefs, err := database.GetPreferences(h.Prefs, sess.Username)
	if err != nil {
		h.Log.Error("Failed to load preferences", "username", sess.Username, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "failed to load settings")
		return
	}
	kinds := kindsFromPreferences(prefs)
	for name, field := range map[string]*bool{"spouse": &kinds.Spouse, "life": &kinds.Life, "family": &kinds.Family} {
		v, err := queryBool(r, name, *field)
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
			return
		}
		*field = v
	}

	lines, err := workers.Run(r.Context(), h.Pool, workers.JobLines, func(ctx context.Context) (graph.LineSet, error) {
		return graph.BuildLines(snap, personID, eventID, kinds, h.Style)
	})
	if err != nil {
		writeEngineError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, lines)
}
