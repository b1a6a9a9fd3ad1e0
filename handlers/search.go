package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/camden-git/familymapbackend/graph"
	"github.com/camden-git/familymapbackend/logger"
	"github.com/camden-git/familymapbackend/metrics"
	"github.com/camden-git/familymapbackend/workers"
)

type SearchHandler struct {
	Pool     *workers.Pool
	Searches *workers.SearchCoordinator
	Log      *logger.Logger
}

// Search matches persons by name and filtered events by place, type or year.
// A newer search from the same session cancels this one.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	sess, snap, ok := currentSnapshot(w, r, h.Log)
	if !ok {
		return
	}
	query := r.URL.Query().Get("q")

	ctx, done := h.Searches.Begin(r.Context(), sess.ID)
	defer done()

	results, err := workers.Run(ctx, h.Pool, workers.JobSearch, func(ctx context.Context) ([]graph.SearchResult, error) {
		return graph.Search(ctx, snap, query)
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			metrics.SearchCancelled()
			h.Log.Debug("Search superseded", "session_id", sess.ID)
		}
		writeEngineError(w, h.Log, err)
		return
	}
	metrics.SearchCompleted()
	if results == nil {
		results = []graph.SearchResult{}
	}
	writeJSON(w, http.StatusOK, results)
}
