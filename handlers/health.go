package handlers

import (
	"net/http"

	"github.com/camden-git/familymapbackend/services"
)

func Health(sessions *services.SessionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":   "ok",
			"sessions": sessions.Sessions().Len(),
		})
	}
}
