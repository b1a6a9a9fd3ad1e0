package handlers

import (
	"net/http"

	"github.com/camden-git/familymapbackend/realtime"
)

// ServeWS streams the session's events over a websocket
func ServeWS(hub *realtime.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFromContext(r)
		hub.ServeWS(w, r, sess.ID)
	}
}
