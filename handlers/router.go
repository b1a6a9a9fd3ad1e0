package handlers

import (
	"database/sql"
	"net/http"

	"github.com/camden-git/familymapbackend/graph"
	"github.com/camden-git/familymapbackend/logger"
	"github.com/camden-git/familymapbackend/realtime"
	"github.com/camden-git/familymapbackend/services"
	"github.com/camden-git/familymapbackend/workers"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps carries what the API routes need
type RouterDeps struct {
	Sessions *services.SessionService
	JWT      *JWTManager
	Prefs    *sql.DB
	Pool     *workers.Pool
	Searches *workers.SearchCoordinator
	Hub      *realtime.Hub
	Style    graph.LineStyle
	Log      *logger.Logger

	// set only when the local family service is in use
	Local    *services.LocalService
	AdminKey string
}

// MountAPI registers the /api routes on r
func MountAPI(r chi.Router, d RouterDeps) {
	var hub services.Broadcaster
	if d.Hub != nil {
		hub = d.Hub
	}

	sessionHandler := &SessionHandler{Sessions: d.Sessions, JWT: d.JWT, Searches: d.Searches, Log: d.Log}
	personHandler := &PersonHandler{Log: d.Log}
	eventHandler := &EventHandler{Log: d.Log}
	filterHandler := &FilterHandler{Prefs: d.Prefs, Pool: d.Pool, Hub: hub, Log: d.Log}
	searchHandler := &SearchHandler{Pool: d.Pool, Searches: d.Searches, Log: d.Log}
	linesHandler := &LinesHandler{Prefs: d.Prefs, Pool: d.Pool, Style: d.Style, Log: d.Log}
	settingsHandler := &SettingsHandler{Prefs: d.Prefs, Hub: hub, Log: d.Log}

	auth := func(h http.HandlerFunc) http.Handler {
		return AuthMiddleware(d.JWT, d.Sessions, h)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", Health(d.Sessions))
		r.Handle("/metrics", promhttp.Handler())

		r.Route("/session", func(r chi.Router) {
			r.Post("/login", sessionHandler.Login)
			r.Post("/register", sessionHandler.Register)
			r.Method(http.MethodDelete, "/", auth(sessionHandler.Logout))
			r.Method(http.MethodPost, "/refresh", auth(sessionHandler.Refresh))
		})

		r.Route("/persons", func(r chi.Router) {
			r.Method(http.MethodGet, "/", auth(personHandler.ListPersons))
			r.Method(http.MethodGet, "/all", auth(personHandler.ListAllPersons))
			r.Route("/{person_id}", func(r chi.Router) {
				r.Method(http.MethodGet, "/", auth(personHandler.GetPerson))
				r.Method(http.MethodGet, "/family", auth(personHandler.GetFamily))
				r.Method(http.MethodGet, "/events", auth(eventHandler.ListPersonEvents))
			})
		})

		r.Route("/events", func(r chi.Router) {
			r.Method(http.MethodGet, "/", auth(eventHandler.ListEvents))
			r.Method(http.MethodGet, "/{event_id}", auth(eventHandler.GetEvent))
		})

		r.Method(http.MethodGet, "/colors/{event_type}", auth(eventHandler.GetColor))
		r.Method(http.MethodPost, "/filter", auth(filterHandler.ApplyFilter))
		r.Method(http.MethodGet, "/search", auth(searchHandler.Search))
		r.Method(http.MethodGet, "/lines", auth(linesHandler.GetLines))

		r.Route("/settings", func(r chi.Router) {
			r.Method(http.MethodGet, "/", auth(settingsHandler.GetSettings))
			r.Method(http.MethodPut, "/", auth(settingsHandler.UpdateSettings))
			r.Method(http.MethodDelete, "/", auth(settingsHandler.ResetSettings))
		})

		if d.Hub != nil {
			r.Method(http.MethodGet, "/ws", auth(ServeWS(d.Hub)))
		}

		if d.Local != nil {
			adminHandler := &AdminHandler{Local: d.Local, Log: d.Log}
			r.Route("/admin", func(r chi.Router) {
				r.Method(http.MethodPost, "/import", RequireAdminKey(d.AdminKey, http.HandlerFunc(adminHandler.Import)))
				r.Method(http.MethodPost, "/clear", RequireAdminKey(d.AdminKey, http.HandlerFunc(adminHandler.Clear)))
			})
		}
	})
}
