package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/camden-git/familymapbackend/database"
	"github.com/camden-git/familymapbackend/logger"
	"github.com/camden-git/familymapbackend/realtime"
	"github.com/camden-git/familymapbackend/services"
)

type SettingsHandler struct {
	Prefs *sql.DB
	Hub   services.Broadcaster
	Log   *logger.Logger
}

func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r)
	prefs, err := database.GetPreferences(h.Prefs, sess.Username)
	if err != nil {
		h.Log.Error("Failed to load preferences", "username", sess.Username, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "failed to load settings")
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// ResetSettings drops the stored toggles so every setting is back to its default
func (h *SettingsHandler) ResetSettings(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r)
	if err := database.DeletePreferences(h.Prefs, sess.Username); err != nil {
		h.Log.Error("Failed to reset preferences", "username", sess.Username, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "failed to reset settings")
		return
	}
	if h.Hub != nil {
		h.Hub.Broadcast(realtime.Event{Type: realtime.EventSettingsChanged, SessionID: sess.ID})
	}
	writeJSON(w, http.StatusOK, database.DefaultPreferences())
}

// UpdateSettings takes a partial {key: bool} object; keys not named keep
// their stored value
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r)

	var changes map[string]bool
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	prefs, err := database.GetPreferences(h.Prefs, sess.Username)
	if err != nil {
		h.Log.Error("Failed to load preferences", "username", sess.Username, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "failed to load settings")
		return
	}

	var unknown []string
	for key, value := range changes {
		if !prefs.Set(key, value) {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		WriteAPIError(w, http.StatusBadRequest, CodeValidation,
			"unknown setting(s): "+strings.Join(unknown, ", ")+"; valid: "+strings.Join(database.PreferenceKeys, ", "))
		return
	}

	if err := database.SavePreferences(h.Prefs, sess.Username, prefs); err != nil {
		h.Log.Error("Failed to save preferences", "username", sess.Username, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "failed to save settings")
		return
	}
	if h.Hub != nil {
		h.Hub.Broadcast(realtime.Event{Type: realtime.EventSettingsChanged, SessionID: sess.ID})
	}
	writeJSON(w, http.StatusOK, prefs)
}
