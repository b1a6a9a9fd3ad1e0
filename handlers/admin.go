package handlers

import (
	"net/http"

	"github.com/camden-git/familymapbackend/logger"
	"github.com/camden-git/familymapbackend/services"
)

// AdminHandler maintains the local family service's data
type AdminHandler struct {
	Local *services.LocalService
	Log   *logger.Logger
}

func (h *AdminHandler) Import(w http.ResponseWriter, r *http.Request) {
	var payload services.ImportRequest
	if err := decodeAndValidate(r, &payload, false); err != nil {
		writeDecodeError(w, err)
		return
	}
	res, err := h.Local.Import(r.Context(), payload)
	if err != nil {
		writeEngineError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *AdminHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.Local.Clear(r.Context()); err != nil {
		writeEngineError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Clear succeeded."})
}
