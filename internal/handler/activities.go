package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/capitalize-ai/travel-assistant/internal/catalog"
	"github.com/capitalize-ai/travel-assistant/internal/model"
)

// ActivityHandler serves the read-only catalog.
type ActivityHandler struct {
	catalog catalog.Lookup
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(lookup catalog.Lookup) *ActivityHandler {
	return &ActivityHandler{catalog: lookup}
}

// List handles GET /api/activities, optionally filtered by ?q=.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	var activities []model.Activity
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		activities = h.catalog.Search(q)
	} else {
		activities = h.catalog.List()
	}
	if activities == nil {
		activities = []model.Activity{}
	}
	writeJSON(w, http.StatusOK, activities)
}

// Get handles GET /api/activities/{id}
func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	activity, err := h.catalog.FindActivity(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "activity not found")
		return
	}
	writeJSON(w, http.StatusOK, activity)
}
