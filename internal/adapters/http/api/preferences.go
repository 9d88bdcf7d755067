package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/okian/ladder/internal/domain/model"
)

// PreferenceDependencies defines the interface for preference operations.
type PreferenceDependencies interface {
	Preferences(ctx context.Context, userID string) ([]model.Preference, error)
	UpdatePreference(ctx context.Context, userID, category string, weight float64) (model.Preference, error)
}

// PreferenceHandler handles preference requests.
type PreferenceHandler struct {
	deps PreferenceDependencies
}

// NewPreferenceHandler creates a new preference handler.
func NewPreferenceHandler(deps PreferenceDependencies) *PreferenceHandler {
	return &PreferenceHandler{deps: deps}
}

// preferenceRequest is the body of PUT /preferences/{category}. The weight
// must be sent and must lie in [0, 1].
type preferenceRequest struct {
	Weight *float64 `json:"weight" validate:"required,gte=0,lte=1"`
}

// HandleList handles GET /v1/users/{userID}/preferences.
func (h *PreferenceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_preferences"
	uid, err := userID(op, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	prefs, err := h.deps.Preferences(r.Context(), uid)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// HandleUpdate handles PUT /v1/users/{userID}/preferences/{category}.
func (h *PreferenceHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_preference"
	uid, err := userID(op, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	category := strings.TrimSpace(chi.URLParam(r, "category"))
	if category == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	var req preferenceRequest
	if err := decode(op, r, &req); err != nil {
		writeBodyError(w, err)
		return
	}
	pref, err := h.deps.UpdatePreference(r.Context(), uid, category, *req.Weight)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, pref)
}
