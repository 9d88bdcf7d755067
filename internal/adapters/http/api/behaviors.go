package api

import (
	"context"
	"net/http"

	"github.com/okian/ladder/internal/domain/model"
	"github.com/okian/ladder/internal/domain/personalization"
)

// BehaviorDependencies defines the interface for behavior tracking.
type BehaviorDependencies interface {
	TrackBehavior(ctx context.Context, userID, eventID string, in personalization.BehaviorInput) (model.BehaviorEvent, bool, error)
	Behaviors(ctx context.Context, userID string) ([]model.BehaviorEvent, error)
}

// BehaviorHandler handles behavior requests.
type BehaviorHandler struct {
	deps BehaviorDependencies
}

// NewBehaviorHandler creates a new behavior handler.
func NewBehaviorHandler(deps BehaviorDependencies) *BehaviorHandler {
	return &BehaviorHandler{deps: deps}
}

// behaviorRequest is the body of POST /behaviors. Unknown actions are
// accepted and weighted lowest.
type behaviorRequest struct {
	EventID       string `json:"event_id" validate:"omitempty,max=128"`
	OpportunityID string `json:"opportunity_id" validate:"required"`
	Action        string `json:"action" validate:"required"`
	Category      string `json:"category" validate:"required"`
	Location      string `json:"location"`
	Field         string `json:"field"`
}

type trackResponse struct {
	Status    string               `json:"status"`
	Duplicate bool                 `json:"duplicate"`
	Event     *model.BehaviorEvent `json:"event,omitempty"`
}

// HandleTrack handles POST /v1/users/{userID}/behaviors.
func (h *BehaviorHandler) HandleTrack(w http.ResponseWriter, r *http.Request) {
	const op = "api.track_behavior"
	uid, err := userID(op, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req behaviorRequest
	if err := decode(op, r, &req); err != nil {
		writeBodyError(w, err)
		return
	}

	ev, dup, err := h.deps.TrackBehavior(r.Context(), uid, req.EventID, personalization.BehaviorInput{
		OpportunityID: req.OpportunityID,
		Action:        model.ParseAction(req.Action),
		Category:      req.Category,
		Location:      req.Location,
		Field:         req.Field,
	})
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	if dup {
		writeJSON(w, http.StatusOK, trackResponse{Status: "duplicate", Duplicate: true})
		return
	}
	writeJSON(w, http.StatusCreated, trackResponse{Status: "tracked", Event: &ev})
}

// HandleList handles GET /v1/users/{userID}/behaviors.
func (h *BehaviorHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_behaviors"
	uid, err := userID(op, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	events, err := h.deps.Behaviors(r.Context(), uid)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}
