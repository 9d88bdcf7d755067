package api

import (
	"context"
	"net/http"

	"github.com/okian/ladder/internal/domain/personalization"
)

// SnapshotDependencies defines the interface for session state transfer.
type SnapshotDependencies interface {
	Snapshot(ctx context.Context, userID string) (personalization.Snapshot, error)
	Restore(ctx context.Context, userID string, snap personalization.Snapshot) error
	DropSession(ctx context.Context, userID string) bool
}

// SnapshotHandler handles snapshot and session requests.
type SnapshotHandler struct {
	deps SnapshotDependencies
}

// NewSnapshotHandler creates a new snapshot handler.
func NewSnapshotHandler(deps SnapshotDependencies) *SnapshotHandler {
	return &SnapshotHandler{deps: deps}
}

// HandleGet handles GET /v1/users/{userID}/snapshot.
func (h *SnapshotHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_snapshot"
	uid, err := userID(op, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	snap, err := h.deps.Snapshot(r.Context(), uid)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandlePut handles PUT /v1/users/{userID}/snapshot.
func (h *SnapshotHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_snapshot"
	uid, err := userID(op, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	var snap personalization.Snapshot
	if err := decode(op, r, &snap); err != nil {
		writeBodyError(w, err)
		return
	}
	if err := h.deps.Restore(r.Context(), uid, snap); err != nil {
		writeDomainError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDrop handles DELETE /v1/users/{userID}.
func (h *SnapshotHandler) HandleDrop(w http.ResponseWriter, r *http.Request) {
	const op = "api.drop_session"
	uid, err := userID(op, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if !h.deps.DropSession(r.Context(), uid) {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrMissingUser))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
