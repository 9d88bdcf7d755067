package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/okian/ladder/internal/domain/model"
)

// CatalogDependencies defines the interface for the opportunity catalog.
type CatalogDependencies interface {
	UpsertOpportunities(ctx context.Context, opps []model.Opportunity) (int, error)
	Opportunity(ctx context.Context, id string) (model.Opportunity, error)
	Opportunities(ctx context.Context) []model.Opportunity
	DeleteOpportunity(ctx context.Context, id string) error
}

// CatalogHandler handles catalog requests.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

type upsertRequest struct {
	Opportunities []model.Opportunity `json:"opportunities" validate:"required,min=1,dive"`
}

type upsertResponse struct {
	Upserted int `json:"upserted"`
}

// HandleUpsert handles PUT /v1/opportunities.
func (h *CatalogHandler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	const op = "api.upsert_opportunities"
	var req upsertRequest
	if err := decode(op, r, &req); err != nil {
		writeBodyError(w, err)
		return
	}
	n, err := h.deps.UpsertOpportunities(r.Context(), req.Opportunities)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, upsertResponse{Upserted: n})
}

// HandleList handles GET /v1/opportunities.
func (h *CatalogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Opportunities(r.Context()))
}

// HandleGet handles GET /v1/opportunities/{id}.
func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_opportunity"
	opp, err := h.deps.Opportunity(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, opp)
}

// HandleDelete handles DELETE /v1/opportunities/{id}.
func (h *CatalogHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_opportunity"
	if err := h.deps.DeleteOpportunity(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
