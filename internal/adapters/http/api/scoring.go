package api

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/okian/ladder/internal/domain/model"
	"github.com/okian/ladder/internal/domain/types"
)

// ScoringDependencies defines the interface for scoring and ranking.
type ScoringDependencies interface {
	Score(ctx context.Context, userID string, opp model.Opportunity) (model.OpportunityScore, error)
	Rank(ctx context.Context, userID string, opps []model.Opportunity) ([]model.ScoredOpportunity, error)
	Feed(ctx context.Context, userID string, limit int) ([]types.FeedEntry, error)
	RecommendedCategories(ctx context.Context, userID string) ([]string, error)
}

// ScoringHandler handles score, rank, feed and category requests.
type ScoringHandler struct {
	deps          ScoringDependencies
	maxCandidates int
	maxFeedLimit  int
}

// NewScoringHandler creates a new scoring handler.
func NewScoringHandler(deps ScoringDependencies, maxCandidates, maxFeedLimit int) *ScoringHandler {
	return &ScoringHandler{
		deps:          deps,
		maxCandidates: maxCandidates,
		maxFeedLimit:  maxFeedLimit,
	}
}

// HandleScore handles POST /v1/users/{userID}/score.
func (h *ScoringHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.score"
	uid, err := userID(op, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	var opp model.Opportunity
	if err := decode(op, r, &opp); err != nil {
		writeBodyError(w, err)
		return
	}
	score, err := h.deps.Score(r.Context(), uid, opp)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}

// HandleRank handles POST /v1/users/{userID}/rank. The body is either a
// list of opportunities or {"opportunities": [...]}. Anything else ranks
// nothing and returns an empty list; the engine logs the warning.
func (h *ScoringHandler) HandleRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.rank"
	uid, err := userID(op, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	body, err := readBody(op, r)
	if err != nil {
		writeBodyError(w, err)
		return
	}

	candidates, err := candidateList(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(candidates) > h.maxCandidates {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrLimitExceeded))
		return
	}

	ranked, err := h.deps.Rank(r.Context(), uid, candidates)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ranked)
}

// candidateList extracts the candidates from a rank body. It returns nil
// without error when the body carries no list.
func candidateList(body []byte) ([]model.Opportunity, error) {
	raw := bytes.TrimSpace(body)
	if len(raw) > 0 && raw[0] == '{' {
		var wrapper struct {
			Opportunities json.RawMessage `json:"opportunities"`
		}
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return nil, err
		}
		raw = bytes.TrimSpace(wrapper.Opportunities)
	}
	if len(raw) == 0 || raw[0] != '[' {
		return nil, nil
	}
	opps := []model.Opportunity{}
	if err := json.Unmarshal(raw, &opps); err != nil {
		return nil, err
	}
	return opps, nil
}

// HandleFeed handles GET /v1/users/{userID}/feed?limit=N.
func (h *ScoringHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	const op = "api.feed"
	uid, err := userID(op, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	n := defaultFeedLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err = strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
	}
	if n > h.maxFeedLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrLimitExceeded))
		return
	}
	feed, err := h.deps.Feed(r.Context(), uid, n)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}

// HandleCategories handles GET /v1/users/{userID}/categories.
func (h *ScoringHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	const op = "api.categories"
	uid, err := userID(op, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	cats, err := h.deps.RecommendedCategories(r.Context(), uid)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}
