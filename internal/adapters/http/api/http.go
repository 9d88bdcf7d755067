// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	repository "github.com/okian/ladder/internal/adapters/repository"
	"github.com/okian/ladder/internal/domain/personalization"
	"github.com/okian/ladder/pkg/logger"
)

const (
	defaultMaxCandidates = 1000
	defaultMaxFeedLimit  = 100
	defaultFeedLimit     = 10
	corsMaxAgeSeconds    = 300

	// Request bodies may hold up to maxCandidates opportunities of this
	// size, plus the envelope.
	candidateBodyBytes = 4 << 10
	bodyEnvelopeBytes  = 64 << 10
)

var validate = validator.New() //nolint:gochecknoglobals // validator caches struct metadata

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	PreferenceDependencies
	BehaviorDependencies
	ScoringDependencies
	SnapshotDependencies
	CatalogDependencies
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	preferenceHandler *PreferenceHandler
	behaviorHandler   *BehaviorHandler
	scoringHandler    *ScoringHandler
	snapshotHandler   *SnapshotHandler
	catalogHandler    *CatalogHandler

	corsOrigins   []string
	rateRequests  int
	rateWindow    time.Duration
	maxCandidates int
	maxFeedLimit  int
	maxBodyBytes  int64
	logger        logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		maxCandidates: defaultMaxCandidates,
		maxFeedLimit:  defaultMaxFeedLimit,
		logger:        logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.maxBodyBytes = int64(s.maxCandidates)*candidateBodyBytes + bodyEnvelopeBytes

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(deps)
	s.preferenceHandler = NewPreferenceHandler(deps)
	s.behaviorHandler = NewBehaviorHandler(deps)
	s.scoringHandler = NewScoringHandler(deps, s.maxCandidates, s.maxFeedLimit)
	s.snapshotHandler = NewSnapshotHandler(deps)
	s.catalogHandler = NewCatalogHandler(deps)
	return s
}

// Router builds the chi router with the middleware stack and all routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	if len(s.corsOrigins) > 0 {
		// Global so preflight requests are answered before routing.
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", chimiddleware.RequestIDHeader},
			ExposedHeaders: []string{chimiddleware.RequestIDHeader},
			MaxAge:         corsMaxAgeSeconds,
		}))
	}
	r.Use(RequestLogging(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(MetricsMiddleware)

	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Get("/metrics", s.healthHandler.HandleHealth)
	r.Get("/stats", s.statsHandler.HandleStats)

	r.Route("/v1", func(r chi.Router) {
		if s.rateRequests > 0 {
			r.Use(httprate.LimitByIP(s.rateRequests, s.rateWindow))
		}
		r.Use(chimiddleware.RequestSize(s.maxBodyBytes))

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/preferences", s.preferenceHandler.HandleList)
			r.Put("/preferences/{category}", s.preferenceHandler.HandleUpdate)
			r.Post("/behaviors", s.behaviorHandler.HandleTrack)
			r.Get("/behaviors", s.behaviorHandler.HandleList)
			r.Get("/categories", s.scoringHandler.HandleCategories)
			r.Post("/score", s.scoringHandler.HandleScore)
			r.Post("/rank", s.scoringHandler.HandleRank)
			r.Get("/feed", s.scoringHandler.HandleFeed)
			r.Get("/snapshot", s.snapshotHandler.HandleGet)
			r.Put("/snapshot", s.snapshotHandler.HandlePut)
			r.Delete("/", s.snapshotHandler.HandleDrop)
		})

		r.Route("/opportunities", func(r chi.Router) {
			r.Put("/", s.catalogHandler.HandleUpsert)
			r.Get("/", s.catalogHandler.HandleList)
			r.Get("/{id}", s.catalogHandler.HandleGet)
			r.Delete("/{id}", s.catalogHandler.HandleDelete)
		})
	})

	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError maps errors from the service layer to HTTP codes.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	case errors.Is(err, repository.ErrInvalidOpportunity),
		errors.Is(err, personalization.ErrInvalidSnapshot):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, repository.ErrCatalogFull):
		writeError(w, http.StatusConflict, "catalog_full", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

// writeBodyError answers a request whose body could not be read or decoded.
func writeBodyError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrBodyTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", err)
		return
	}
	writeError(w, http.StatusBadRequest, "bad_request", err)
}

// readBody reads the whole request body, which RequestSize has capped.
func readBody(op string, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, WrapKind(op, ErrBodyTooLarge, err)
		}
		return nil, WrapKind(op, ErrBadRequest, err)
	}
	return body, nil
}

// decode reads a JSON body into v and validates it.
func decode(op string, r *http.Request, v any) error {
	body, err := readBody(op, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return WrapKind(op, ErrBadRequest, err)
	}
	if err := validate.Struct(v); err != nil {
		return WrapKind(op, ErrBadRequest, err)
	}
	return nil
}

// userID returns the trimmed {userID} path parameter.
func userID(op string, r *http.Request) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, "userID"))
	if id == "" {
		return "", NewKind(op, ErrMissingUser)
	}
	return id, nil
}
