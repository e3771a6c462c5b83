// Package api exposes the rating service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/okian/kickrate/internal/adapters/http/swagger"
	service "github.com/okian/kickrate/internal/app"
	"github.com/okian/kickrate/internal/domain/chemistry"
	"github.com/okian/kickrate/internal/domain/model"
	"github.com/okian/kickrate/internal/domain/rating"
	"github.com/okian/kickrate/pkg/logger"
)

const (
	maxBodyBytes  = 1 << 20
	maxMatchBytes = 64 << 10
)

var errTrailingData = errors.New("unexpected data after JSON body")

// Dependencies required by HTTP handlers.
type Dependencies interface {
	RateMatch(ctx context.Context, in model.MatchInput) (model.RatingResult, error)
	RateBatch(ctx context.Context, inputs []model.MatchInput) ([]service.BatchItem, error)
	Settle(ctx context.Context, in model.MatchInput) (model.RatingResult, error)
	Chemistry(ctx context.Context, a, b int) (model.ChemistryRecord, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	ratingsHandler    *RatingsHandler
	settlementHandler *SettlementHandler
	chemistryHandler  *ChemistryHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxBatchSize int) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		ratingsHandler:    NewRatingsHandler(deps, maxBatchSize),
		settlementHandler: NewSettlementHandler(deps),
		chemistryHandler:  NewChemistryHandler(deps),
	}
}

// Routes returns the router with every endpoint and middleware attached.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestID)
	r.Use(Metrics)

	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Get("/metrics", s.healthHandler.HandleMetrics)
	r.Get("/stats", s.statsHandler.HandleStats)
	swagger.Register(r)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/ratings", s.ratingsHandler.HandleRate)
		r.Post("/ratings/batch", s.ratingsHandler.HandleRateBatch)
		r.Post("/settlements", s.settlementHandler.HandleSettle)
		r.Get("/chemistry/{playerA}/{playerB}", s.chemistryHandler.HandleGetChemistry)
	})

	return r
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	reqID := RequestIDFrom(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Get().Named("api").Error(r.Context(), "request failed",
			logger.String("request_id", reqID),
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: err.Error(), RequestID: reqID})
}

// classify maps an error to an HTTP status and a stable error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, rating.ErrSideSize),
		errors.Is(err, service.ErrMissingMatchID),
		errors.Is(err, chemistry.ErrSelfPair):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrBackpressure), errors.Is(err, service.ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, service.ErrAlreadySettled):
		return http.StatusConflict, "already_settled"
	case errors.Is(err, service.ErrBatchTooLarge):
		return http.StatusRequestEntityTooLarge, "batch_too_large"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// decodeJSON reads one JSON value of at most limit bytes from the body.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}
