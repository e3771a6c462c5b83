package api

import (
	"errors"
	"net/http"

	"github.com/okian/kickrate/internal/domain/model"
)

// RatingsHandler handles rating requests.
type RatingsHandler struct {
	deps         Dependencies
	maxBatchSize int
}

// NewRatingsHandler creates a new ratings handler.
func NewRatingsHandler(deps Dependencies, maxBatchSize int) *RatingsHandler {
	if maxBatchSize < 1 {
		maxBatchSize = 1
	}
	return &RatingsHandler{deps: deps, maxBatchSize: maxBatchSize}
}

// HandleRate handles POST /v1/ratings.
func (h *RatingsHandler) HandleRate(w http.ResponseWriter, r *http.Request) {
	const op = "api.rate"
	var in model.MatchInput
	if err := decodeJSON(w, r, maxBodyBytes, &in); err != nil {
		writeError(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.RateMatch(r.Context(), in)
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

var errEmptyBatch = errors.New("matches must not be empty")

type batchRequest struct {
	Matches []model.MatchInput `json:"matches"`
}

type batchItemResponse struct {
	Index  int                 `json:"index"`
	Result *model.RatingResult `json:"result,omitempty"`
	Error  *errorResponse      `json:"error,omitempty"`
}

type batchResponse struct {
	Results []batchItemResponse `json:"results"`
}

// HandleRateBatch handles POST /v1/ratings/batch. Items fail individually;
// the response is 200 whenever the batch itself was accepted.
func (h *RatingsHandler) HandleRateBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.rate_batch"
	var req batchRequest
	if err := decodeJSON(w, r, int64(h.maxBatchSize)*maxMatchBytes+maxBodyBytes, &req); err != nil {
		writeError(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(req.Matches) == 0 {
		writeError(w, r, WrapKind(op, ErrBadRequest, errEmptyBatch))
		return
	}

	items, err := h.deps.RateBatch(r.Context(), req.Matches)
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}

	resp := batchResponse{Results: make([]batchItemResponse, len(items))}
	for i, it := range items {
		resp.Results[i] = batchItemResponse{Index: it.Index, Result: it.Result}
		if it.Err != nil {
			_, code := classify(it.Err)
			resp.Results[i].Error = &errorResponse{Code: code, Message: it.Err.Error()}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
