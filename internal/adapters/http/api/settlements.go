package api

import (
	"net/http"

	"github.com/okian/kickrate/internal/domain/model"
)

// SettlementHandler handles settlement requests.
type SettlementHandler struct {
	deps Dependencies
}

// NewSettlementHandler creates a new settlement handler.
func NewSettlementHandler(deps Dependencies) *SettlementHandler {
	return &SettlementHandler{deps: deps}
}

// HandleSettle handles POST /v1/settlements. A match id that was already
// settled yields 409 and leaves the ledger untouched.
func (h *SettlementHandler) HandleSettle(w http.ResponseWriter, r *http.Request) {
	const op = "api.settle"
	var in model.MatchInput
	if err := decodeJSON(w, r, maxBodyBytes, &in); err != nil {
		writeError(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Settle(r.Context(), in)
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
