package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// ChemistryHandler serves pairwise teammate history.
type ChemistryHandler struct {
	deps Dependencies
}

// NewChemistryHandler creates a new chemistry handler.
func NewChemistryHandler(deps Dependencies) *ChemistryHandler {
	return &ChemistryHandler{deps: deps}
}

type chemistryResponse struct {
	PlayerA int `json:"playerA"`
	PlayerB int `json:"playerB"`
	Wins    int `json:"wins"`
	Losses  int `json:"losses"`
	Draws   int `json:"draws"`
	Games   int `json:"games"`
}

// HandleGetChemistry handles GET /v1/chemistry/{playerA}/{playerB}.
func (h *ChemistryHandler) HandleGetChemistry(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_chemistry"
	a, err := strconv.Atoi(chi.URLParam(r, "playerA"))
	if err != nil {
		writeError(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	b, err := strconv.Atoi(chi.URLParam(r, "playerB"))
	if err != nil {
		writeError(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}

	rec, err := h.deps.Chemistry(r.Context(), a, b)
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, chemistryResponse{
		PlayerA: a,
		PlayerB: b,
		Wins:    rec.Wins,
		Losses:  rec.Losses,
		Draws:   rec.Draws,
		Games:   rec.Wins + rec.Losses + rec.Draws,
	})
}
