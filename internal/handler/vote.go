package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/shithunt/internal/service"
)

// VoteHandler exposes the vote toggle.
type VoteHandler struct {
	votes  *service.VoteService
	logger *slog.Logger
}

// NewVoteHandler creates a VoteHandler with its dependencies.
func NewVoteHandler(votes *service.VoteService, logger *slog.Logger) *VoteHandler {
	return &VoteHandler{votes: votes, logger: logger}
}

// HandleToggle flips the viewer's vote on a product and returns the
// resulting state: {"voted": true} after casting, {"voted": false} after
// withdrawing. The same endpoint serves both directions.
//
// POST /api/products/{id}/shit (RequireAuth)
func (h *VoteHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	voted, err := h.votes.Toggle(r.Context(), viewerID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"voted": voted})
}
