package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/shithunt/internal/model"
	"github.com/sakif/shithunt/internal/service"
)

// UserHandler serves public user profiles.
type UserHandler struct {
	auths    *service.AuthService
	products *service.ProductService
	logger   *slog.Logger
}

// NewUserHandler creates a UserHandler with its dependencies.
func NewUserHandler(
	auths *service.AuthService,
	products *service.ProductService,
	logger *slog.Logger,
) *UserHandler {
	return &UserHandler{
		auths:    auths,
		products: products,
		logger:   logger,
	}
}

// profileResponse is a user's public profile page: who they are, what they
// submitted (every status, so owners see their pending products), and what
// they have voted on.
type profileResponse struct {
	User      *model.User           `json:"user"`
	Submitted []service.ProductView `json:"submitted"`
	Voted     []service.ProductView `json:"voted"`
}

// HandleGetProfile serves a user's profile by username.
//
// GET /api/users/{username}
func (h *UserHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.auths.GetUserByUsername(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}

	submitted, err := h.products.ByUser(r.Context(), viewerID(r), username)
	if err != nil {
		writeError(w, err)
		return
	}

	voted, err := h.products.VotedBy(r.Context(), viewerID(r), username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		User:      user,
		Submitted: submitted,
		Voted:     voted,
	})
}
