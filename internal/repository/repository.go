// Package repository declares the storage interfaces the service layer
// depends on. The sqlite subpackage provides the real implementation;
// tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/shithunt/internal/model"
)

// UserRepository stores accounts created via OAuth sign-in.
type UserRepository interface {
	// Upsert inserts a user on first sign-in or refreshes name, username,
	// email and avatar on subsequent sign-ins, keyed by GitHub ID.
	// The user's internal ID is populated on return.
	Upsert(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

// ProductRepository stores products and answers the base listing queries.
// Ordering rules live here (SQL ORDER BY); viewer enrichment and facet
// filtering are layered on top by the service.
type ProductRepository interface {
	// CreateProduct inserts a product. Returns apperror.ErrConflict if the
	// slug is already taken; the service retries with a fresh suffix.
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProductByID(ctx context.Context, id string) (*model.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*model.Product, error)

	// ListProductsByDate returns approved products with the exact launch
	// date, vote count descending.
	ListProductsByDate(ctx context.Context, date string) ([]model.Product, error)
	// ListApprovedProducts returns all approved products, launch date
	// descending then vote count descending.
	ListApprovedProducts(ctx context.Context) ([]model.Product, error)
	// ListProductsByUser returns a user's submissions in every status,
	// most recent first.
	ListProductsByUser(ctx context.Context, userID string) ([]model.Product, error)
	// ListProductsByIDs returns the named products, vote count descending.
	ListProductsByIDs(ctx context.Context, ids []string) ([]model.Product, error)
	// ListAllProducts returns every product in every status, most recent
	// first. Admin use only.
	ListAllProducts(ctx context.Context) ([]model.Product, error)
	// SearchProducts matches the query as a case-insensitive substring of
	// name or tagline over approved products, vote count descending,
	// capped at limit.
	SearchProducts(ctx context.Context, query string, limit int) ([]model.Product, error)
	// ListApprovedSince returns approved products with launch date >= from
	// (no lower bound when from is empty), vote count descending, capped
	// at limit.
	ListApprovedSince(ctx context.Context, from string, limit int) ([]model.Product, error)

	UpdateProduct(ctx context.Context, product *model.Product) error
	UpdateProductStatus(ctx context.Context, id, status string) error
	DeleteProduct(ctx context.Context, id string) error
}

// VoteRepository is the vote ledger. ToggleVote is the only write path and
// keeps the products.shit_count counter and the ledger in lockstep.
type VoteRepository interface {
	// ToggleVote removes the viewer's vote if present (returning false) or
	// casts it if absent (returning true). The ledger row and the counter
	// are updated in one transaction so they can never diverge.
	ToggleVote(ctx context.Context, userID, productID string) (voted bool, err error)
	HasVoted(ctx context.Context, userID, productID string) (bool, error)
	// VotedProductIDs returns the set of product IDs the user has voted
	// for, used to mark hasVoted across listings in one query.
	VotedProductIDs(ctx context.Context, userID string) (map[string]struct{}, error)
}

// CommentRepository stores product comments.
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetCommentByID(ctx context.Context, id string) (*model.Comment, error)
	// ListCommentsByProduct returns the product's comments oldest first,
	// joined with each author's public identity.
	ListCommentsByProduct(ctx context.Context, productID string) ([]model.CommentWithAuthor, error)
	DeleteComment(ctx context.Context, id string) error
}
