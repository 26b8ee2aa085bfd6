package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/shithunt/internal/apperror"
	"github.com/sakif/shithunt/internal/auth"
	"github.com/sakif/shithunt/internal/service"
)

// ProductHandler exposes the product catalog over HTTP: listings,
// submission, editing, search, trending, facets and moderation.
type ProductHandler struct {
	products *service.ProductService
	logger   *slog.Logger
}

// NewProductHandler creates a ProductHandler with its dependencies.
func NewProductHandler(products *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{products: products, logger: logger}
}

// viewerID returns the authenticated user's ID, or "" for anonymous
// requests. Behind OptionalAuth both cases are normal.
func viewerID(r *http.Request) string {
	id, _ := auth.UserIDFromContext(r.Context())
	return id
}

// filterFromQuery reads the optional facet parameters shared by the
// listing endpoints.
func filterFromQuery(r *http.Request) service.Filter {
	q := r.URL.Query()
	return service.Filter{
		Agent: q.Get("agent"),
		LLM:   q.Get("llm"),
		Tag:   q.Get("tag"),
	}
}

// HandleListProducts serves the home page listing: approved products
// grouped by launch day, optionally narrowed to one day or by facets.
//
// GET /api/products?date=2026-08-30&agent=Cursor&llm=GPT-5&tag=ai
func (h *ProductHandler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	groups, err := h.products.ByDate(r.Context(), viewerID(r), r.URL.Query().Get("date"), filterFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// HandleGetProduct serves a single product page by slug.
//
// GET /api/products/{slug}
func (h *ProductHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	view, err := h.products.BySlug(r.Context(), viewerID(r), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleCreateProduct accepts a new product submission.
//
// POST /api/products (RequireAuth)
func (h *ProductHandler) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var in service.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	product, err := h.products.Submit(r.Context(), viewerID(r), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// HandleUpdateProduct edits an existing product (owner or admin).
//
// PUT /api/products/{slug} (RequireAuth)
func (h *ProductHandler) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var in service.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	product, err := h.products.Update(r.Context(), viewerID(r), chi.URLParam(r, "slug"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// HandleDeleteProduct removes a product (owner or admin).
//
// DELETE /api/products/{slug} (RequireAuth)
func (h *ProductHandler) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), viewerID(r), chi.URLParam(r, "slug")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// HandleSearch searches approved products by name or tagline substring.
//
// GET /api/products/search?q=term
func (h *ProductHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	results, err := h.products.Search(r.Context(), viewerID(r), r.URL.Query().Get("q"), filterFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// HandleTrending lists the most-voted products in a launch window.
//
// GET /api/products/trending?period=week|month|all
func (h *ProductHandler) HandleTrending(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = service.PeriodWeek
	}

	results, err := h.products.Trending(r.Context(), viewerID(r), period, filterFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// HandleFilters serves the facet values available across the approved
// catalog.
//
// GET /api/filters
func (h *ProductHandler) HandleFilters(w http.ResponseWriter, r *http.Request) {
	options, err := h.products.Options(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

// HandleAdminListProducts serves the moderation queue: every product in
// every status.
//
// GET /api/admin/products (RequireAuth, admin checked in the service)
func (h *ProductHandler) HandleAdminListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.AllProducts(r.Context(), viewerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// HandleSetStatus approves or rejects a product.
//
// PATCH /api/admin/products/{id}/status (RequireAuth, admin)
func (h *ProductHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	if err := h.products.SetStatus(r.Context(), viewerID(r), chi.URLParam(r, "id"), body.Status); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "status updated"})
}
