// Package service contains the business logic layer of the application.
//
// Handlers parse HTTP and render JSON; repositories read and write rows;
// everything in between — validation, authorization, slug generation,
// viewer scoping, facet filtering, grouping — lives here. Services take
// repository interfaces (not the sqlite package) so tests can substitute
// in-memory mocks.
//
// Every read operation threads an explicit viewerID parameter instead of
// pulling the session out of ambient state. The viewer only influences one
// derived field (hasVoted per product), and keeping it a plain parameter
// keeps the whole aggregation layer callable from tests without a request
// or session in sight. An empty viewerID means anonymous.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/url"
	"strings"
	"time"

	"github.com/sakif/shithunt/internal/apperror"
	"github.com/sakif/shithunt/internal/model"
	"github.com/sakif/shithunt/internal/repository"
)

// Validation constants, mirroring the submission form's limits.
const (
	MaxNameLength        = 80
	MaxTaglineLength     = 120
	MaxDescriptionLength = 2000
	MaxLabelLength       = 100 // agent and llm free-text labels
	MaxTagsInputLength   = 500 // the raw comma-separated tags field
	MaxSlugLength        = 60

	// ResultCap bounds search and trending results. There is no pagination;
	// 50 is the fixed cap everywhere.
	ResultCap = 50

	// slug collision retries before giving up with a Conflict
	maxSlugAttempts = 3
)

// Trending windows. Week is a fixed 7 days; month is a calendar month
// subtraction (28–31 days depending on today), matching what the trending
// page has always shown.
const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodAll   = "all"
)

// ProductView is a product as a particular viewer sees it: the stored
// record plus the viewer's vote state and the owner's public identity.
type ProductView struct {
	model.Product
	HasVoted      bool   `json:"hasVoted"`
	OwnerName     string `json:"userName"`
	OwnerUsername string `json:"userUsername"`
	OwnerAvatar   string `json:"userImage"`
}

// DateGroup is one launch day's leaderboard: products launched that day,
// highest vote count first.
type DateGroup struct {
	Date     string        `json:"date"`
	Products []ProductView `json:"products"`
}

// Filter is an optional conjunctive facet filter over listings. Empty
// fields impose no constraint; set fields must ALL match (never OR).
type Filter struct {
	Agent string
	LLM   string
	Tag   string
}

// ProductInput carries the submitted form fields for create and edit.
// Tags is the raw comma-separated input ("ai, saas"); the service splits
// and serializes it.
type ProductInput struct {
	Name        string `json:"name"`
	Tagline     string `json:"tagline"`
	Description string `json:"description"`
	URL         string `json:"url"`
	LogoURL     string `json:"logoUrl"`
	BannerURL   string `json:"bannerUrl"`
	GitHubURL   string `json:"githubUrl"`
	Agent       string `json:"agent"`
	LLM         string `json:"llm"`
	Tags        string `json:"tags"`
}

// ProductService handles product submission, moderation and every listing
// query on the board.
type ProductService struct {
	products repository.ProductRepository
	users    repository.UserRepository
	votes    repository.VoteRepository
	logger   *slog.Logger
}

// NewProductService creates a ProductService with its dependencies.
func NewProductService(
	products repository.ProductRepository,
	users repository.UserRepository,
	votes repository.VoteRepository,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		products: products,
		users:    users,
		votes:    votes,
		logger:   logger,
	}
}

// Submit validates and stores a new product for the authenticated viewer.
//
// The slug is derived from the name. On a slug collision (someone already
// launched "My App") we append a fresh 4-character suffix and retry the
// insert rather than pre-checking availability — a pre-check would still
// race a concurrent submission, the unique constraint cannot.
func (s *ProductService) Submit(ctx context.Context, viewerID string, in ProductInput) (*model.Product, error) {
	if viewerID == "" {
		return nil, apperror.Unauthenticated()
	}
	if err := validateProductInput(&in); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        in.Name,
		Tagline:     in.Tagline,
		Description: in.Description,
		URL:         in.URL,
		LogoURL:     in.LogoURL,
		BannerURL:   in.BannerURL,
		GitHubURL:   in.GitHubURL,
		Agent:       in.Agent,
		LLM:         in.LLM,
		Tags:        model.EncodeTags(splitTags(in.Tags)),
		UserID:      viewerID,
		LaunchDate:  time.Now().UTC().Format(model.LaunchDateLayout),
		Status:      model.StatusApproved,
	}

	base := slugify(in.Name)
	slug := base
	for attempt := 0; ; attempt++ {
		product.Slug = slug
		err := s.products.CreateProduct(ctx, product)
		if err == nil {
			break
		}
		if !isConflict(err) || attempt >= maxSlugAttempts {
			if isConflict(err) {
				s.logger.Warn("slug conflict not resolved",
					slog.String("slug", slug),
					slog.Int("attempts", attempt+1),
				)
				return nil, err
			}
			return nil, fmt.Errorf("submitting product: %w", err)
		}
		slug = base + "-" + randomSuffix(4)
	}

	s.logger.Info("product submitted",
		slog.String("id", product.ID),
		slog.String("slug", product.Slug),
		slog.String("userID", viewerID),
	)

	return product, nil
}

// Update applies edits to an existing product. Only the owner or an admin
// may edit; the slug, vote counter, status and launch date stay untouched.
func (s *ProductService) Update(ctx context.Context, viewerID, slug string, in ProductInput) (*model.Product, error) {
	product, err := s.authorizeProduct(ctx, viewerID, slug)
	if err != nil {
		return nil, err
	}
	if err := validateProductInput(&in); err != nil {
		return nil, err
	}

	product.Name = in.Name
	product.Tagline = in.Tagline
	product.Description = in.Description
	product.URL = in.URL
	product.LogoURL = in.LogoURL
	product.BannerURL = in.BannerURL
	product.GitHubURL = in.GitHubURL
	product.Agent = in.Agent
	product.LLM = in.LLM
	product.Tags = model.EncodeTags(splitTags(in.Tags))

	if err := s.products.UpdateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("updating product %s: %w", slug, err)
	}

	s.logger.Info("product updated", slog.String("slug", slug), slog.String("userID", viewerID))
	return product, nil
}

// Delete removes a product (owner or admin only). Votes and comments
// cascade with it.
func (s *ProductService) Delete(ctx context.Context, viewerID, slug string) error {
	product, err := s.authorizeProduct(ctx, viewerID, slug)
	if err != nil {
		return err
	}

	if err := s.products.DeleteProduct(ctx, product.ID); err != nil {
		return fmt.Errorf("deleting product %s: %w", slug, err)
	}

	s.logger.Info("product deleted", slog.String("slug", slug), slog.String("userID", viewerID))
	return nil
}

// SetStatus moderates a product: approve or reject. Admin only; pending is
// the submission default, not a target state.
func (s *ProductService) SetStatus(ctx context.Context, viewerID, productID, status string) error {
	if viewerID == "" {
		return apperror.Unauthenticated()
	}
	if status != model.StatusApproved && status != model.StatusRejected {
		return apperror.ValidationFailed("status", "status must be approved or rejected")
	}

	viewer, err := s.users.GetUserByID(ctx, viewerID)
	if err != nil {
		return err
	}
	if !viewer.IsAdmin() {
		return apperror.Forbidden("only admins can change product status")
	}

	if err := s.products.UpdateProductStatus(ctx, productID, status); err != nil {
		return fmt.Errorf("setting status of product %s: %w", productID, err)
	}

	s.logger.Info("product status changed",
		slog.String("productID", productID),
		slog.String("status", status),
		slog.String("adminID", viewerID),
	)
	return nil
}

// ByDate builds the home page listing.
//
// With a date: only approved products launched that exact day, one group.
// Without: every approved product grouped by launch day, days newest
// first, each day's products by vote count descending. The facet filter is
// applied after the base query and never changes the ranking rule.
func (s *ProductService) ByDate(ctx context.Context, viewerID, date string, filter Filter) ([]DateGroup, error) {
	var (
		products []model.Product
		err      error
	)
	if date != "" {
		products, err = s.products.ListProductsByDate(ctx, date)
	} else {
		products, err = s.products.ListApprovedProducts(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("listing products by date: %w", err)
	}

	views, err := s.enrich(ctx, viewerID, applyFilter(products, filter))
	if err != nil {
		return nil, err
	}

	return groupByDate(views), nil
}

// BySlug looks up a single product page. Not status-gated: owners and
// admins may open pending or rejected products directly.
func (s *ProductService) BySlug(ctx context.Context, viewerID, slug string) (*ProductView, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, apperror.ValidationFailed("slug", "product slug is required")
	}

	product, err := s.products.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	view := ProductView{Product: *product}
	if owner, err := s.users.GetUserByID(ctx, product.UserID); err == nil {
		view.OwnerName = owner.Name
		view.OwnerUsername = owner.Username
		view.OwnerAvatar = owner.AvatarURL
	}
	if viewerID != "" {
		voted, err := s.votes.HasVoted(ctx, viewerID, product.ID)
		if err != nil {
			return nil, fmt.Errorf("checking vote state: %w", err)
		}
		view.HasVoted = voted
	}

	return &view, nil
}

// ByUser lists a user's submissions (every status, newest first) for their
// profile page. An unknown username yields an empty list, not an error.
func (s *ProductService) ByUser(ctx context.Context, viewerID, username string) ([]ProductView, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if isNotFound(err) {
			return []ProductView{}, nil
		}
		return nil, err
	}

	products, err := s.products.ListProductsByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("listing products by user %s: %w", username, err)
	}

	return s.enrich(ctx, viewerID, products)
}

// VotedBy lists the products a user has shat on, highest vote count first.
// An unknown username yields an empty list.
func (s *ProductService) VotedBy(ctx context.Context, viewerID, username string) ([]ProductView, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if isNotFound(err) {
			return []ProductView{}, nil
		}
		return nil, err
	}

	votedIDs, err := s.votes.VotedProductIDs(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("listing votes of user %s: %w", username, err)
	}
	if len(votedIDs) == 0 {
		return []ProductView{}, nil
	}

	ids := make([]string, 0, len(votedIDs))
	for id := range votedIDs {
		ids = append(ids, id)
	}

	products, err := s.products.ListProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("listing voted products of user %s: %w", username, err)
	}

	return s.enrich(ctx, viewerID, products)
}

// Search matches the query as a case-insensitive substring of name or
// tagline, approved products only, vote count descending, capped at 50.
// An empty query returns no results — search is simply not triggered.
func (s *ProductService) Search(ctx context.Context, viewerID, query string, filter Filter) ([]ProductView, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []ProductView{}, nil
	}

	products, err := s.products.SearchProducts(ctx, query, ResultCap)
	if err != nil {
		return nil, fmt.Errorf("searching products: %w", err)
	}

	return s.enrich(ctx, viewerID, applyFilter(products, filter))
}

// Trending lists approved products by vote count within a launch-date
// window, capped at 50.
func (s *ProductService) Trending(ctx context.Context, viewerID, period string, filter Filter) ([]ProductView, error) {
	from, err := trendingFrom(period, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	products, err := s.products.ListApprovedSince(ctx, from, ResultCap)
	if err != nil {
		return nil, fmt.Errorf("listing trending products: %w", err)
	}

	return s.enrich(ctx, viewerID, applyFilter(products, filter))
}

// AllProducts returns every product in every status for the admin
// moderation queue.
func (s *ProductService) AllProducts(ctx context.Context, viewerID string) ([]ProductView, error) {
	if viewerID == "" {
		return nil, apperror.Unauthenticated()
	}
	viewer, err := s.users.GetUserByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if !viewer.IsAdmin() {
		return nil, apperror.Forbidden("only admins can list all products")
	}

	products, err := s.products.ListAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing all products: %w", err)
	}

	return s.enrich(ctx, viewerID, products)
}

// authorizeProduct loads a product by slug and verifies the viewer owns it
// or is an admin. Shared by Update and Delete.
func (s *ProductService) authorizeProduct(ctx context.Context, viewerID, slug string) (*model.Product, error) {
	if viewerID == "" {
		return nil, apperror.Unauthenticated()
	}

	product, err := s.products.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if product.UserID != viewerID {
		viewer, err := s.users.GetUserByID(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		if !viewer.IsAdmin() {
			return nil, apperror.Forbidden("you do not own this product")
		}
	}

	return product, nil
}

// enrich turns raw products into viewer-scoped views: hasVoted comes from
// intersecting the viewer's vote set with the result rows, owner identity
// from a single users query. Anonymous viewers get hasVoted=false across
// the board.
func (s *ProductService) enrich(ctx context.Context, viewerID string, products []model.Product) ([]ProductView, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving product owners: %w", err)
	}
	owners := make(map[string]*model.User, len(users))
	for i := range users {
		owners[users[i].ID] = &users[i]
	}

	voted := map[string]struct{}{}
	if viewerID != "" {
		voted, err = s.votes.VotedProductIDs(ctx, viewerID)
		if err != nil {
			return nil, fmt.Errorf("resolving viewer votes: %w", err)
		}
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		view := ProductView{Product: p}
		if _, ok := voted[p.ID]; ok {
			view.HasVoted = true
		}
		if owner, ok := owners[p.UserID]; ok {
			view.OwnerName = owner.Name
			view.OwnerUsername = owner.Username
			view.OwnerAvatar = owner.AvatarURL
		}
		views = append(views, view)
	}

	return views, nil
}

// groupByDate buckets views by launch date, preserving the input order for
// both group keys and group members. The input arrives sorted (date desc,
// count desc), so groups come out newest-day-first and already ranked.
func groupByDate(views []ProductView) []DateGroup {
	var groups []DateGroup
	index := make(map[string]int)

	for _, v := range views {
		i, ok := index[v.LaunchDate]
		if !ok {
			i = len(groups)
			index[v.LaunchDate] = i
			groups = append(groups, DateGroup{Date: v.LaunchDate})
		}
		groups[i].Products = append(groups[i].Products, v)
	}

	if groups == nil {
		return []DateGroup{}
	}
	return groups
}

// trendingFrom maps a period name to the window's lower launch-date bound.
// "month" deliberately subtracts a calendar month (AddDate normalizes
// overflow the same way the old UI did), so the window is 28–31 days long
// depending on today's date.
func trendingFrom(period string, now time.Time) (string, error) {
	switch period {
	case PeriodWeek:
		return now.AddDate(0, 0, -7).Format(model.LaunchDateLayout), nil
	case PeriodMonth:
		return now.AddDate(0, -1, 0).Format(model.LaunchDateLayout), nil
	case PeriodAll:
		return "", nil
	default:
		return "", apperror.ValidationFailed("period", "period must be week, month or all")
	}
}

// validateProductInput trims and checks the submitted fields in place.
func validateProductInput(in *ProductInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Tagline = strings.TrimSpace(in.Tagline)
	in.Description = strings.TrimSpace(in.Description)
	in.URL = strings.TrimSpace(in.URL)
	in.LogoURL = strings.TrimSpace(in.LogoURL)
	in.BannerURL = strings.TrimSpace(in.BannerURL)
	in.GitHubURL = strings.TrimSpace(in.GitHubURL)
	in.Agent = strings.TrimSpace(in.Agent)
	in.LLM = strings.TrimSpace(in.LLM)

	if in.Name == "" {
		return apperror.ValidationFailed("name", "name is required")
	}
	if len(in.Name) > MaxNameLength {
		return apperror.ValidationFailed("name",
			fmt.Sprintf("name must be %d characters or less", MaxNameLength))
	}
	if in.Tagline == "" {
		return apperror.ValidationFailed("tagline", "tagline is required")
	}
	if len(in.Tagline) > MaxTaglineLength {
		return apperror.ValidationFailed("tagline",
			fmt.Sprintf("tagline must be %d characters or less", MaxTaglineLength))
	}
	if len(in.Description) > MaxDescriptionLength {
		return apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
	}
	if !isValidHTTPURL(in.URL) {
		return apperror.ValidationFailed("url", "url must be a valid http(s) URL")
	}
	if !isValidImageURL(in.LogoURL) {
		return apperror.ValidationFailed("logoUrl", "invalid image URL")
	}
	if !isValidImageURL(in.BannerURL) {
		return apperror.ValidationFailed("bannerUrl", "invalid image URL")
	}
	if in.GitHubURL != "" && !isValidHTTPURL(in.GitHubURL) {
		return apperror.ValidationFailed("githubUrl", "githubUrl must be a valid http(s) URL")
	}
	if len(in.Agent) > MaxLabelLength {
		return apperror.ValidationFailed("agent",
			fmt.Sprintf("agent must be %d characters or less", MaxLabelLength))
	}
	if len(in.LLM) > MaxLabelLength {
		return apperror.ValidationFailed("llm",
			fmt.Sprintf("llm must be %d characters or less", MaxLabelLength))
	}
	if len(in.Tags) > MaxTagsInputLength {
		return apperror.ValidationFailed("tags",
			fmt.Sprintf("tags must be %d characters or less", MaxTagsInputLength))
	}

	return nil
}

// isValidHTTPURL accepts absolute http(s) URLs with a host.
func isValidHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// isValidImageURL accepts the empty string, same-origin upload references
// ("/uploads/..."), or absolute http(s) URLs. Anything else — javascript:,
// data:, protocol-relative — is rejected.
func isValidImageURL(raw string) bool {
	if raw == "" {
		return true
	}
	if strings.HasPrefix(raw, "/uploads/") {
		return true
	}
	return isValidHTTPURL(raw)
}

// splitTags parses the raw comma-separated tags field into an ordered list,
// trimming whitespace and dropping empties: "ai, saas," → ["ai" "saas"].
func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// slugify derives a URL slug from a product name: lowercase, runs of
// non-alphanumerics collapse to single hyphens, trimmed, capped at 60.
func slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // swallow leading separators
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if len(slug) > MaxSlugLength {
		slug = strings.Trim(slug[:MaxSlugLength], "-")
	}
	return slug
}

const suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// randomSuffix returns n random base36 characters for slug de-duplication.
func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = suffixAlphabet[rand.IntN(len(suffixAlphabet))]
	}
	return string(b)
}
