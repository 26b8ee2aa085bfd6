package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/sakif/shithunt/internal/apperror"
	"github.com/sakif/shithunt/internal/model"
)

// Hand-written in-memory mocks for the repository interfaces. The services
// only see the interfaces, so these swap in without the services noticing.

type mockProductRepo struct {
	products []*model.Product
	nextID   int
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{}
}

func (m *mockProductRepo) CreateProduct(_ context.Context, p *model.Product) error {
	for _, existing := range m.products {
		if existing.Slug == p.Slug {
			return apperror.Conflict("product", p.Slug)
		}
	}
	m.nextID++
	p.ID = fmt.Sprintf("prod-%d", m.nextID)
	p.CreatedAt = time.Now()
	stored := *p
	m.products = append(m.products, &stored)
	return nil
}

func (m *mockProductRepo) GetProductByID(_ context.Context, id string) (*model.Product, error) {
	for _, p := range m.products {
		if p.ID == id {
			result := *p
			return &result, nil
		}
	}
	return nil, apperror.NotFound("product", id)
}

func (m *mockProductRepo) GetProductBySlug(_ context.Context, slug string) (*model.Product, error) {
	for _, p := range m.products {
		if p.Slug == slug {
			result := *p
			return &result, nil
		}
	}
	return nil, apperror.NotFound("product", slug)
}

func (m *mockProductRepo) ListProductsByDate(_ context.Context, date string) ([]model.Product, error) {
	var result []model.Product
	for _, p := range m.products {
		if p.Status == model.StatusApproved && p.LaunchDate == date {
			result = append(result, *p)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].ShitCount > result[j].ShitCount })
	return result, nil
}

func (m *mockProductRepo) ListApprovedProducts(_ context.Context) ([]model.Product, error) {
	var result []model.Product
	for _, p := range m.products {
		if p.Status == model.StatusApproved {
			result = append(result, *p)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].LaunchDate != result[j].LaunchDate {
			return result[i].LaunchDate > result[j].LaunchDate
		}
		return result[i].ShitCount > result[j].ShitCount
	})
	return result, nil
}

func (m *mockProductRepo) ListProductsByUser(_ context.Context, userID string) ([]model.Product, error) {
	var result []model.Product
	for _, p := range m.products {
		if p.UserID == userID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockProductRepo) ListProductsByIDs(_ context.Context, ids []string) ([]model.Product, error) {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	var result []model.Product
	for _, p := range m.products {
		if _, ok := wanted[p.ID]; ok {
			result = append(result, *p)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].ShitCount > result[j].ShitCount })
	return result, nil
}

func (m *mockProductRepo) ListAllProducts(_ context.Context) ([]model.Product, error) {
	result := make([]model.Product, 0, len(m.products))
	for _, p := range m.products {
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockProductRepo) SearchProducts(_ context.Context, query string, limit int) ([]model.Product, error) {
	q := strings.ToLower(query)
	var result []model.Product
	for _, p := range m.products {
		if p.Status != model.StatusApproved {
			continue
		}
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Tagline), q) {
			result = append(result, *p)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].ShitCount > result[j].ShitCount })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockProductRepo) ListApprovedSince(_ context.Context, from string, limit int) ([]model.Product, error) {
	var result []model.Product
	for _, p := range m.products {
		if p.Status != model.StatusApproved {
			continue
		}
		if from != "" && p.LaunchDate < from {
			continue
		}
		result = append(result, *p)
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].ShitCount > result[j].ShitCount })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockProductRepo) UpdateProduct(_ context.Context, p *model.Product) error {
	for i, existing := range m.products {
		if existing.ID == p.ID {
			stored := *p
			m.products[i] = &stored
			return nil
		}
	}
	return apperror.NotFound("product", p.ID)
}

func (m *mockProductRepo) UpdateProductStatus(_ context.Context, id, status string) error {
	for _, p := range m.products {
		if p.ID == id {
			p.Status = status
			return nil
		}
	}
	return apperror.NotFound("product", id)
}

func (m *mockProductRepo) DeleteProduct(_ context.Context, id string) error {
	for i, p := range m.products {
		if p.ID == id {
			m.products = append(m.products[:i], m.products[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("product", id)
}

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

// addUser seeds a user and returns it. Tests use IDs like "u1" directly.
func (m *mockUserRepo) addUser(id, username, role string) *model.User {
	user := &model.User{
		ID:        id,
		Name:      username,
		Username:  username,
		Role:      role,
		AvatarURL: "https://example.com/" + username + ".png",
	}
	m.users[id] = user
	return user
}

func (m *mockUserRepo) Upsert(_ context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(m.users)+1)
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *user
	return &result, nil
}

func (m *mockUserRepo) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			result := *user
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (m *mockUserRepo) ListUsers(_ context.Context) ([]model.User, error) {
	result := make([]model.User, 0, len(m.users))
	for _, user := range m.users {
		result = append(result, *user)
	}
	return result, nil
}

type mockVoteRepo struct {
	votes map[string]map[string]struct{} // userID → product ID set
}

func newMockVoteRepo() *mockVoteRepo {
	return &mockVoteRepo{votes: make(map[string]map[string]struct{})}
}

func (m *mockVoteRepo) ToggleVote(_ context.Context, userID, productID string) (bool, error) {
	set, ok := m.votes[userID]
	if !ok {
		set = make(map[string]struct{})
		m.votes[userID] = set
	}
	if _, voted := set[productID]; voted {
		delete(set, productID)
		return false, nil
	}
	set[productID] = struct{}{}
	return true, nil
}

func (m *mockVoteRepo) HasVoted(_ context.Context, userID, productID string) (bool, error) {
	_, ok := m.votes[userID][productID]
	return ok, nil
}

func (m *mockVoteRepo) VotedProductIDs(_ context.Context, userID string) (map[string]struct{}, error) {
	result := make(map[string]struct{}, len(m.votes[userID]))
	for id := range m.votes[userID] {
		result[id] = struct{}{}
	}
	return result, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestProductService(t *testing.T) (*ProductService, *mockProductRepo, *mockUserRepo, *mockVoteRepo) {
	t.Helper()
	products := newMockProductRepo()
	users := newMockUserRepo()
	votes := newMockVoteRepo()
	svc := NewProductService(products, users, votes, testLogger())
	return svc, products, users, votes
}

func validInput() ProductInput {
	return ProductInput{
		Name:    "My App",
		Tagline: "does app things",
		URL:     "https://example.com",
		Agent:   "Cursor",
		LLM:     "GPT-5",
		Tags:    "ai, saas",
	}
}

func TestSubmit(t *testing.T) {
	svc, _, users, _ := newTestProductService(t)
	users.addUser("u1", "maker", model.RoleUser)

	product, err := svc.Submit(context.Background(), "u1", validInput())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if product.Slug != "my-app" {
		t.Errorf("Slug = %q, want %q", product.Slug, "my-app")
	}
	if product.Status != model.StatusApproved {
		t.Errorf("Status = %q, want %q", product.Status, model.StatusApproved)
	}
	if product.UserID != "u1" {
		t.Errorf("UserID = %q, want u1", product.UserID)
	}
	if product.LaunchDate != time.Now().UTC().Format(model.LaunchDateLayout) {
		t.Errorf("LaunchDate = %q, want today", product.LaunchDate)
	}
	if got := product.TagList(); len(got) != 2 || got[0] != "ai" || got[1] != "saas" {
		t.Errorf("TagList() = %v, want [ai saas]", got)
	}
}

func TestSubmit_RequiresAuth(t *testing.T) {
	svc, _, _, _ := newTestProductService(t)

	_, err := svc.Submit(context.Background(), "", validInput())
	if !errors.Is(err, apperror.ErrUnauthenticated) {
		t.Errorf("Submit() error = %v, want ErrUnauthenticated", err)
	}
}

func TestSubmit_Validation(t *testing.T) {
	svc, _, users, _ := newTestProductService(t)
	users.addUser("u1", "maker", model.RoleUser)

	tests := []struct {
		name   string
		mutate func(*ProductInput)
	}{
		{"empty name", func(in *ProductInput) { in.Name = "  " }},
		{"name too long", func(in *ProductInput) { in.Name = strings.Repeat("x", MaxNameLength+1) }},
		{"empty tagline", func(in *ProductInput) { in.Tagline = "" }},
		{"tagline too long", func(in *ProductInput) { in.Tagline = strings.Repeat("x", MaxTaglineLength+1) }},
		{"description too long", func(in *ProductInput) { in.Description = strings.Repeat("x", MaxDescriptionLength+1) }},
		{"missing url", func(in *ProductInput) { in.URL = "" }},
		{"non-http url", func(in *ProductInput) { in.URL = "ftp://example.com" }},
		{"javascript logo url", func(in *ProductInput) { in.LogoURL = "javascript:alert(1)" }},
		{"relative banner url", func(in *ProductInput) { in.BannerURL = "../etc/passwd" }},
		{"bad github url", func(in *ProductInput) { in.GitHubURL = "not a url" }},
		{"agent too long", func(in *ProductInput) { in.Agent = strings.Repeat("x", MaxLabelLength+1) }},
		{"llm too long", func(in *ProductInput) { in.LLM = strings.Repeat("x", MaxLabelLength+1) }},
		{"tags too long", func(in *ProductInput) { in.Tags = strings.Repeat("x", MaxTagsInputLength+1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := svc.Submit(context.Background(), "u1", in)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Submit() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestSubmit_AcceptsUploadedImageURLs(t *testing.T) {
	svc, _, users, _ := newTestProductService(t)
	users.addUser("u1", "maker", model.RoleUser)

	in := validInput()
	in.LogoURL = "/uploads/logo/abc123.png"
	in.BannerURL = "https://cdn.example.com/banner.png"

	if _, err := svc.Submit(context.Background(), "u1", in); err != nil {
		t.Errorf("Submit() error = %v, want nil", err)
	}
}

func TestSubmit_SlugCollisionGetsSuffix(t *testing.T) {
	svc, _, users, _ := newTestProductService(t)
	users.addUser("u1", "maker", model.RoleUser)
	ctx := context.Background()

	first, err := svc.Submit(ctx, "u1", validInput())
	if err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}

	second, err := svc.Submit(ctx, "u1", validInput())
	if err != nil {
		t.Fatalf("second Submit() error = %v", err)
	}

	if second.Slug == first.Slug {
		t.Fatalf("duplicate slug %q was not de-duplicated", second.Slug)
	}
	if !strings.HasPrefix(second.Slug, "my-app-") {
		t.Errorf("Slug = %q, want %q plus a suffix", second.Slug, "my-app-")
	}
	if len(second.Slug) != len("my-app-")+4 {
		t.Errorf("suffix length = %d, want 4", len(second.Slug)-len("my-app-"))
	}
}

func TestUpdate_OwnerAndAdminOnly(t *testing.T) {
	svc, _, users, _ := newTestProductService(t)
	users.addUser("owner", "owner", model.RoleUser)
	users.addUser("stranger", "stranger", model.RoleUser)
	users.addUser("admin", "admin", model.RoleAdmin)
	ctx := context.Background()

	product, err := svc.Submit(ctx, "owner", validInput())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	in := validInput()
	in.Tagline = "edited"

	if _, err := svc.Update(ctx, "stranger", product.Slug, in); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("Update() by stranger error = %v, want ErrForbidden", err)
	}

	updated, err := svc.Update(ctx, "owner", product.Slug, in)
	if err != nil {
		t.Fatalf("Update() by owner error = %v", err)
	}
	if updated.Tagline != "edited" {
		t.Errorf("Tagline = %q, want edited", updated.Tagline)
	}

	in.Tagline = "admin edit"
	if _, err := svc.Update(ctx, "admin", product.Slug, in); err != nil {
		t.Errorf("Update() by admin error = %v, want nil", err)
	}
}

func TestDelete_Forbidden(t *testing.T) {
	svc, _, users, _ := newTestProductService(t)
	users.addUser("owner", "owner", model.RoleUser)
	users.addUser("stranger", "stranger", model.RoleUser)
	ctx := context.Background()

	product, err := svc.Submit(ctx, "owner", validInput())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if err := svc.Delete(ctx, "stranger", product.Slug); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("Delete() by stranger error = %v, want ErrForbidden", err)
	}
	if err := svc.Delete(ctx, "owner", product.Slug); err != nil {
		t.Errorf("Delete() by owner error = %v, want nil", err)
	}
}

func TestSetStatus(t *testing.T) {
	svc, products, users, _ := newTestProductService(t)
	users.addUser("u1", "maker", model.RoleUser)
	users.addUser("admin", "admin", model.RoleAdmin)
	ctx := context.Background()

	product, err := svc.Submit(ctx, "u1", validInput())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if err := svc.SetStatus(ctx, "u1", product.ID, model.StatusRejected); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("SetStatus() by non-admin error = %v, want ErrForbidden", err)
	}

	if err := svc.SetStatus(ctx, "admin", product.ID, "banana"); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("SetStatus(banana) error = %v, want ErrValidation", err)
	}

	if err := svc.SetStatus(ctx, "admin", product.ID, model.StatusRejected); err != nil {
		t.Fatalf("SetStatus() by admin error = %v", err)
	}
	stored, err := products.GetProductByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetProductByID() error = %v", err)
	}
	if stored.Status != model.StatusRejected {
		t.Errorf("Status = %q, want rejected", stored.Status)
	}
}

func TestByDate_GroupsByLaunchDay(t *testing.T) {
	svc, products, users, _ := newTestProductService(t)
	owner := users.addUser("u1", "maker", model.RoleUser)
	ctx := context.Background()

	seed := []struct {
		slug  string
		date  string
		count int
	}{
		{"b-high", "2026-08-30", 8},
		{"b-low", "2026-08-30", 2},
		{"a-only", "2026-08-29", 5},
	}
	for _, s := range seed {
		products.products = append(products.products, &model.Product{
			ID: s.slug, Name: s.slug, Slug: s.slug,
			UserID: owner.ID, LaunchDate: s.date,
			ShitCount: s.count, Status: model.StatusApproved,
		})
	}

	groups, err := svc.ByDate(ctx, "", "", Filter{})
	if err != nil {
		t.Fatalf("ByDate() error = %v", err)
	}

	if len(groups) != 2 {
		t.Fatalf("ByDate() returned %d groups, want 2", len(groups))
	}
	if groups[0].Date != "2026-08-30" || groups[1].Date != "2026-08-29" {
		t.Errorf("group dates = [%q %q], want newest first", groups[0].Date, groups[1].Date)
	}
	if groups[0].Products[0].Slug != "b-high" || groups[0].Products[1].Slug != "b-low" {
		t.Errorf("day group not ranked by votes: %q then %q",
			groups[0].Products[0].Slug, groups[0].Products[1].Slug)
	}
	if groups[0].Products[0].OwnerUsername != "maker" {
		t.Errorf("OwnerUsername = %q, want maker", groups[0].Products[0].OwnerUsername)
	}
}

func TestByDate_EmptyCatalogReturnsEmptySlice(t *testing.T) {
	svc, _, _, _ := newTestProductService(t)

	groups, err := svc.ByDate(context.Background(), "", "", Filter{})
	if err != nil {
		t.Fatalf("ByDate() error = %v", err)
	}
	if groups == nil {
		t.Error("ByDate() = nil, want empty slice (renders as [] not null)")
	}
	if len(groups) != 0 {
		t.Errorf("ByDate() returned %d groups, want 0", len(groups))
	}
}

func TestBySlug_MarksViewerVote(t *testing.T) {
	svc, _, users, votes := newTestProductService(t)
	users.addUser("u1", "maker", model.RoleUser)
	users.addUser("u2", "viewer", model.RoleUser)
	ctx := context.Background()

	product, err := svc.Submit(ctx, "u1", validInput())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, err := votes.ToggleVote(ctx, "u2", product.ID); err != nil {
		t.Fatalf("ToggleVote() error = %v", err)
	}

	view, err := svc.BySlug(ctx, "u2", product.Slug)
	if err != nil {
		t.Fatalf("BySlug() error = %v", err)
	}
	if !view.HasVoted {
		t.Error("HasVoted = false for a voting viewer, want true")
	}

	anon, err := svc.BySlug(ctx, "", product.Slug)
	if err != nil {
		t.Fatalf("BySlug() anonymous error = %v", err)
	}
	if anon.HasVoted {
		t.Error("HasVoted = true for anonymous viewer, want false")
	}
}

func TestByUser_UnknownUsernameIsEmpty(t *testing.T) {
	svc, _, _, _ := newTestProductService(t)

	products, err := svc.ByUser(context.Background(), "", "ghost")
	if err != nil {
		t.Fatalf("ByUser() error = %v", err)
	}
	if len(products) != 0 {
		t.Errorf("ByUser() returned %d products for unknown user, want 0", len(products))
	}

	voted, err := svc.VotedBy(context.Background(), "", "ghost")
	if err != nil {
		t.Fatalf("VotedBy() error = %v", err)
	}
	if len(voted) != 0 {
		t.Errorf("VotedBy() returned %d products for unknown user, want 0", len(voted))
	}
}

func TestVotedBy(t *testing.T) {
	svc, _, users, votes := newTestProductService(t)
	users.addUser("u1", "maker", model.RoleUser)
	users.addUser("u2", "voter", model.RoleUser)
	ctx := context.Background()

	first, err := svc.Submit(ctx, "u1", validInput())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	in := validInput()
	in.Name = "Other App"
	if _, err := svc.Submit(ctx, "u1", in); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if _, err := votes.ToggleVote(ctx, "u2", first.ID); err != nil {
		t.Fatalf("ToggleVote() error = %v", err)
	}

	voted, err := svc.VotedBy(ctx, "u2", "voter")
	if err != nil {
		t.Fatalf("VotedBy() error = %v", err)
	}
	if len(voted) != 1 || voted[0].ID != first.ID {
		t.Errorf("VotedBy() = %d products, want only the voted one", len(voted))
	}
	if !voted[0].HasVoted {
		t.Error("HasVoted = false on the voter's own voted list")
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	svc, _, users, _ := newTestProductService(t)
	users.addUser("u1", "maker", model.RoleUser)
	if _, err := svc.Submit(context.Background(), "u1", validInput()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	results, err := svc.Search(context.Background(), "", "   ", Filter{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Search(blank) returned %d results, want 0", len(results))
	}
}

func TestSearch_AppliesFilter(t *testing.T) {
	svc, _, users, _ := newTestProductService(t)
	users.addUser("u1", "maker", model.RoleUser)
	ctx := context.Background()

	cursor := validInput()
	cursor.Name = "App One"
	lovable := validInput()
	lovable.Name = "App Two"
	lovable.Agent = "Lovable"

	if _, err := svc.Submit(ctx, "u1", cursor); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, err := svc.Submit(ctx, "u1", lovable); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	results, err := svc.Search(ctx, "", "App", Filter{Agent: "Cursor"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].Name != "App One" {
		t.Errorf("Search() with agent filter = %d results, want only App One", len(results))
	}
}

func TestTrending_InvalidPeriod(t *testing.T) {
	svc, _, _, _ := newTestProductService(t)

	_, err := svc.Trending(context.Background(), "", "fortnight", Filter{})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Trending(fortnight) error = %v, want ErrValidation", err)
	}
}

func TestTrendingFrom(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		period string
		want   string
	}{
		{PeriodWeek, "2026-08-24"},
		{PeriodMonth, "2026-07-31"},
		{PeriodAll, ""},
	}
	for _, tt := range tests {
		got, err := trendingFrom(tt.period, now)
		if err != nil {
			t.Errorf("trendingFrom(%q) error = %v", tt.period, err)
			continue
		}
		if got != tt.want {
			t.Errorf("trendingFrom(%q) = %q, want %q", tt.period, got, tt.want)
		}
	}
}

// A calendar-month subtraction from a long month's end normalizes forward:
// March 31 minus one month lands in early March, not February 28.
func TestTrendingFrom_MonthNormalizes(t *testing.T) {
	now := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	got, err := trendingFrom(PeriodMonth, now)
	if err != nil {
		t.Fatalf("trendingFrom() error = %v", err)
	}
	if got != "2026-03-03" {
		t.Errorf("trendingFrom(month) from Mar 31 = %q, want 2026-03-03", got)
	}
}

func TestAllProducts_AdminOnly(t *testing.T) {
	svc, _, users, _ := newTestProductService(t)
	users.addUser("u1", "maker", model.RoleUser)
	users.addUser("admin", "admin", model.RoleAdmin)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, "u1", validInput()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if _, err := svc.AllProducts(ctx, "u1"); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("AllProducts() by non-admin error = %v, want ErrForbidden", err)
	}
	if _, err := svc.AllProducts(ctx, ""); !errors.Is(err, apperror.ErrUnauthenticated) {
		t.Errorf("AllProducts() anonymous error = %v, want ErrUnauthenticated", err)
	}

	all, err := svc.AllProducts(ctx, "admin")
	if err != nil {
		t.Fatalf("AllProducts() by admin error = %v", err)
	}
	if len(all) != 1 {
		t.Errorf("AllProducts() returned %d products, want 1", len(all))
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My App", "my-app"},
		{"Hello, World!", "hello-world"},
		{"  spaced  out  ", "spaced-out"},
		{"already-slugged", "already-slugged"},
		{"CAPS & symbols #1", "caps-symbols-1"},
		{strings.Repeat("a", 100), strings.Repeat("a", 60)},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitTags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"ai, saas", []string{"ai", "saas"}},
		{"ai,,saas,", []string{"ai", "saas"}},
		{"  ", nil},
		{"solo", []string{"solo"}},
	}
	for _, tt := range tests {
		got := splitTags(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("splitTags(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("splitTags(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}
