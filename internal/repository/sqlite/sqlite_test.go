package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sakif/shithunt/internal/model"
)

// newTestDB creates a throwaway database in the test's temp directory.
//
// A file-backed database rather than ":memory:": database/sql pools
// connections, and every ":memory:" connection gets its own empty
// database, which breaks any test that touches more than one connection
// (the concurrent vote tests do).
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser creates a user keyed on githubID, with the username used
// for every profile field.
func createTestUser(t *testing.T, db *DB, githubID int64, username string) *model.User {
	t.Helper()
	user := &model.User{
		GitHubID:  githubID,
		Name:      username,
		Username:  username,
		Email:     username + "@example.com",
		AvatarURL: "https://example.com/" + username + ".png",
	}
	if err := db.Upsert(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// createTestProduct creates an approved product with sensible defaults.
// The name doubles as the slug; mutate functions adjust fields (status,
// launch date, vote count) before the insert.
func createTestProduct(t *testing.T, db *DB, userID, name string, mutate ...func(*model.Product)) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:       name,
		Slug:       name,
		Tagline:    "a very shit product",
		URL:        "https://example.com/" + name,
		UserID:     userID,
		LaunchDate: "2026-08-30",
		Status:     model.StatusApproved,
	}
	for _, m := range mutate {
		m(product)
	}
	if err := db.CreateProduct(context.Background(), product); err != nil {
		t.Fatalf("failed to create test product: %v", err)
	}
	return product
}
