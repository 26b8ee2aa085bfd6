package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/shithunt/internal/apperror"
	"github.com/sakif/shithunt/internal/model"
	"github.com/sakif/shithunt/internal/repository"
)

// compile-time check that *DB implements repository.ProductRepository
var _ repository.ProductRepository = (*DB)(nil)

const productColumns = `id, name, slug, tagline, description, url, logo_url, banner_url,
	github_url, agent, llm, tags, user_id, launch_date, shit_count, status, created_at`

func scanProduct(row interface{ Scan(...any) error }, p *model.Product) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.Tagline,
		&p.Description,
		&p.URL,
		&p.LogoURL,
		&p.BannerURL,
		&p.GitHubURL,
		&p.Agent,
		&p.LLM,
		&p.Tags,
		&p.UserID,
		&p.LaunchDate,
		&p.ShitCount,
		&p.Status,
		&p.CreatedAt,
	)
}

// queryProducts runs a SELECT over productColumns and scans all rows.
// Every listing query funnels through here so the scan order is written once.
func (db *DB) queryProducts(ctx context.Context, query string, args ...any) ([]model.Product, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: querying products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("sqlite: scanning product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating products: %w", err)
	}

	return products, nil
}

// CreateProduct inserts a new product.
//
// The slug's UNIQUE constraint is the concurrency guard for duplicate
// names: we do not pre-check availability, we attempt the insert and map a
// constraint failure to apperror.ErrConflict so the service can regenerate
// the suffix and retry. A pre-check would still race a concurrent submit.
func (db *DB) CreateProduct(ctx context.Context, product *model.Product) error {
	product.ID = xid.New().String()
	product.CreatedAt = time.Now()
	if product.Status == "" {
		product.Status = model.StatusApproved
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO products (id, name, slug, tagline, description, url, logo_url, banner_url,
		 github_url, agent, llm, tags, user_id, launch_date, shit_count, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ID,
		product.Name,
		product.Slug,
		product.Tagline,
		product.Description,
		product.URL,
		product.LogoURL,
		product.BannerURL,
		product.GitHubURL,
		product.Agent,
		product.LLM,
		product.Tags,
		product.UserID,
		product.LaunchDate,
		product.ShitCount,
		product.Status,
		product.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("product", product.Slug)
		}
		return fmt.Errorf("sqlite: creating product: %w", err)
	}

	return nil
}

// GetProductByID retrieves a single product by ID.
func (db *DB) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	err := scanProduct(db.conn.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id,
	), &p)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("product", id)
		}
		return nil, fmt.Errorf("sqlite: getting product %s: %w", id, err)
	}
	return &p, nil
}

// GetProductBySlug retrieves a single product by its unique slug.
//
// Deliberately no status filter: the product page is reachable for
// pending/rejected products (owners check on their submissions, admins
// review them). Moderation gates listings, not direct lookups.
func (db *DB) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var p model.Product
	err := scanProduct(db.conn.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE slug = ?`, slug,
	), &p)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("product", slug)
		}
		return nil, fmt.Errorf("sqlite: getting product by slug %s: %w", slug, err)
	}
	return &p, nil
}

// ListProductsByDate returns approved products launched on the given day,
// highest vote count first. Ties keep insertion order, which is stable
// across reads with no intervening writes.
func (db *DB) ListProductsByDate(ctx context.Context, date string) ([]model.Product, error) {
	return db.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE launch_date = ? AND status = ?
		 ORDER BY shit_count DESC`,
		date, model.StatusApproved,
	)
}

// ListApprovedProducts returns every approved product, newest launch day
// first and highest vote count first within a day — the order the home
// page groups and renders directly.
func (db *DB) ListApprovedProducts(ctx context.Context) ([]model.Product, error) {
	return db.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE status = ?
		 ORDER BY launch_date DESC, shit_count DESC`,
		model.StatusApproved,
	)
}

// ListProductsByUser returns a user's submissions in every status, most
// recent first. Status is intentionally not filtered — the profile page
// shows the owner their pending and rejected products too.
func (db *DB) ListProductsByUser(ctx context.Context, userID string) ([]model.Product, error) {
	return db.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE user_id = ?
		 ORDER BY created_at DESC`,
		userID,
	)
}

// ListProductsByIDs returns the named products ordered by vote count
// descending. Missing IDs are skipped silently.
func (db *DB) ListProductsByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	// Expand one placeholder per ID; the driver escapes each value.
	placeholders := strings.Repeat("?, ", len(ids)-1) + "?"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	return db.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE id IN (`+placeholders+`)
		 ORDER BY shit_count DESC`,
		args...,
	)
}

// ListAllProducts returns every product regardless of status, most recent
// first. Backs the admin moderation queue.
func (db *DB) ListAllProducts(ctx context.Context) ([]model.Product, error) {
	return db.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC`,
	)
}

// SearchProducts matches query as a substring of name or tagline,
// case-insensitively, over approved products only.
//
// SQLite's LIKE is case-insensitive for ASCII by default, which matches
// the search behaviour users expect here. % wildcards in the user's query
// are escaped so they match literally.
func (db *DB) SearchProducts(ctx context.Context, query string, limit int) ([]model.Product, error) {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(query)
	pattern := "%" + escaped + "%"

	return db.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE status = ? AND (name LIKE ? ESCAPE '\' OR tagline LIKE ? ESCAPE '\')
		 ORDER BY shit_count DESC
		 LIMIT ?`,
		model.StatusApproved, pattern, pattern, limit,
	)
}

// ListApprovedSince returns approved products with launch_date >= from,
// highest vote count first, capped at limit. An empty from means no lower
// bound (the "all time" trending window).
func (db *DB) ListApprovedSince(ctx context.Context, from string, limit int) ([]model.Product, error) {
	if from == "" {
		return db.queryProducts(ctx,
			`SELECT `+productColumns+` FROM products
			 WHERE status = ?
			 ORDER BY shit_count DESC
			 LIMIT ?`,
			model.StatusApproved, limit,
		)
	}

	return db.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE status = ? AND launch_date >= ?
		 ORDER BY shit_count DESC
		 LIMIT ?`,
		model.StatusApproved, from, limit,
	)
}

// UpdateProduct saves edits to an existing product's submitted fields.
// Slug, counters, status, owner and launch date are not editable here.
func (db *DB) UpdateProduct(ctx context.Context, product *model.Product) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE products
		 SET name = ?, tagline = ?, description = ?, url = ?, logo_url = ?,
		     banner_url = ?, github_url = ?, agent = ?, llm = ?, tags = ?
		 WHERE id = ?`,
		product.Name,
		product.Tagline,
		product.Description,
		product.URL,
		product.LogoURL,
		product.BannerURL,
		product.GitHubURL,
		product.Agent,
		product.LLM,
		product.Tags,
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating product %s: %w", product.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("product", product.ID)
	}

	return nil
}

// UpdateProductStatus sets the moderation status.
func (db *DB) UpdateProductStatus(ctx context.Context, id, status string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE products SET status = ? WHERE id = ?`, status, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating status of product %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("product", id)
	}

	return nil
}

// DeleteProduct removes a product. Its votes and comments go with it via
// the ON DELETE CASCADE foreign keys.
func (db *DB) DeleteProduct(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM products WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting product %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("product", id)
	}

	return nil
}
