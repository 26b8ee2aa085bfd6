package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/shithunt/internal/apperror"
	"github.com/sakif/shithunt/internal/repository"
)

// compile-time check that *DB implements repository.VoteRepository
var _ repository.VoteRepository = (*DB)(nil)

// ToggleVote flips the (user, product) vote and adjusts the product's
// denormalized counter in the same transaction.
//
// Invariant: products.shit_count must always equal the number of vote rows
// for that product. The counter is never recomputed from the ledger, so the
// two writes here (ledger row + counter) must commit or roll back together.
// The flow:
//
//	DELETE the vote row.
//	  rows affected == 1 → the user had voted: decrement, return false
//	  rows affected == 0 → the user had not voted: INSERT, increment, return true
//
// Concurrency: the transaction begins immediate (_txlock in New), so it
// holds the write lock from BEGIN and concurrent toggles queue on
// busy_timeout rather than failing mid-transaction. If a duplicate INSERT
// still loses a race, the unique index on (user_id, product_id) rejects it
// and we report "already voted" instead of inserting a second row or
// skewing the counter.
func (db *DB) ToggleVote(ctx context.Context, userID, productID string) (bool, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("sqlite: beginning vote toggle: %w", err)
	}
	// No-op after a successful Commit; unwinds every early return.
	defer tx.Rollback()

	// Voting on a deleted product must fail with NotFound, not a foreign
	// key error.
	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE id = ?`, productID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking product %s: %w", productID, err)
	}
	if exists == 0 {
		return false, apperror.NotFound("product", productID)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM votes WHERE user_id = ? AND product_id = ?`,
		userID, productID,
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: removing vote: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}

	if removed > 0 {
		// Vote existed → un-vote. MAX keeps the counter non-negative even
		// if the ledger and counter were ever seeded inconsistently.
		_, err = tx.ExecContext(ctx,
			`UPDATE products SET shit_count = MAX(shit_count - 1, 0) WHERE id = ?`,
			productID,
		)
		if err != nil {
			return false, fmt.Errorf("sqlite: decrementing shit count: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("sqlite: committing vote removal: %w", err)
		}
		return false, nil
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO votes (id, user_id, product_id, created_at) VALUES (?, ?, ?, ?)`,
		xid.New().String(), userID, productID, time.Now(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			// A concurrent toggle inserted first (and incremented the
			// counter). The user's vote is in place — report that state
			// and let the rollback discard this attempt.
			return true, nil
		}
		return false, fmt.Errorf("sqlite: inserting vote: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE products SET shit_count = shit_count + 1 WHERE id = ?`,
		productID,
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: incrementing shit count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("sqlite: committing vote: %w", err)
	}
	return true, nil
}

// HasVoted reports whether the user currently holds a vote on the product.
func (db *DB) HasVoted(ctx context.Context, userID, productID string) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM votes WHERE user_id = ? AND product_id = ?`,
		userID, productID,
	).Scan(&count)
	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("sqlite: checking vote: %w", err)
	}
	return count > 0, nil
}

// VotedProductIDs returns the set of product IDs the user has voted for.
// Listings intersect this set with their result rows to mark hasVoted,
// so viewer scoping costs one query however long the listing is.
func (db *DB) VotedProductIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT product_id FROM votes WHERE user_id = ?`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing votes for user %s: %w", userID, err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlite: scanning vote row: %w", err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating votes: %w", err)
	}

	return ids, nil
}
