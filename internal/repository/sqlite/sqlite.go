// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// SQLite is an embedded database — it lives inside the Go binary as a single
// file, which is plenty for a single-server board like this one. We use
// modernc.org/sqlite (a pure Go translation of SQLite) instead of
// github.com/mattn/go-sqlite3 so the build needs no C compiler and
// cross-compiles anywhere Go does.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements every repository
// interface (users, products, votes, comments). One type for all of them
// keeps wiring trivial and lets the vote toggle transaction touch both the
// votes and products tables.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/shithunt.db" → file-based database (persistent)
//   - ":memory:"         → in-memory database (lost on close)
//
// The pragmas travel in the DSN rather than via Exec: database/sql is a
// connection pool, and an Exec'd pragma configures only whichever
// connection the pool happens to hand out. _txlock=immediate makes every
// transaction take the write lock at BEGIN, so two concurrent vote
// toggles queue on busy_timeout instead of one of them failing when it
// tries to upgrade a read snapshot to a write lock.
func New(dbPath string) (*DB, error) {
	dsn := dbPath + "?_txlock=immediate" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=foreign_keys(1)"

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Ping forces an immediate connection so a bad path or permissions
	// problem surfaces here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress —
	// important for a web server where listing queries race vote toggles.
	// journal_mode is persistent in the database file, so one Exec at
	// startup covers every connection.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE ... IF NOT EXISTS keeps it idempotent —
// safe to run on every startup.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			github_id  INTEGER NOT NULL UNIQUE,
			name       TEXT NOT NULL DEFAULT '',
			username   TEXT NOT NULL DEFAULT '',
			email      TEXT NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT '',
			role       TEXT NOT NULL DEFAULT 'user',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// launch_date is a calendar day string ("YYYY-MM-DD"), not a timestamp.
	// Lexicographic order on that format equals chronological order, which
	// the by-date and trending queries rely on.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS products (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			slug        TEXT NOT NULL UNIQUE,
			tagline     TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			url         TEXT NOT NULL,
			logo_url    TEXT NOT NULL DEFAULT '',
			banner_url  TEXT NOT NULL DEFAULT '',
			github_url  TEXT NOT NULL DEFAULT '',
			agent       TEXT NOT NULL DEFAULT '',
			llm         TEXT NOT NULL DEFAULT '',
			tags        TEXT NOT NULL DEFAULT '',
			user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			launch_date TEXT NOT NULL,
			shit_count  INTEGER NOT NULL DEFAULT 0,
			status      TEXT NOT NULL DEFAULT 'approved',
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_products_launch_date ON products(launch_date);
		CREATE INDEX IF NOT EXISTS idx_products_user_id ON products(user_id);
		CREATE INDEX IF NOT EXISTS idx_products_status ON products(status);
	`)
	if err != nil {
		return fmt.Errorf("creating products table: %w", err)
	}

	// The unique index on (user_id, product_id) is the mechanism that
	// enforces at-most-one-vote-per-user-per-product, including under
	// concurrent duplicate toggles.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS votes (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_votes_user_product ON votes(user_id, product_id);
	`)
	if err != nil {
		return fmt.Errorf("creating votes table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS comments (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			content    TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_comments_product_id ON comments(product_id);
	`)
	if err != nil {
		return fmt.Errorf("creating comments table: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
//
// modernc.org/sqlite is registered through the generic database/sql driver
// interface, so we match on the canonical SQLite message rather than
// importing driver-specific error types. The message always names the
// violated columns, e.g. "UNIQUE constraint failed: products.slug".
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
