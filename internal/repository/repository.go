package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Repository provides data access methods
type Repository struct {
	db     *sql.DB
	driver string
}

// New opens a SQLite repository at dbPath
func New(dbPath string) (*Repository, error) {
	return Open(DriverSQLite, dbPath)
}

// Open creates a Repository for the given driver and data source, and runs
// migrations.
func Open(driver, dsn string) (*Repository, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, err
		}
		// SQLite works best with a single connection; it also keeps
		// :memory: databases alive for the life of the pool
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	repo := &Repository{db: db, driver: driver}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Driver returns the name of the database driver in use
func (r *Repository) Driver() string {
	if r.driver == "" {
		return DriverSQLite
	}
	return r.driver
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate creates the schema. Statements are shared by both drivers.
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS exec_positions (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			num_winners INTEGER NOT NULL DEFAULT 1 CHECK (num_winners >= 1),
			open BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS candidates (
			warwick_id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			elected BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS nominations (
			position_id INTEGER NOT NULL REFERENCES exec_positions(id),
			warwick_id INTEGER NOT NULL REFERENCES candidates(warwick_id),
			PRIMARY KEY (position_id, warwick_id)
		)`,
		`CREATE TABLE IF NOT EXISTS votes (
			warwick_id INTEGER NOT NULL,
			position_id INTEGER NOT NULL REFERENCES exec_positions(id),
			candidate_id INTEGER NOT NULL REFERENCES candidates(warwick_id),
			ranking INTEGER NOT NULL CHECK (ranking >= 1),
			PRIMARY KEY (warwick_id, position_id, candidate_id),
			UNIQUE (warwick_id, position_id, ranking)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_position ON votes(position_id)`,
		`CREATE INDEX IF NOT EXISTS idx_nominations_candidate ON nominations(warwick_id)`,
	}

	for _, m := range migrations {
		if _, err := r.db.Exec(m); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders as $1, $2, ... for postgres
func (r *Repository) rebind(query string) string {
	if r.driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// withTx runs fn in a transaction, committing only if fn succeeds
func (r *Repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// placeholders returns "?, ?, ..." with n entries
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
