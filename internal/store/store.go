// Package store persists finished generation runs to SQLite or PostgreSQL.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/lawnchairsociety/wfcgen/internal/config"
	"github.com/lawnchairsociety/wfcgen/internal/logger"
)

// ErrRunNotFound is returned when no run has the requested id
var ErrRunNotFound = errors.New("store: run not found")

// Store wraps the database connection and provides run persistence.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// Open opens or creates the SQLite database at the given path.
func Open(path string) (*Store, error) {
	return OpenWithConfig(config.StoreConfig{Driver: string(DialectSQLite), DSN: path})
}

// OpenWithConfig connects using the configured driver and migrates the schema.
func OpenWithConfig(cfg config.StoreConfig) (*Store, error) {
	dialect := NewDialect(DialectType(cfg.Driver))

	if _, ok := dialect.(*SQLiteDialect); ok {
		if err := os.MkdirAll(filepath.Dir(cfg.DSN), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(dialect.DriverName(), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize database: %w\nSQL: %s", err, stmt)
		}
	}

	s := &Store{db: db, dialect: dialect}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Debug("Run store opened", "driver", dialect.DriverName())
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the schema if it doesn't exist.
func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id ` + s.dialect.SerialPrimaryKey() + `,
			catalog TEXT NOT NULL DEFAULT '',
			seed BIGINT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			steps INTEGER NOT NULL,
			placements INTEGER NOT NULL,
			repairs INTEGER NOT NULL,
			status TEXT NOT NULL,
			digest TEXT NOT NULL,
			cells TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_digest ON runs(digest)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

const runColumns = "id, catalog, seed, width, height, steps, placements, repairs, status, digest, cells, created_at"

// SaveRun inserts a run and sets its ID.
func (s *Store) SaveRun(r *Run) error {
	if err := s.insert(r, false); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	logger.Info("Run saved", "id", r.ID, "status", r.Status, "digest", r.Digest)
	return nil
}

// insert writes r and sets its ID. With keepCreatedAt the row keeps r.CreatedAt
// instead of the database default.
func (s *Store) insert(r *Run, keepCreatedAt bool) error {
	columns := "catalog, seed, width, height, steps, placements, repairs, status, digest, cells"
	values := "?, ?, ?, ?, ?, ?, ?, ?, ?, ?"
	args := []any{r.Catalog, r.Seed, r.Width, r.Height, r.Steps, r.Placements, r.Repairs, r.Status, r.Digest, encodeCells(r.Cells)}
	if keepCreatedAt {
		columns += ", created_at"
		values += ", ?"
		args = append(args, r.CreatedAt.UTC())
	}
	query := rebind(s.dialect, "INSERT INTO runs ("+columns+") VALUES ("+values+")")

	if s.dialect.SupportsLastInsertID() {
		result, err := s.db.Exec(query, args...)
		if err != nil {
			return err
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get run id: %w", err)
		}
		r.ID = id
		return nil
	}

	query += s.dialect.ReturningClause("id")
	return s.db.QueryRow(query, args...).Scan(&r.ID)
}

// GetRun loads one run by ID.
func (s *Store) GetRun(id int64) (*Run, error) {
	row := s.db.QueryRow(rebind(s.dialect, "SELECT "+runColumns+" FROM runs WHERE id = ?"), id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return r, nil
}

// ListRuns returns the most recent runs, newest first. limit <= 0 returns all.
func (s *Store) ListRuns(limit int) ([]*Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY id DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return s.queryRuns(rebind(s.dialect, query), args...)
}

// FindByDigest returns every run that produced the grid with the given digest, oldest first.
func (s *Store) FindByDigest(digest string) ([]*Run, error) {
	return s.queryRuns(rebind(s.dialect, "SELECT "+runColumns+" FROM runs WHERE digest = ? ORDER BY id"), digest)
}

// CountRuns returns the number of stored runs.
func (s *Store) CountRuns() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count)
	return count, err
}

func (s *Store) queryRuns(query string, args ...any) ([]*Run, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var r Run
	var cells string
	if err := sc.Scan(&r.ID, &r.Catalog, &r.Seed, &r.Width, &r.Height, &r.Steps, &r.Placements,
		&r.Repairs, &r.Status, &r.Digest, &cells, &r.CreatedAt); err != nil {
		return nil, err
	}

	decoded, err := decodeCells(cells)
	if err != nil {
		return nil, fmt.Errorf("run %d has corrupt cells: %w", r.ID, err)
	}
	r.Cells = decoded
	return &r, nil
}
