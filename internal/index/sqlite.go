package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"banner-cache/internal/logging"
)

// Default timeout for index operations
const defaultTimeout = 5 * time.Second

const schema = `
CREATE TABLE IF NOT EXISTS banners (
	source TEXT PRIMARY KEY,
	path TEXT NOT NULL,
	width INTEGER NOT NULL DEFAULT 0,
	height INTEGER NOT NULL DEFAULT 0,
	full_hash INTEGER NOT NULL DEFAULT 0,
	rotated INTEGER NOT NULL DEFAULT 0
);
`

// SQLiteStore keeps the records in a SQLite database. Write replaces every
// row inside one transaction, so readers see either the old or the new set.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

// NewSQLiteStore opens (lazily creating) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index dir: %w", err)
	}

	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}
	db.SetMaxOpenConns(1)

	return &SQLiteStore{path: path, db: db}, nil
}

// Location returns the database file path.
func (s *SQLiteStore) Location() string {
	return s.path
}

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize index schema: %w", err)
	}
	return nil
}

// Read loads every row. A database file that does not exist yet is an empty
// index and is not created by reading.
func (s *SQLiteStore) Read() (map[string]Record, error) {
	records := make(map[string]Record)

	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		logging.Debug("Banner index %s does not exist yet", s.path)
		return records, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if err := s.ensureSchema(ctx); err != nil {
		return records, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT source, path, width, height, full_hash, rotated FROM banners`)
	if err != nil {
		return records, fmt.Errorf("failed to query index: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			source string
			rec    Record
			hash   int64
		)
		if err := rows.Scan(&source, &rec.Path, &rec.Width, &rec.Height, &hash, &rec.Rotated); err != nil {
			return records, fmt.Errorf("failed to scan index row: %w", err)
		}
		// SQLite integers are signed; the bits round-trip unchanged.
		rec.FullHash = uint64(hash)
		records[source] = rec
	}
	return records, rows.Err()
}

// Write replaces every row with records.
func (s *SQLiteStore) Write(records map[string]Record) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if err := s.ensureSchema(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin index transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error("failed to roll back index transaction: %v", rbErr)
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM banners`); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO banners (source, path, width, height, full_hash, rotated) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare index insert: %w", err)
	}
	defer stmt.Close()

	for source, rec := range records {
		if _, err = stmt.ExecContext(ctx, source, rec.Path, rec.Width, rec.Height, int64(rec.FullHash), rec.Rotated); err != nil {
			return fmt.Errorf("failed to insert index row for %s: %w", source, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit index: %w", err)
	}
	return nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
