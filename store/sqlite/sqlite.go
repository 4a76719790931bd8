/*
Package sqlite provides a SQLite-backed archive of published pay tables.

PURPOSE:
  Stores pay table documents per year so an operator can publish a new
  edition (e.g. a provisional 2025 table) without redeploying. The archive
  is a paytable.Source: the Store loads from it like from any other source.

KEY TABLES:
  pay_tables: One document per year, versioned on every publish

VERSIONING:
  Publishing a year again replaces the document and increments version.
  Already resolved years keep their cached table until restart; the
  archive only feeds years not yet cached.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of database/sql.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  archive, err := sqlite.New("./paycalc.db")
  if err != nil {
      log.Fatal(err)
  }
  defer archive.Close()

  store := paytable.NewStore(archive)

SEE ALSO:
  - paytable/store.go: Source interface
  - paytable/document.go: Document format stored in document_json
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/paycalc/paytable"
)

// Store is the pay table archive.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens the archive at dbPath. Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every connection would get its own empty in-memory database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pay_tables (
		year TEXT PRIMARY KEY,
		document_json TEXT NOT NULL,
		provisional INTEGER NOT NULL DEFAULT 0,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PAY TABLE ARCHIVE
// =============================================================================

// TableRecord is a stored pay table document.
type TableRecord struct {
	Year         paytable.YearKey
	DocumentJSON string
	Provisional  bool
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SaveTable publishes table for its year, replacing an older edition.
func (s *Store) SaveTable(ctx context.Context, table *paytable.PayTable) (*TableRecord, error) {
	doc, err := paytable.MarshalDocument(table)
	if err != nil {
		return nil, fmt.Errorf("encode pay table %s: %w", table.Year, err)
	}
	provisional := table.Meta != nil && table.Meta.Provisional

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO pay_tables (year, document_json, provisional, version, created_at, updated_at)
		VALUES (?, ?, ?, 1, ?, ?)
		ON CONFLICT(year) DO UPDATE SET
			document_json = excluded.document_json,
			provisional = excluded.provisional,
			version = pay_tables.version + 1,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx, query, string(table.Year), string(doc), provisional, now, now); err != nil {
		return nil, err
	}
	return s.getLocked(ctx, table.Year)
}

// GetTable returns the record for year, or nil if none was published.
func (s *Store) GetTable(ctx context.Context, year paytable.YearKey) (*TableRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getLocked(ctx, year)
}

func (s *Store) getLocked(ctx context.Context, year paytable.YearKey) (*TableRecord, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT year, document_json, provisional, version, created_at, updated_at FROM pay_tables WHERE year = ?",
		string(year),
	)
	rec, err := scanTable(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListTables returns all published years, oldest first.
func (s *Store) ListTables(ctx context.Context) ([]TableRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT year, document_json, provisional, version, created_at, updated_at FROM pay_tables ORDER BY year",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []TableRecord
	for rows.Next() {
		rec, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteTable removes a published year.
func (s *Store) DeleteTable(ctx context.Context, year paytable.YearKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM pay_tables WHERE year = ?", string(year))
	return err
}

// Load implements paytable.Source.
func (s *Store) Load(ctx context.Context, year paytable.YearKey) (*paytable.PayTable, error) {
	rec, err := s.GetTable(ctx, year)
	if err != nil {
		return nil, &paytable.LoadError{Year: year, Reason: "query archive", Err: err}
	}
	if rec == nil {
		return nil, &paytable.LoadError{Year: year, Reason: "not found", Err: paytable.ErrTableNotFound}
	}
	table, err := paytable.ParseDocument(year, []byte(rec.DocumentJSON))
	if err != nil {
		return nil, paytable.AsLoadError(year, err)
	}
	return table, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM pay_tables")
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTable(row scanner) (TableRecord, error) {
	var rec TableRecord
	var year, createdAt, updatedAt string
	if err := row.Scan(&year, &rec.DocumentJSON, &rec.Provisional, &rec.Version, &createdAt, &updatedAt); err != nil {
		return TableRecord{}, err
	}
	rec.Year = paytable.YearKey(year)
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return rec, nil
}
