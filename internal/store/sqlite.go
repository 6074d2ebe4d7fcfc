package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// AppendOutcome inserts one processing-history row.
func (s *SQLiteStore) AppendOutcome(ctx context.Context, o Outcome) error {
	const query = `
		INSERT INTO outcomes (
			id, run_id, email_id, sender, subject,
			category, status, disposition, processed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		o.ID, o.RunID, o.EmailID, o.Sender, o.Subject,
		string(o.Category), string(o.Status), o.Disposition,
		o.ProcessedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("appending outcome for email %s: %w", o.EmailID, err)
	}

	return nil
}

// GetRunOutcomes retrieves all outcomes recorded under the given run ID, in
// processing order.
func (s *SQLiteStore) GetRunOutcomes(
	ctx context.Context,
	runID string,
) ([]Outcome, error) {
	const query = `
		SELECT id, run_id, email_id, sender, subject,
		       category, status, disposition, processed_at
		FROM outcomes
		WHERE run_id = ?
		ORDER BY processed_at ASC`

	var outcomes []Outcome
	if err := s.db.SelectContext(ctx, &outcomes, query, runID); err != nil {
		return nil, fmt.Errorf("querying outcomes for run %s: %w", runID, err)
	}

	return outcomes, nil
}
