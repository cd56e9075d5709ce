// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ManuGH/batchrun/internal/persistence/sqlite"
	"github.com/ManuGH/batchrun/internal/schema"
)

const (
	schemaVersion = 1
)

// SqliteStore implements schema.Ledger using SQLite.
type SqliteStore struct {
	DB  *sql.DB
	now func() time.Time
}

var _ schema.Ledger = (*SqliteStore)(nil)

// NewSqliteStore opens (or creates) the ledger database at dbPath.
func NewSqliteStore(dbPath string) (*SqliteStore, error) {
	db, err := sqlite.Open(dbPath, sqlite.DefaultConfig())
	if err != nil {
		return nil, err
	}

	s := &SqliteStore{DB: db, now: time.Now}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("schema ledger: migration failed: %w", err)
	}
	return s, nil
}

func (s *SqliteStore) migrate() error {
	var currentVersion int
	if err := s.DB.QueryRow("PRAGMA user_version").Scan(&currentVersion); err != nil {
		return err
	}
	if currentVersion >= schemaVersion {
		return nil
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	ddl := `
	CREATE TABLE IF NOT EXISTS schema_columns (
		batch_name TEXT NOT NULL,
		step TEXT NOT NULL,
		position INTEGER NOT NULL,
		data_set TEXT NOT NULL,
		variable TEXT NOT NULL,
		type TEXT NOT NULL,
		PRIMARY KEY (batch_name, step, position)
	);

	CREATE TABLE IF NOT EXISTS schema_archives (
		batch_name TEXT NOT NULL,
		step TEXT NOT NULL,
		archived_at_ms INTEGER NOT NULL,
		column_count INTEGER NOT NULL,
		PRIMARY KEY (batch_name, step)
	);
	CREATE INDEX IF NOT EXISTS idx_schema_archives_step ON schema_archives(step, archived_at_ms);
	`
	if _, err := tx.Exec(ddl); err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return err
	}
	return tx.Commit()
}

// Record stores the archive of step for batchName, replacing any earlier
// archive of the same step in the same batch.
func (s *SqliteStore) Record(ctx context.Context, batchName, step string, records []schema.Record) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM schema_columns WHERE batch_name = ? AND step = ?`, batchName, step); err != nil {
		return fmt.Errorf("clear previous columns: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO schema_columns (batch_name, step, position, data_set, variable, type)
	VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, batchName, step, i, r.DataSet, r.Variable, r.Type); err != nil {
			return fmt.Errorf("insert column %s.%s: %w", r.DataSet, r.Variable, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
	INSERT INTO schema_archives (batch_name, step, archived_at_ms, column_count)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(batch_name, step) DO UPDATE SET
		archived_at_ms = excluded.archived_at_ms,
		column_count = excluded.column_count`,
		batchName, step, s.now().UnixMilli(), len(records)); err != nil {
		return fmt.Errorf("upsert archive: %w", err)
	}

	return tx.Commit()
}

// Records returns the archived columns of step in batchName, in archive order.
// It returns nil when nothing was archived.
func (s *SqliteStore) Records(ctx context.Context, batchName, step string) ([]schema.Record, error) {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT data_set, variable, type FROM schema_columns
	WHERE batch_name = ? AND step = ?
	ORDER BY position`, batchName, step)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []schema.Record
	for rows.Next() {
		var r schema.Record
		if err := rows.Scan(&r.DataSet, &r.Variable, &r.Type); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Batches returns the batches that archived step, oldest first.
func (s *SqliteStore) Batches(ctx context.Context, step string) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT batch_name FROM schema_archives
	WHERE step = ?
	ORDER BY archived_at_ms, batch_name`, step)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// Drift compares the two most recent archives of step. ok is false when fewer
// than two batches archived it.
func (s *SqliteStore) Drift(ctx context.Context, step string) (prev, cur string, d schema.Drift, ok bool, err error) {
	batches, err := s.Batches(ctx, step)
	if err != nil {
		return "", "", schema.Drift{}, false, err
	}
	if len(batches) < 2 {
		return "", "", schema.Drift{}, false, nil
	}
	prev, cur = batches[len(batches)-2], batches[len(batches)-1]

	before, err := s.Records(ctx, prev, step)
	if err != nil {
		return "", "", schema.Drift{}, false, err
	}
	after, err := s.Records(ctx, cur, step)
	if err != nil {
		return "", "", schema.Drift{}, false, err
	}
	return prev, cur, schema.Compare(before, after), true, nil
}

// Close closes the underlying database.
func (s *SqliteStore) Close() error {
	return s.DB.Close()
}
