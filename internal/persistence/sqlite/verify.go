// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Mode selects how thoroughly VerifyIntegrity inspects a database.
type Mode string

const (
	// ModeQuick runs PRAGMA quick_check (no index cross-checks).
	ModeQuick Mode = "quick"
	// ModeFull runs PRAGMA integrity_check.
	ModeFull Mode = "full"
)

// ErrUnknownMode is returned for a Mode other than ModeQuick or ModeFull.
var ErrUnknownMode = errors.New("unknown integrity check mode")

func (m Mode) pragma() (string, error) {
	switch m {
	case ModeQuick:
		return "PRAGMA quick_check", nil
	case ModeFull:
		return "PRAGMA integrity_check", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, string(m))
	}
}

// VerifyIntegrity inspects the database at path over a read-only connection,
// so checking a ledger never creates or migrates it. A healthy database
// yields nil; otherwise the diagnostic rows SQLite reported are returned.
func VerifyIntegrity(path string, mode Mode) ([]string, error) {
	pragma, err := mode.pragma()
	if err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(%d)",
		path, DefaultConfig().BusyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s read-only: %w", path, err)
	}
	defer db.Close()

	rows, err := db.Query(pragma)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %s check of %s: %w", mode, path, err)
	}
	defer rows.Close()

	var diagnostics []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("sqlite: %s check of %s: %w", mode, path, err)
		}
		diagnostics = append(diagnostics, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: %s check of %s: %w", mode, path, err)
	}

	switch {
	case len(diagnostics) == 1 && strings.EqualFold(diagnostics[0], "ok"):
		return nil, nil
	case len(diagnostics) == 0:
		return []string{"integrity check returned no rows"}, nil
	default:
		return diagnostics, nil
	}
}
