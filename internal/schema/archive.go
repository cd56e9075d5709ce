// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package schema

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ManuGH/batchrun/internal/audit"
	"github.com/ManuGH/batchrun/internal/batch"
	"github.com/ManuGH/batchrun/internal/fsutil"
	"github.com/ManuGH/batchrun/internal/log"
	"github.com/ManuGH/batchrun/internal/metrics"
	"github.com/google/renameio/v2"
)

// SchemasDir is the folder under the batch output folder holding archives.
const SchemasDir = "schemas"

// ErrInvalidStep is returned for step names that are not plain file names.
var ErrInvalidStep = errors.New("invalid step name")

// Ledger keeps a history of archived schemas beyond the run's output folder.
type Ledger interface {
	Record(ctx context.Context, batchName, step string, records []Record) error
}

// Archiver writes schema archives into a run's output folder.
type Archiver struct {
	run    *batch.Run
	ledger Ledger
	audit  *audit.Logger
}

// ArchiverOption configures an Archiver.
type ArchiverOption func(*Archiver)

// WithLedger also sends every archive to l.
func WithLedger(l Ledger) ArchiverOption {
	return func(a *Archiver) { a.ledger = l }
}

// WithAuditLogger records every written archive as an audit event.
func WithAuditLogger(l *audit.Logger) ArchiverOption {
	return func(a *Archiver) { a.audit = l }
}

// NewArchiver creates an archiver for run.
func NewArchiver(run *batch.Run, opts ...ArchiverOption) *Archiver {
	a := &Archiver{run: run}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Archive writes the schema of every dataset found in scopes to
// <output_folder>/schemas/<step>.csv and returns the file path. The file is
// replaced atomically; a step without datasets still gets a header-only file.
func (a *Archiver) Archive(ctx context.Context, step string, scopes ...map[string]any) (string, error) {
	if !fsutil.IsPlainName(step) {
		return "", fmt.Errorf("%w: %q", ErrInvalidStep, step)
	}

	logger := log.WithComponentFromContext(ctx, "schema").With().
		Str(log.FieldStep, step).
		Logger()
	logger.Info().Msg("archiving schema for all available datasets")

	out, err := a.run.OutputFolder()
	if err != nil {
		return "", fmt.Errorf("archive %s: %w", step, err)
	}
	dir := filepath.Join(out, SchemasDir)
	if err := fsutil.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("archive %s: %w", step, err)
	}
	path := filepath.Join(dir, step+".csv")

	records, datasets := collect(scopes...)
	for _, name := range datasets {
		logger.Info().Str(log.FieldDataSet, name).Msg("extracting variable names")
	}

	if err := writeArchiveFile(ctx, path, records); err != nil {
		return "", fmt.Errorf("archive %s: %w", step, err)
	}

	metrics.RecordSchemaArchive(step, len(datasets), len(records))
	logger.Info().
		Str(log.FieldPath, path).
		Int("datasets", len(datasets)).
		Int(log.FieldColumns, len(records)).
		Msg("schema archive written")

	if a.ledger != nil {
		name, err := a.run.Name()
		if err != nil {
			return path, err
		}
		if err := a.ledger.Record(ctx, name, step, records); err != nil {
			return path, fmt.Errorf("archive %s: ledger: %w", step, err)
		}
	}

	a.audit.SchemaArchived(ctx, step, path, len(datasets), len(records))
	return path, nil
}

// writeArchiveFile writes the archive with full durability guarantees using renameio:
// fsync before rename, temp file removed on error.
func writeArchiveFile(ctx context.Context, path string, records []Record) error {
	logger := log.FromContext(ctx)

	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o640))
	if err != nil {
		return fmt.Errorf("create pending schema file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending schema file")
		}
	}()

	if err := WriteArchive(pendingFile, records); err != nil {
		return fmt.Errorf("write schema data: %w", err)
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace schema file: %w", err)
	}
	return nil
}
