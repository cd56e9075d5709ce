// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ManuGH/batchrun/internal/audit"
	"github.com/ManuGH/batchrun/internal/config"
	"github.com/ManuGH/batchrun/internal/fsutil"
	"github.com/ManuGH/batchrun/internal/log"
	"github.com/ManuGH/batchrun/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrOutputExists is returned when the output folder of a fresh run is already on disk.
var ErrOutputExists = errors.New("batch output folder already exists")

// Run is one execution of the job. Its name and output folder are computed
// lazily, once.
type Run struct {
	conf  *config.Conf
	id    uuid.UUID
	now   func() time.Time
	audit *audit.Logger

	logger zerolog.Logger

	mu        sync.Mutex
	name      string
	outputDir string
}

// Option configures a Run.
type Option func(*Run)

// WithClock overrides the clock used for the batch name timestamp.
func WithClock(now func() time.Time) Option {
	return func(r *Run) { r.now = now }
}

// WithID sets the run ID instead of generating a random one.
func WithID(id uuid.UUID) Option {
	return func(r *Run) { r.id = id }
}

// WithAudit records run milestones to the given audit logger.
func WithAudit(a *audit.Logger) Option {
	return func(r *Run) { r.audit = a }
}

// New creates a run backed by conf.
func New(conf *config.Conf, opts ...Option) *Run {
	r := &Run{
		conf: conf,
		id:   uuid.New(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = log.WithComponent("batch").With().
		Str(log.FieldRunID, r.id.String()).
		Logger()
	return r
}

// ID returns the run's correlation ID.
func (r *Run) ID() uuid.UUID { return r.id }

// Conf returns the configuration the run was created with.
func (r *Run) Conf() *config.Conf { return r.conf }

// Name returns the batch name, computing it on first use.
func (r *Run) Name() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nameLocked()
}

func (r *Run) nameLocked() (string, error) {
	if r.name != "" {
		return r.name, nil
	}

	r.logger.Info().Msg("batch name not yet set, setting batch name")
	prefix, err := r.conf.String(config.KeyBatchPrefix)
	if err != nil {
		return "", fmt.Errorf("batch name: %w", err)
	}
	model, err := r.conf.String(config.KeyModelChoice)
	if err != nil {
		return "", fmt.Errorf("batch name: %w", err)
	}

	r.name = Name(prefix, model, r.now())
	r.logger = r.logger.With().Str(log.FieldBatchName, r.name).Logger()

	metrics.RecordRunStarted()
	r.audit.BatchNamed(context.Background(), r.id.String(), r.name)
	r.logger.Info().Str(log.FieldEvent, "batch.named").Msg("batch name set")
	return r.name, nil
}

// OutputFolder returns <output_path>/<batch name>, creating it on first use.
// Missing parents are created; the folder itself must not exist yet.
func (r *Run) OutputFolder() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.outputDir != "" {
		return r.outputDir, nil
	}

	root, err := r.conf.String(config.KeyOutputPath)
	if err != nil {
		return "", fmt.Errorf("output folder: %w", err)
	}
	name, err := r.nameLocked()
	if err != nil {
		return "", err
	}

	if err := fsutil.EnsureDir(root); err != nil {
		return "", fmt.Errorf("output folder: %w", err)
	}
	dir, err := fsutil.ConfineRelPath(root, name)
	if err != nil {
		return "", fmt.Errorf("output folder: %w", err)
	}
	if err := fsutil.EnsureDir(filepath.Dir(dir)); err != nil {
		return "", fmt.Errorf("output folder: %w", err)
	}
	if err := fsutil.CreateDir(dir); err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrOutputExists, dir)
		}
		return "", fmt.Errorf("output folder: %w", err)
	}

	r.outputDir = dir
	metrics.RecordOutputFolderCreated()
	r.audit.OutputCreated(r.auditContext(name), dir)
	r.logger.Info().
		Str(log.FieldOutputPath, dir).
		Msg("batch output folder set")
	return dir, nil
}

func (r *Run) auditContext(name string) context.Context {
	ctx := log.ContextWithRunID(context.Background(), r.id.String())
	return log.ContextWithBatchName(ctx, name)
}

// Context returns ctx annotated with the run ID and batch name, carrying a
// logger with both fields so log.FromContext picks them up.
func (r *Run) Context(ctx context.Context) (context.Context, error) {
	name, err := r.Name()
	if err != nil {
		return ctx, err
	}
	ctx = log.ContextWithRunID(ctx, r.id.String())
	ctx = log.ContextWithBatchName(ctx, name)
	l := log.WithContext(ctx, log.Base())
	return l.WithContext(ctx), nil
}
