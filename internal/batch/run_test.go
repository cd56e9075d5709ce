// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package batch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ManuGH/batchrun/internal/audit"
	"github.com/ManuGH/batchrun/internal/config"
	"github.com/ManuGH/batchrun/internal/log"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func newTestRun(t *testing.T, values map[string]any, opts ...Option) *Run {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return fixedTime })}, opts...)
	return New(config.New(values), opts...)
}

func baseValues(t *testing.T) map[string]any {
	t.Helper()
	return map[string]any{
		config.KeyBatchPrefix: "acme",
		config.KeyModelChoice: "rf",
		config.KeyOutputPath:  filepath.Join(t.TempDir(), "out"),
	}
}

func TestRunNameIsStable(t *testing.T) {
	calls := 0
	clock := func() time.Time {
		calls++
		return fixedTime.Add(time.Duration(calls) * time.Hour)
	}
	run := New(config.New(baseValues(t)), WithClock(clock))

	first, err := run.Name()
	require.NoError(t, err)
	second, err := run.Name()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "clock must be read once")
	assert.Equal(t, "acme_rf_2026-10-18T13:00:00Z", first)
}

func TestRunNameMissingKeys(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]any
		wantErr error
	}{
		{
			name:    "missing prefix",
			values:  map[string]any{config.KeyModelChoice: "rf"},
			wantErr: config.ErrMissingKey,
		},
		{
			name:    "missing model",
			values:  map[string]any{config.KeyBatchPrefix: "acme"},
			wantErr: config.ErrMissingKey,
		},
		{
			name:    "non-string model",
			values:  map[string]any{config.KeyBatchPrefix: "acme", config.KeyModelChoice: 3},
			wantErr: config.ErrWrongType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := newTestRun(t, tt.values)
			_, err := run.Name()
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestRunOutputFolder(t *testing.T) {
	values := baseValues(t)
	run := newTestRun(t, values)

	dir, err := run.OutputFolder()
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, "acme_rf_2026-10-18T12:00:00Z", filepath.Base(dir))

	again, err := run.OutputFolder()
	require.NoError(t, err)
	assert.Equal(t, dir, again, "output folder must be cached")
}

func TestRunOutputFolderExists(t *testing.T) {
	values := baseValues(t)

	first := newTestRun(t, values)
	_, err := first.OutputFolder()
	require.NoError(t, err)

	// A second run in the same second collides with the first.
	second := newTestRun(t, values)
	_, err = second.OutputFolder()
	assert.True(t, errors.Is(err, ErrOutputExists), "got %v", err)
}

func TestRunOutputFolderConfined(t *testing.T) {
	values := baseValues(t)
	values[config.KeyBatchPrefix] = "../../escape"

	run := newTestRun(t, values)
	_, err := run.OutputFolder()
	require.Error(t, err)

	escaped := filepath.Join(values[config.KeyOutputPath].(string), "../../escape_rf_2026-10-18T12:00:00Z")
	_, statErr := os.Stat(escaped)
	assert.True(t, os.IsNotExist(statErr), "nothing must be created outside output_path")
}

func TestRunOutputFolderMissingOutputPath(t *testing.T) {
	values := baseValues(t)
	delete(values, config.KeyOutputPath)

	_, err := newTestRun(t, values).OutputFolder()
	assert.True(t, errors.Is(err, config.ErrMissingKey), "got %v", err)
}

func TestRunContextCarriesIdentity(t *testing.T) {
	id := uuid.MustParse("6f1c1c56-9a57-4a39-9d53-0f4c2b5c2a10")
	run := newTestRun(t, baseValues(t), WithID(id))
	assert.Equal(t, id, run.ID())

	ctx, err := run.Context(context.Background())
	require.NoError(t, err)
	assert.Equal(t, id.String(), log.RunIDFromContext(ctx))
	assert.Equal(t, "acme_rf_2026-10-18T12:00:00Z", log.BatchNameFromContext(ctx))
	assert.NotEqual(t, zerolog.Disabled, zerolog.Ctx(ctx).GetLevel())
}

func TestRunAuditsMilestones(t *testing.T) {
	var buf bytes.Buffer
	run := newTestRun(t, baseValues(t), WithAudit(audit.NewLoggerWith(zerolog.New(&buf))))

	_, err := run.OutputFolder()
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.Contains(out, string(audit.EventBatchNamed)), out)
	assert.True(t, strings.Contains(out, string(audit.EventOutputCreated)), out)
	assert.Same(t, run.Conf(), run.Conf())
}
