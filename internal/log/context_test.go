// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextWithRunID(t *testing.T) {
	tests := []struct {
		name  string
		ctx   context.Context
		runID string
		want  string
	}{
		{
			name:  "nil context",
			ctx:   nil,
			runID: "run-123",
			want:  "run-123",
		},
		{
			name:  "background context",
			ctx:   context.Background(),
			runID: "run-456",
			want:  "run-456",
		},
		{
			name:  "empty run ID",
			ctx:   context.Background(),
			runID: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := ContextWithRunID(tt.ctx, tt.runID)
			if got := RunIDFromContext(ctx); got != tt.want {
				t.Errorf("RunIDFromContext() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBatchNameFromContext_Missing(t *testing.T) {
	if got := BatchNameFromContext(context.Background()); got != "" {
		t.Errorf("expected empty batch name, got %q", got)
	}
	//nolint:staticcheck // nil context is part of the contract
	if got := BatchNameFromContext(nil); got != "" {
		t.Errorf("expected empty batch name for nil context, got %q", got)
	}
}

func TestWithContext_AddsRunFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := ContextWithRunID(context.Background(), "run-1")
	ctx = ContextWithBatchName(ctx, "acme_rf_2026-10-18T12:00:00Z")

	l := WithContext(ctx, logger)
	l.Info().Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry[FieldRunID] != "run-1" {
		t.Errorf("expected run_id=run-1, got %v", entry[FieldRunID])
	}
	if entry[FieldBatchName] != "acme_rf_2026-10-18T12:00:00Z" {
		t.Errorf("unexpected batch_name: %v", entry[FieldBatchName])
	}
}

func TestWithContext_NoFieldsReturnsSameLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	l := WithContext(context.Background(), logger)
	l.Info().Msg("plain")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if _, ok := entry[FieldRunID]; ok {
		t.Error("run_id must not be present without context values")
	}
}

func TestFromContext_PrefersAttachedLogger(t *testing.T) {
	var buf bytes.Buffer
	attached := zerolog.New(&buf).With().Str("marker", "attached").Logger()
	ctx := attached.WithContext(context.Background())

	FromContext(ctx).Info().Msg("x")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["marker"] != "attached" {
		t.Errorf("expected attached logger to be used, got %v", entry)
	}
}
