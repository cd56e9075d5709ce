// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package audit provides structured audit logging for batch run milestones.
// It follows the WHO/WHAT/WHEN pattern so a run can be reconstructed from logs.
package audit

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/ManuGH/batchrun/internal/log"
	"github.com/rs/zerolog"
)

// EventType represents the type of audit event.
type EventType string

const (
	// Configuration events
	EventConfigLoaded           EventType = "config.loaded"
	EventConfigTemplateFallback EventType = "config.template_fallback"

	// Run events
	EventBatchNamed    EventType = "batch.named"
	EventOutputCreated EventType = "batch.output_created"

	// Schema events
	EventSchemaArchived EventType = "schema.archived"
)

// ActorSystem is the actor recorded for unattended batch runs.
const ActorSystem = "system"

// Event represents a structured audit event.
type Event struct {
	Timestamp time.Time         `json:"timestamp"`
	Type      EventType         `json:"type"`
	Actor     string            `json:"actor"`    // WHO: operator or "system"
	Action    string            `json:"action"`   // WHAT: human-readable action description
	Resource  string            `json:"resource"` // Resource affected (e.g. config file, output folder)
	Result    string            `json:"result"`   // success, failure
	RunID     string            `json:"run_id,omitempty"`
	BatchName string            `json:"batch_name,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

// Logger provides audit logging functionality.
type Logger struct {
	logger zerolog.Logger
}

// NewLogger creates a new audit logger with a dedicated "audit" component.
func NewLogger() *Logger {
	return NewLoggerWith(log.WithComponent("audit"))
}

// NewLoggerWith wraps an existing logger, tagging every entry as an audit record.
func NewLoggerWith(base zerolog.Logger) *Logger {
	return &Logger{
		logger: base.With().Str("log_type", "audit").Logger(),
	}
}

// Log writes an audit event to the audit log.
func (l *Logger) Log(event Event) {
	if l == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Actor == "" {
		event.Actor = ActorSystem
	}

	logEvent := l.logger.Info().
		Time("timestamp", event.Timestamp).
		Str("event_type", string(event.Type)).
		Str("actor", event.Actor).
		Str("action", event.Action).
		Str("resource", event.Resource).
		Str("result", event.Result)

	if event.RunID != "" {
		logEvent.Str(log.FieldRunID, event.RunID)
	}
	if event.BatchName != "" {
		logEvent.Str(log.FieldBatchName, event.BatchName)
	}

	// Flatten details in key order for stable output
	keys := make([]string, 0, len(event.Details))
	for k := range event.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		logEvent.Str(k, event.Details[k])
	}

	logEvent.Msg("audit event")
}

// LogFromContext logs an audit event, filling run fields from ctx.
func (l *Logger) LogFromContext(ctx context.Context, event Event) {
	if event.RunID == "" {
		event.RunID = log.RunIDFromContext(ctx)
	}
	if event.BatchName == "" {
		event.BatchName = log.BatchNameFromContext(ctx)
	}
	l.Log(event)
}

// ConfigLoaded logs which configuration file a run uses. Loading from the
// template is recorded as its own event type since it usually means the
// operator forgot to provide a real configuration.
func (l *Logger) ConfigLoaded(ctx context.Context, path, source string) {
	typ := EventConfigLoaded
	if source == "template" {
		typ = EventConfigTemplateFallback
	}
	l.LogFromContext(ctx, Event{
		Type:     typ,
		Action:   "loaded configuration",
		Resource: path,
		Result:   "success",
		Details: map[string]string{
			"source": source,
		},
	})
}

// BatchNamed logs the batch name assigned to a run.
func (l *Logger) BatchNamed(ctx context.Context, runID, name string) {
	l.LogFromContext(ctx, Event{
		Type:      EventBatchNamed,
		Action:    "assigned batch name",
		Resource:  "batch",
		Result:    "success",
		RunID:     runID,
		BatchName: name,
	})
}

// OutputCreated logs creation of the batch output folder.
func (l *Logger) OutputCreated(ctx context.Context, path string) {
	l.LogFromContext(ctx, Event{
		Type:     EventOutputCreated,
		Action:   "created output folder",
		Resource: path,
		Result:   "success",
	})
}

// SchemaArchived logs a written schema archive.
func (l *Logger) SchemaArchived(ctx context.Context, step, path string, datasets, columns int) {
	l.LogFromContext(ctx, Event{
		Type:     EventSchemaArchived,
		Action:   "archived dataset schemas",
		Resource: path,
		Result:   "success",
		Details: map[string]string{
			"step":     step,
			"datasets": strconv.Itoa(datasets),
			"columns":  strconv.Itoa(columns),
		},
	})
}
