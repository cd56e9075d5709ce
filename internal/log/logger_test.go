// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestConfigure_ServiceAndComponent(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf, Service: "batch-test", Version: "v0.0.1"})
	t.Cleanup(func() { Configure(Config{Level: "info"}) })

	l := WithComponent("schema")
	l.Debug().Str(FieldStep, "extract").Msg("archived")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["service"] != "batch-test" {
		t.Errorf("expected service=batch-test, got %v", entry["service"])
	}
	if entry["version"] != "v0.0.1" {
		t.Errorf("expected version=v0.0.1, got %v", entry["version"])
	}
	if entry[FieldComponent] != "schema" {
		t.Errorf("expected component=schema, got %v", entry[FieldComponent])
	}
	if entry[FieldStep] != "extract" {
		t.Errorf("expected step=extract, got %v", entry[FieldStep])
	}
}

func TestConfigure_LevelFromEnv(t *testing.T) {
	t.Setenv("BATCH_LOG_LEVEL", "warn")
	var buf bytes.Buffer
	Configure(Config{Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: "info"}) })

	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Fatalf("expected warn level, got %s", zerolog.GlobalLevel())
	}

	l := Base()
	l.Info().Msg("suppressed")
	if buf.Len() != 0 {
		t.Errorf("info line should be suppressed at warn level, got %q", buf.String())
	}
}

func TestConfigure_InvalidLevelFallsBackToInfo(t *testing.T) {
	t.Setenv("BATCH_LOG_LEVEL", "")
	t.Setenv("LOG_LEVEL", "")
	Configure(Config{Level: "chatty", Output: &bytes.Buffer{}})
	t.Cleanup(func() { Configure(Config{Level: "info"}) })

	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("expected info level fallback, got %s", zerolog.GlobalLevel())
	}
}

func TestDerive(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: "info"}) })

	l := Derive(func(c *zerolog.Context) {
		*c = c.Str(FieldDataSet, "orders")
	})
	l.Info().Msg("x")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry[FieldDataSet] != "orders" {
		t.Errorf("expected data_set=orders, got %v", entry[FieldDataSet])
	}
}
