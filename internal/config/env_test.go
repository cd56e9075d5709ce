// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "testing"

func TestParseString(t *testing.T) {
	t.Setenv("BATCH_TEST_STRING", "value")
	if got := ParseString("BATCH_TEST_STRING", "def"); got != "value" {
		t.Errorf("expected value, got %q", got)
	}

	t.Setenv("BATCH_TEST_STRING", "")
	if got := ParseString("BATCH_TEST_STRING", "def"); got != "def" {
		t.Errorf("expected default for empty env, got %q", got)
	}

	if got := ParseString("BATCH_TEST_UNSET", "def"); got != "def" {
		t.Errorf("expected default for unset env, got %q", got)
	}

	t.Setenv("BATCH_API_TOKEN", "s3cr3t")
	if got := ParseString("BATCH_API_TOKEN", ""); got != "s3cr3t" {
		t.Errorf("sensitive values must still be returned, got %q", got)
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"true", false, true},
		{"YES", false, true},
		{"1", false, true},
		{"false", true, false},
		{"no", true, false},
		{"0", true, false},
		{"", true, true},
		{"maybe", true, true},
		{"maybe", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("BATCH_TEST_BOOL", tt.value)
			if got := ParseBool("BATCH_TEST_BOOL", tt.def); got != tt.want {
				t.Errorf("ParseBool(%q, %v) = %v, want %v", tt.value, tt.def, got, tt.want)
			}
		})
	}
}

func TestIsSensitive(t *testing.T) {
	for key, want := range map[string]bool{
		"BATCH_API_TOKEN": true,
		"DB_PASSWORD":     true,
		"CLIENT_SECRET":   true,
		"BATCH_CONFIG":    false,
	} {
		if got := isSensitive(key); got != want {
			t.Errorf("isSensitive(%q) = %v, want %v", key, got, want)
		}
	}
}

func TestConfMetricsTextfile(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
		env    string
		want   bool
	}{
		{"unset everywhere", map[string]any{}, "", false},
		{"from file", map[string]any{KeyMetricsTextfile: true}, "", true},
		{"env enables", map[string]any{}, "yes", true},
		{"env disables file setting", map[string]any{KeyMetricsTextfile: true}, "false", false},
		{"invalid env keeps file setting", map[string]any{KeyMetricsTextfile: true}, "sometimes", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvMetricsTextfile, tt.env)
			got, err := New(tt.values).MetricsTextfile()
			if err != nil {
				t.Fatalf("MetricsTextfile() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("MetricsTextfile() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := New(map[string]any{KeyMetricsTextfile: "on"}).MetricsTextfile(); err == nil {
		t.Error("expected a wrong-type error for a non-bool metrics_textfile")
	}
}
