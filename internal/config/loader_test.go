// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ManuGH/batchrun/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "conf.yaml")
	writeFile(t, path, `
batch_prefix: acme
model_choice: random_forest
output_path: /data/out
thresholds:
  min_rows: 10
  columns: [a, b]
`)

	conf, err := NewLoader(path).Load()
	require.NoError(t, err)

	assert.Equal(t, SourceFile, conf.Source())
	assert.Equal(t, path, conf.Path())

	prefix, err := conf.String(KeyBatchPrefix)
	require.NoError(t, err)
	assert.Equal(t, "acme", prefix)

	raw, err := conf.Value("thresholds")
	require.NoError(t, err)
	nested, ok := raw.(map[string]any)
	require.True(t, ok, "nested mapping should decode to map[string]any, got %T", raw)
	assert.Equal(t, 10, nested["min_rows"])
}

func TestLoadFallsBackToTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.yaml")
	writeFile(t, path+TemplateSuffix, "batch_prefix: from_template\n")

	conf, err := NewLoader(path).Load()
	require.NoError(t, err)

	assert.Equal(t, SourceTemplate, conf.Source())
	assert.Equal(t, path+TemplateSuffix, conf.Path())
	prefix, err := conf.String(KeyBatchPrefix)
	require.NoError(t, err)
	assert.Equal(t, "from_template", prefix)
}

func TestLoadPrefersFileOverTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.yaml")
	writeFile(t, path, "batch_prefix: real\n")
	writeFile(t, path+TemplateSuffix, "batch_prefix: template\n")

	conf, err := NewLoader(path).Load()
	require.NoError(t, err)

	prefix, err := conf.String(KeyBatchPrefix)
	require.NoError(t, err)
	assert.Equal(t, "real", prefix)
	assert.Equal(t, SourceFile, conf.Source())
}

func TestLoadMissingFileAndTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")

	conf, err := NewLoader(path).Load()
	require.Error(t, err)
	assert.Nil(t, conf)
	assert.True(t, errors.Is(err, ErrConfigNotFound), "expected ErrConfigNotFound, got %v", err)
	assert.Contains(t, err.Error(), path)
	assert.Contains(t, err.Error(), path+TemplateSuffix)
}

func TestLoadEmptyAndNullDocuments(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty file", content: ""},
		{name: "comment only", content: "# nothing configured yet\n"},
		{name: "explicit null", content: "~\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "conf.yaml")
			writeFile(t, path, tt.content)

			conf, err := NewLoader(path).Load()
			require.NoError(t, err)
			assert.Equal(t, 0, conf.Len())
		})
	}
}

func TestLoadRejectsMalformedDocuments(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "sequence root", content: "- a\n- b\n"},
		{name: "scalar root", content: "just a string\n"},
		{name: "multiple documents", content: "a: 1\n---\nb: 2\n"},
		{name: "invalid yaml", content: "a: [1, 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "conf.yaml")
			writeFile(t, path, tt.content)

			_, err := NewLoader(path).Load()
			assert.Error(t, err)
		})
	}
}

func TestNewLoaderDefaultPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	assert.Equal(t, filepath.Clean(DefaultConfigPath), NewLoader("").Path())

	custom := filepath.Join(t.TempDir(), "custom.yaml")
	t.Setenv(EnvConfigPath, custom)
	l := NewLoader("")
	assert.Equal(t, custom, l.Path())
	assert.Equal(t, custom+TemplateSuffix, l.TemplatePath())
}

func TestLoadShippedTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "conf.yaml")
	testutil.CopyTemplateTo(t, path)

	conf, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, SourceTemplate, conf.Source())
	require.NoError(t, conf.Require(RequiredKeys...))

	for _, key := range RequiredKeys {
		_, err := conf.String(key)
		assert.NoError(t, err, key)
	}
	enabled, err := conf.BoolOr(KeyMetricsTextfile, false)
	require.NoError(t, err)
	assert.False(t, enabled)
}
