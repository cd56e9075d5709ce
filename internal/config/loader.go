// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ManuGH/batchrun/internal/log"
	"github.com/ManuGH/batchrun/internal/metrics"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when neither a flag nor BATCH_CONFIG names a file.
	DefaultConfigPath = "conf/conf.yaml"

	// TemplateSuffix is appended to the config path to locate the fallback template.
	TemplateSuffix = ".template"
)

// Source records where a Conf was read from.
type Source string

const (
	SourceFile     Source = "file"
	SourceTemplate Source = "template"
)

// Loader reads a configuration file, falling back to its template.
type Loader struct {
	path   string
	logger zerolog.Logger
}

// NewLoader creates a loader for path. An empty path resolves via DefaultPath.
func NewLoader(path string) *Loader {
	if path == "" {
		path = DefaultPath()
	}
	return &Loader{
		path:   filepath.Clean(path),
		logger: log.WithComponent("config"),
	}
}

// Path returns the primary configuration path.
func (l *Loader) Path() string { return l.path }

// TemplatePath returns the fallback template path.
func (l *Loader) TemplatePath() string { return l.path + TemplateSuffix }

// Load reads the configuration file, or its template when the file is absent.
// It fails with ErrConfigNotFound when both are missing.
func (l *Loader) Load() (*Conf, error) {
	templatePath := l.TemplatePath()
	l.logger.Info().
		Str(log.FieldPath, l.path).
		Str(log.FieldTemplatePath, templatePath).
		Msg("attempting to load configuration")

	ok, err := exists(l.path)
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if ok {
		l.logger.Info().
			Str(log.FieldPath, l.path).
			Msg("configuration file exists, loading")
		return l.loadFile(l.path, SourceFile)
	}

	ok, err = exists(templatePath)
	if err != nil {
		return nil, fmt.Errorf("stat config template: %w", err)
	}
	if ok {
		l.logger.Warn().
			Str(log.FieldPath, l.path).
			Str(log.FieldTemplatePath, templatePath).
			Msg("configuration file does not exist, loading template")
		return l.loadFile(templatePath, SourceTemplate)
	}

	l.logger.Error().
		Str(log.FieldPath, l.path).
		Str(log.FieldTemplatePath, templatePath).
		Msg("neither configuration file nor template is available")
	return nil, fmt.Errorf("%w: %s (template %s)", ErrConfigNotFound, l.path, templatePath)
}

// loadFile decodes a single YAML document whose root must be a mapping.
func (l *Loader) loadFile(path string, source Source) (*Conf, error) {
	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	values, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	metrics.RecordConfigLoad(string(source))
	l.logger.Debug().
		Str(log.FieldPath, path).
		Str("source", string(source)).
		Int("keys", len(values)).
		Msg("configuration loaded")

	return &Conf{values: values, source: source, path: path}, nil
}

func decode(data []byte) (map[string]any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, err
	}

	// Ensure no multiple documents or trailing content
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return map[string]any{}, nil
		}
		root = root.Content[0]
	}
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return map[string]any{}, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top-level value must be a mapping", ErrWrongType)
	}

	values := map[string]any{}
	if err := root.Decode(&values); err != nil {
		return nil, err
	}
	return values, nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
