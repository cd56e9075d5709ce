// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package testutil holds helpers shared by package tests.
package testutil

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// RepoRoot returns the repository root by walking up to the nearest go.mod.
func RepoRoot() (string, error) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("cannot determine caller")
	}
	dir := filepath.Dir(file)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", errors.New("go.mod not found")
}

// MustRepoRoot returns the repo root or fails the test.
func MustRepoRoot(t *testing.T) string {
	t.Helper()
	root, err := RepoRoot()
	if err != nil {
		t.Fatalf("repo root: %v", err)
	}
	return root
}

// ShippedTemplate returns the path of the configuration template checked into
// the repository, failing the test if it is missing.
func ShippedTemplate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(MustRepoRoot(t), "conf", "conf.yaml.template")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("shipped template: %v", err)
	}
	return path
}

// CopyTemplateTo copies the shipped template next to configPath as
// configPath+".template", so loading configPath exercises the fallback.
func CopyTemplateTo(t *testing.T, configPath string) {
	t.Helper()
	data, err := os.ReadFile(ShippedTemplate(t))
	if err != nil {
		t.Fatalf("read shipped template: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(configPath+".template", data, 0o600); err != nil {
		t.Fatalf("write template: %v", err)
	}
}
