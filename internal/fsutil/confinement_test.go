// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfineRelPath(t *testing.T) {
	tmpDir := t.TempDir()

	subDir := filepath.Join(tmpDir, "subdir")
	if err := os.Mkdir(subDir, 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "safe.txt"), []byte("safe"), 0o600); err != nil {
		t.Fatal(err)
	}
	// link_outside points at the parent of the root
	if err := os.Symlink("..", filepath.Join(tmpDir, "link_outside")); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		target   string
		wantErr  bool
		wantPath string // suffix check when set
	}{
		{name: "existing file", target: "safe.txt", wantPath: "safe.txt"},
		{name: "new file in existing dir", target: "subdir/foo.csv", wantPath: "subdir/foo.csv"},
		{name: "new dir", target: "acme_rf_2026-10-18T00:00:00Z", wantPath: "acme_rf_2026-10-18T00:00:00Z"},
		{name: "dots inside name", target: "a..b", wantPath: "a..b"},
		{name: "traversal", target: "../outside", wantErr: true},
		{name: "nested traversal", target: "subdir/../../outside", wantErr: true},
		{name: "absolute", target: "/etc/passwd", wantErr: true},
		{name: "backslash", target: `sub\..\x`, wantErr: true},
		{name: "symlink escape", target: "link_outside/foo", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConfineRelPath(tmpDir, tt.target)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ConfineRelPath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !strings.HasSuffix(got, tt.wantPath) {
				t.Errorf("ConfineRelPath() got = %v, want suffix %v", got, tt.wantPath)
			}
		})
	}
}

func TestConfineRelPath_TraversalIsClassified(t *testing.T) {
	_, err := ConfineRelPath(t.TempDir(), "../x")
	if !errors.Is(err, ErrEscapesRoot) {
		t.Errorf("expected ErrEscapesRoot, got %v", err)
	}
}

func TestConfineRelPath_MissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "missing")
	if _, err := ConfineRelPath(root, "x"); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestIsPlainName(t *testing.T) {
	for name, want := range map[string]bool{
		"extract":   true,
		"model-v2":  true,
		"":          false,
		".":         false,
		"..":        false,
		"a/b":       false,
		`a\b`:       false,
		"../escape": false,
	} {
		if got := IsPlainName(name); got != want {
			t.Errorf("IsPlainName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestCreateDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	if err := CreateDir(dir); err != nil {
		t.Fatalf("CreateDir() first call: %v", err)
	}
	err := CreateDir(dir)
	if !errors.Is(err, os.ErrExist) {
		t.Errorf("expected os.ErrExist on second call, got %v", err)
	}
	if err := EnsureDir(filepath.Join(dir, "schemas", "deep")); err != nil {
		t.Errorf("EnsureDir() = %v", err)
	}
	if err := EnsureDir(dir); err != nil {
		t.Errorf("EnsureDir() on existing dir = %v", err)
	}
}
