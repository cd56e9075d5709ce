// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package fsutil holds filesystem helpers shared by the run and schema packages.
package fsutil

import (
	"fmt"
	"os"
)

// DirPerm is the permission used for every directory the job creates.
const DirPerm os.FileMode = 0o750

// EnsureDir creates path and any missing parents. An existing directory is fine.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, DirPerm); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return nil
}

// CreateDir creates path, failing with an os.ErrExist-wrapping error if it already exists.
func CreateDir(path string) error {
	if err := os.Mkdir(path, DirPerm); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return nil
}
