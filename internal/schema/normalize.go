// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package schema

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// Unicode whitespace, including separators RE2's \s does not cover.
	whitespaceRun = regexp.MustCompile(`[\s\v\p{Z}\x{85}\x{1c}-\x{1f}]+`)
	nonWordChars  = regexp.MustCompile(`[^0-9a-zA-Z_]+`)
)

// NormalizeColumnName makes a column name safe for the schema file format:
// lowercase, whitespace runs collapsed to "_", everything outside
// [0-9a-zA-Z_] removed, surrounding underscores trimmed.
//
//	" Foo Bar! " -> "foo_bar"
//
// Input is NFC-normalized first so composed and decomposed spellings of the
// same name produce the same result.
func NormalizeColumnName(name string) string {
	s := norm.NFC.String(name)
	s = strings.ToLower(s)
	s = whitespaceRun.ReplaceAllString(s, "_")
	s = nonWordChars.ReplaceAllString(s, "")
	return strings.Trim(s, "_")
}
