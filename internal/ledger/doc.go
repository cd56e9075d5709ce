// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package ledger keeps a cross-run history of schema archives in SQLite so
// schema drift can be traced without keeping every batch output folder.
package ledger
