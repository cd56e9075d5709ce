// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config loads the batch job configuration.
//
// The configuration is a free-form YAML mapping. It is read from a primary
// path, falling back to "<path>.template" when the primary file is absent.
// Values are not validated at load time; callers use the typed accessors on
// Conf (String, Bool, Require) and get classified errors back.
//
// A Cache owns one loaded Conf for the lifetime of a run so repeated lookups
// never touch the filesystem again.
package config
