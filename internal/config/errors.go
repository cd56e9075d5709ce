// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "errors"

var (
	// ErrConfigNotFound is returned when neither the configuration file nor its
	// template exists.
	ErrConfigNotFound = errors.New("configuration: file not available at specified path")

	// ErrMissingKey classifies lookups of keys absent from the configuration.
	ErrMissingKey = errors.New("missing config key")

	// ErrWrongType classifies lookups whose value has an unexpected YAML type.
	ErrWrongType = errors.New("unexpected config value type")
)
