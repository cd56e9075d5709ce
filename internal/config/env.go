// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"os"
	"strings"

	"github.com/ManuGH/batchrun/internal/log"
	"github.com/rs/zerolog"
)

const (
	// EnvConfigPath names the environment variable overriding DefaultConfigPath.
	EnvConfigPath = "BATCH_CONFIG"

	// EnvMetricsTextfile overrides the metrics_textfile key.
	EnvMetricsTextfile = "BATCH_METRICS_TEXTFILE"
)

// DefaultPath returns $BATCH_CONFIG if set, otherwise DefaultConfigPath.
func DefaultPath() string {
	return ParseString(EnvConfigPath, DefaultConfigPath)
}

// MetricsTextfile reports whether a run writes its metrics textfile:
// $BATCH_METRICS_TEXTFILE when set, else the metrics_textfile key, else false.
func (c *Conf) MetricsTextfile() (bool, error) {
	fromFile, err := c.BoolOr(KeyMetricsTextfile, false)
	if err != nil {
		return false, err
	}
	return ParseBool(EnvMetricsTextfile, fromFile), nil
}

// ParseString reads a string from environment variable or returns default value.
// It logs the source (environment or default) for observability.
func ParseString(key, defaultValue string) string {
	return parseStringWithLogger(log.WithComponent("config"), key, defaultValue)
}

func parseStringWithLogger(logger zerolog.Logger, key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		switch {
		case value == "":
			logger.Debug().
				Str("key", key).
				Str("default", defaultValue).
				Str("source", "default").
				Msg("using default value (environment variable is empty)")
			return defaultValue
		case isSensitive(key):
			logger.Debug().
				Str("key", key).
				Str("source", "environment").
				Bool("sensitive", true).
				Msg("using environment variable")
		default:
			logger.Debug().
				Str("key", key).
				Str("value", value).
				Str("source", "environment").
				Msg("using environment variable")
		}
		return value
	}
	logger.Debug().
		Str("key", key).
		Str("default", defaultValue).
		Str("source", "default").
		Msg("using default value")
	return defaultValue
}

// ParseBool reads a boolean from environment variable or returns default value.
// It accepts "true", "false", "1", "0", "yes", "no" (case-insensitive).
func ParseBool(key string, defaultValue bool) bool {
	logger := log.WithComponent("config")
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		logger.Debug().
			Str("key", key).
			Bool("default", defaultValue).
			Str("source", "default").
			Msg("using default value")
		return defaultValue
	}
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Bool("default", defaultValue).
			Msg("invalid boolean in environment variable, using default")
		return defaultValue
	}
}

func isSensitive(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "token") ||
		strings.Contains(k, "password") ||
		strings.Contains(k, "secret")
}
