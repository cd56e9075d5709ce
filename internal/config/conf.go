// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"fmt"
	"sort"
)

// Well-known keys read by the rest of the job.
const (
	KeyBatchPrefix      = "batch_prefix"
	KeyModelChoice      = "model_choice"
	KeyOutputPath       = "output_path"
	KeyLogLevel         = "log_level"
	KeySchemaLedgerPath = "schema_ledger_path"
	KeyMetricsTextfile  = "metrics_textfile"
)

// RequiredKeys are the keys a run cannot do without.
var RequiredKeys = []string{KeyBatchPrefix, KeyModelChoice, KeyOutputPath}

// Conf is a loaded configuration mapping. It is read-only after load.
type Conf struct {
	values map[string]any
	source Source
	path   string
}

// New wraps an in-memory mapping, mostly for tests and tooling.
func New(values map[string]any) *Conf {
	return &Conf{values: cloneMap(values), source: SourceFile}
}

// Source reports whether the file or its template was loaded.
func (c *Conf) Source() Source { return c.source }

// Path returns the file the configuration was read from.
func (c *Conf) Path() string { return c.path }

// Len returns the number of top-level keys.
func (c *Conf) Len() int { return len(c.values) }

// Keys returns the top-level keys in sorted order.
func (c *Conf) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Value returns the raw value stored under key.
func (c *Conf) Value(key string) (any, error) {
	v, ok := c.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingKey, key)
	}
	return v, nil
}

// String returns the string stored under key.
func (c *Conf) String(key string) (string, error) {
	v, err := c.Value(key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is %T, want string", ErrWrongType, key, v)
	}
	return s, nil
}

// StringOr returns the string under key, or def when the key is absent.
func (c *Conf) StringOr(key, def string) (string, error) {
	if _, ok := c.values[key]; !ok {
		return def, nil
	}
	return c.String(key)
}

// Bool returns the boolean stored under key.
func (c *Conf) Bool(key string) (bool, error) {
	v, err := c.Value(key)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s is %T, want bool", ErrWrongType, key, v)
	}
	return b, nil
}

// BoolOr returns the boolean under key, or def when the key is absent.
func (c *Conf) BoolOr(key string, def bool) (bool, error) {
	if _, ok := c.values[key]; !ok {
		return def, nil
	}
	return c.Bool(key)
}

// Require reports every key in keys that is absent, joined into one error.
func (c *Conf) Require(keys ...string) error {
	var errs []error
	for _, k := range keys {
		if _, ok := c.values[k]; !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingKey, k))
		}
	}
	return errors.Join(errs...)
}

// Map returns a deep copy of the configuration mapping.
func (c *Conf) Map() map[string]any {
	return cloneMap(c.values)
}

// Redacted returns a deep copy of the configuration with the values of
// sensitive keys (token, password, secret) masked at any depth.
func (c *Conf) Redacted() map[string]any {
	out := cloneMap(c.values)
	redactMap(out)
	return out
}

const redactedValue = "***"

func redactMap(m map[string]any) {
	for k, v := range m {
		if isSensitive(k) {
			m[k] = redactedValue
			continue
		}
		redactValue(v)
	}
}

func redactValue(v any) {
	switch t := v.(type) {
	case map[string]any:
		redactMap(t)
	case []any:
		for _, e := range t {
			redactValue(e)
		}
	}
}
