// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package batch

import (
	"strings"
	"time"
)

// TimestampLayout is the UTC, second-precision ISO-8601 layout used in batch names.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Name formats a batch name from its parts. t is converted to UTC and
// truncated to the second.
func Name(prefix, modelChoice string, t time.Time) string {
	ts := t.UTC().Truncate(time.Second).Format(TimestampLayout)
	return strings.Join([]string{prefix, modelChoice, ts}, "_")
}
