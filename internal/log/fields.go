// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRunID     = "run_id"
	FieldBatchName = "batch_name"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldStep      = "step"

	// Data fields
	FieldDataSet = "data_set"
	FieldColumns = "columns"

	// Path fields
	FieldPath         = "path"
	FieldTemplatePath = "template_path"
	FieldOutputPath   = "output_path"
)
