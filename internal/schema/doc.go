// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package schema archives the column layout of the datasets a batch step
// produced.
//
// Any value implementing Dataset can be archived. Archive takes one or more
// name→value scopes, keeps the values that are datasets and writes one
// (variable, type, data_set) row per column to
// <output_folder>/schemas/<step>.csv. Type names use dataframe dtype
// vocabulary (int64, float64, bool, object, datetime64[ns]) so archives line
// up with what downstream notebooks report.
package schema
