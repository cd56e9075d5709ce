// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package schema

import "strconv"

// Dtype names recorded in schema archives.
const (
	DtypeInt64    = "int64"
	DtypeFloat64  = "float64"
	DtypeBool     = "bool"
	DtypeObject   = "object"
	DtypeDatetime = "datetime64[ns]"
)

// Column is one named, typed column of a dataset.
type Column struct {
	Name string
	Type string
}

// Dataset is anything whose column layout can be archived.
type Dataset interface {
	Columns() []Column
}

// Frame is the schema view of a tabular dataset: its columns and row count.
type Frame struct {
	columns []Column
	rows    int
}

// NewFrameFromColumns builds a frame from an explicit column list.
func NewFrameFromColumns(columns []Column, rows int) *Frame {
	cols := make([]Column, len(columns))
	copy(cols, columns)
	return &Frame{columns: cols, rows: rows}
}

// NewFrame builds a frame from a header and string cells, inferring each
// column's dtype the way CSV readers do. Duplicate header names are made
// unique by appending ".1", ".2", and so on.
func NewFrame(header []string, rows [][]string) *Frame {
	names := dedupe(header)
	cols := make([]Column, len(names))
	for i, name := range names {
		cols[i] = Column{Name: name, Type: inferColumn(rows, i)}
	}
	return &Frame{columns: cols, rows: len(rows)}
}

// Columns implements Dataset. A nil frame has no columns.
func (f *Frame) Columns() []Column {
	if f == nil {
		return nil
	}
	out := make([]Column, len(f.columns))
	copy(out, f.columns)
	return out
}

// Rows returns the number of data rows the frame was built from.
func (f *Frame) Rows() int {
	if f == nil {
		return 0
	}
	return f.rows
}

// Normalized returns a copy with every column name passed through
// NormalizeColumnName.
func (f *Frame) Normalized() *Frame {
	cols := f.Columns()
	for i := range cols {
		cols[i].Name = NormalizeColumnName(cols[i].Name)
	}
	return &Frame{columns: cols, rows: f.Rows()}
}

func dedupe(header []string) []string {
	seen := make(map[string]int, len(header))
	out := make([]string, len(header))
	for i, name := range header {
		n, dup := seen[name]
		seen[name] = n + 1
		if !dup {
			out[i] = name
			continue
		}
		candidate := name + "." + strconv.Itoa(n)
		for {
			if _, taken := seen[candidate]; !taken {
				break
			}
			n++
			candidate = name + "." + strconv.Itoa(n)
		}
		seen[name] = n + 1
		seen[candidate] = 1
		out[i] = candidate
	}
	return out
}
