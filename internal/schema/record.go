// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package schema

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
)

// Header is the first row of every schema archive.
var Header = []string{"variable", "type", "data_set"}

// Record is one column of one dataset in a schema archive.
type Record struct {
	Variable string
	Type     string
	DataSet  string
}

// Collect merges scopes in order (a later scope overrides an earlier one on
// name clashes), keeps the values implementing Dataset and returns one record
// per column, walking datasets in name order.
func Collect(scopes ...map[string]any) []Record {
	records, _ := collect(scopes...)
	return records
}

func collect(scopes ...map[string]any) ([]Record, []string) {
	merged := make(map[string]Dataset)
	for _, scope := range scopes {
		for name, v := range scope {
			if ds, ok := v.(Dataset); ok {
				merged[name] = ds
			} else {
				delete(merged, name)
			}
		}
	}

	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	var records []Record
	for _, name := range names {
		for _, col := range merged[name].Columns() {
			records = append(records, Record{Variable: col.Name, Type: col.Type, DataSet: name})
		}
	}
	return records, names
}

// WriteArchive writes records as a schema archive CSV, header first.
func WriteArchive(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write([]string{r.Variable, r.Type, r.DataSet}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadArchive parses a schema archive written by WriteArchive.
func ReadArchive(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read schema archive: missing header")
		}
		return nil, fmt.Errorf("read schema archive: %w", err)
	}
	for i, h := range Header {
		if header[i] != h {
			return nil, fmt.Errorf("read schema archive: unexpected header %v", header)
		}
	}

	var records []Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read schema archive: %w", err)
		}
		records = append(records, Record{Variable: row[0], Type: row[1], DataSet: row[2]})
	}
}
