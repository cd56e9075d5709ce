// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package schema

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// utf8BOM prefixes spreadsheet exports and is not part of the first column name.
const utf8BOM = "\ufeff"

// ReadCSV reads a header row plus data rows and returns the inferred frame.
// Rows may be ragged; short rows count as missing cells. A leading UTF-8
// byte order mark is dropped.
func ReadCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read csv header: empty input")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	var rows [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, rec)
	}
	return NewFrame(header, rows), nil
}
