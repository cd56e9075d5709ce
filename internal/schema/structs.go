// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package schema

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// FromStructs derives a frame from a slice (or array) of structs or struct
// pointers. Column names come from the `csv` struct tag, falling back to the
// field name; fields tagged `csv:"-"` and unexported fields are skipped.
// An empty slice still yields the column layout of its element type.
func FromStructs(rows any) (*Frame, error) {
	v := reflect.ValueOf(rows)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, fmt.Errorf("from structs: want slice of structs, got %T", rows)
	}

	elem := v.Type().Elem()
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct {
		return nil, fmt.Errorf("from structs: element type %s is not a struct", elem)
	}

	var cols []Column
	for i := 0; i < elem.NumField(); i++ {
		f := elem.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("csv"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		cols = append(cols, Column{Name: name, Type: dtypeOf(f.Type)})
	}

	return &Frame{columns: cols, rows: v.Len()}, nil
}

// dtypeOf maps a Go type to the dtype a dataframe would assign the same data.
// Nullable (pointer) integers widen to float64 and nullable bools to object.
func dtypeOf(t reflect.Type) string {
	nullable := false
	if t.Kind() == reflect.Pointer {
		nullable = true
		t = t.Elem()
	}
	if t == timeType {
		return DtypeDatetime
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if nullable {
			return DtypeFloat64
		}
		if t.Kind() == reflect.Int {
			return DtypeInt64
		}
		return fmt.Sprintf("int%d", t.Bits())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if nullable {
			return DtypeFloat64
		}
		if t.Kind() == reflect.Uint {
			return "uint64"
		}
		return fmt.Sprintf("uint%d", t.Bits())
	case reflect.Float32:
		return "float32"
	case reflect.Float64:
		return DtypeFloat64
	case reflect.Bool:
		if nullable {
			return DtypeObject
		}
		return DtypeBool
	default:
		return DtypeObject
	}
}
