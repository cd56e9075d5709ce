// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package schema

import (
	"strconv"
	"strings"
)

// missingMarkers are the cell values treated as missing data.
var missingMarkers = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

func isMissing(cell string) bool {
	_, ok := missingMarkers[cell]
	return ok
}

// inferColumn picks the narrowest dtype that fits every present cell of
// column i. Integers with gaps widen to float64 and booleans with gaps fall
// back to object, matching dataframe semantics. A column whose rows are all
// missing is float64; with no rows at all nothing is known and it is object.
func inferColumn(rows [][]string, i int) string {
	if len(rows) == 0 {
		return DtypeObject
	}
	allInt, allFloat, allBool := true, true, true
	present, missing := 0, 0

	for _, row := range rows {
		if i >= len(row) || isMissing(row[i]) {
			missing++
			continue
		}
		cell := strings.TrimSpace(row[i])
		present++
		if allInt && !isInt(cell) {
			allInt = false
		}
		if allFloat && !isFloat(cell) {
			allFloat = false
		}
		if allBool && !isBool(cell) {
			allBool = false
		}
		if !allInt && !allFloat && !allBool {
			return DtypeObject
		}
	}

	switch {
	case present == 0:
		return DtypeFloat64
	case allInt && missing == 0:
		return DtypeInt64
	case allInt || allFloat:
		return DtypeFloat64
	case allBool && missing == 0:
		return DtypeBool
	default:
		return DtypeObject
	}
}

func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func isFloat(s string) bool {
	if strings.HasPrefix(strings.TrimLeft(s, "+-"), "0x") || strings.Contains(s, "_") {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func isBool(s string) bool {
	switch s {
	case "True", "False", "true", "false", "TRUE", "FALSE":
		return true
	}
	return false
}
