// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package schema

import (
	"sort"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Retype is a column present in both archives with a different type.
type Retype struct {
	DataSet  string
	Variable string
	From     string
	To       string
}

// Drift summarises schema changes between two archives.
type Drift struct {
	Added   []Record
	Removed []Record
	Retyped []Retype
}

// Empty reports whether the archives describe the same schema.
func (d Drift) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Retyped) == 0
}

type columnKey struct {
	dataSet  string
	variable string
}

// Compare reports added, removed and retyped columns between prev and cur.
// Row order is irrelevant. Results are sorted by data set, then variable.
func Compare(prev, cur []Record) Drift {
	before := index(prev)
	after := index(cur)

	var d Drift
	for k, r := range after {
		old, ok := before[k]
		switch {
		case !ok:
			d.Added = append(d.Added, r)
		case old.Type != r.Type:
			d.Retyped = append(d.Retyped, Retype{DataSet: k.dataSet, Variable: k.variable, From: old.Type, To: r.Type})
		}
	}
	for k, r := range before {
		if _, ok := after[k]; !ok {
			d.Removed = append(d.Removed, r)
		}
	}

	sortRecords(d.Added)
	sortRecords(d.Removed)
	sort.Slice(d.Retyped, func(i, j int) bool {
		if d.Retyped[i].DataSet != d.Retyped[j].DataSet {
			return d.Retyped[i].DataSet < d.Retyped[j].DataSet
		}
		return d.Retyped[i].Variable < d.Retyped[j].Variable
	})
	return d
}

// Diff renders an order-insensitive, human-readable diff of two archives
// (-prev +cur). It is empty when the archives match.
func Diff(prev, cur []Record) string {
	return cmp.Diff(prev, cur, cmpopts.SortSlices(lessRecord), cmpopts.EquateEmpty())
}

func index(records []Record) map[columnKey]Record {
	m := make(map[columnKey]Record, len(records))
	for _, r := range records {
		m[columnKey{dataSet: r.DataSet, variable: r.Variable}] = r
	}
	return m
}

func lessRecord(a, b Record) bool {
	if a.DataSet != b.DataSet {
		return a.DataSet < b.DataSet
	}
	if a.Variable != b.Variable {
		return a.Variable < b.Variable
	}
	return a.Type < b.Type
}

func sortRecords(rs []Record) {
	sort.Slice(rs, func(i, j int) bool { return lessRecord(rs[i], rs[j]) })
}
