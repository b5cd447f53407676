// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dataset holds the per-state records plotted by censusplot.
//
// A Dataset is loaded once from a CSV file and never changes
// afterward. Each Record carries a display name, a short label, and
// one value for every selectable Attr.
package dataset

import (
	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
)

// A Record is one plotted state.
type Record struct {
	// State is the display name, shown as the tooltip header.
	State string

	// Abbr is the short label drawn on the point.
	Abbr string

	// Values is indexed by Attr.
	Values [NumAttrs]float64
}

// Value returns r's value for attribute a.
func (r *Record) Value(a Attr) float64 {
	return r.Values[a]
}

// A Dataset is an ordered, immutable sequence of Records.
type Dataset struct {
	recs []Record
	tab  *table.Table
}

// New returns a Dataset of recs. The Dataset keeps its own copy.
func New(recs []Record) *Dataset {
	recs = append([]Record(nil), recs...)

	states := make([]string, len(recs))
	abbrs := make([]string, len(recs))
	cols := make([][]float64, NumAttrs)
	for a := range cols {
		cols[a] = make([]float64, len(recs))
	}
	for i := range recs {
		states[i] = recs[i].State
		abbrs[i] = recs[i].Abbr
		for a, v := range recs[i].Values {
			cols[a][i] = v
		}
	}

	b := new(table.Builder).Add("state", states).Add("abbr", abbrs)
	for a, col := range cols {
		b.Add(Attr(a).String(), col)
	}
	return &Dataset{recs, b.Done()}
}

// Len returns the number of records in d.
func (d *Dataset) Len() int {
	return len(d.recs)
}

// Record returns the i'th record of d.
func (d *Dataset) Record(i int) Record {
	return d.recs[i]
}

// Records returns a copy of all records of d in order.
func (d *Dataset) Records() []Record {
	return append([]Record(nil), d.recs...)
}

// Column returns a fresh slice of the values of attribute a, in
// record order.
func (d *Dataset) Column(a Attr) []float64 {
	var xs []float64
	slice.Convert(&xs, d.tab.MustColumn(a.String()))
	return append([]float64(nil), xs...)
}

// Index returns the index of the record with the given abbreviation,
// or -1 if there is none.
func (d *Dataset) Index(abbr string) int {
	for i := range d.recs {
		if d.recs[i].Abbr == abbr {
			return i
		}
	}
	return -1
}

// Table returns d as a table with a "state" column, an "abbr" column,
// and one float64 column per Attr named by Attr.String.
func (d *Dataset) Table() *table.Table {
	return d.tab
}
