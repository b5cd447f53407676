// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/aclements/go-gg/table"
)

// LoadError is returned when a data source cannot be read or is not
// a well-formed dataset.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// A BadCell is a numeric cell that could not be parsed as a finite
// number.
type BadCell struct {
	Line   int // 1-based line in the source, counting the header
	State  string
	Column string
	Text   string
}

// DataIntegrityError is returned when numeric cells of a source
// cannot be parsed. Such a cell would otherwise be NaN and make every
// scale computed over its column meaningless.
type DataIntegrityError struct {
	Source string
	Cells  []BadCell
}

func (e *DataIntegrityError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%s: %d non-numeric cell", e.Source, len(e.Cells))
	if len(e.Cells) != 1 {
		buf.WriteString("s")
	}
	for i, c := range e.Cells {
		if i == 0 {
			buf.WriteString(": ")
		} else {
			buf.WriteString("; ")
		}
		fmt.Fprintf(&buf, "line %d (%s) %s=%q", c.Line, c.State, c.Column, c.Text)
	}
	return buf.String()
}

// LoadFile loads a dataset from the CSV file at path. If path is
// "-", it reads from standard input.
func LoadFile(path string) (*Dataset, error) {
	if path == "-" {
		return Load(os.Stdin, "<stdin>")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{path, err}
	}
	defer f.Close()
	return Load(f, path)
}

// Load reads a dataset in CSV format from r. source names r in
// errors.
//
// The first row must be a header naming at least the columns
// "state", "abbr", and the column of every Attr. Other columns are
// ignored. Load fails with a *LoadError if r cannot be read or is
// malformed and with a *DataIntegrityError if any numeric cell does
// not parse.
func Load(r io.Reader, source string) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, &LoadError{source, err}
	}
	if len(rows) == 0 {
		return nil, &LoadError{source, errors.New("missing header row")}
	}
	header := rows[0]
	seen := make(map[string]bool)
	for i, name := range header {
		name = strings.TrimSpace(name)
		if seen[name] {
			return nil, &LoadError{source, fmt.Errorf("duplicate column %q", name)}
		}
		seen[name] = true
		header[i] = name
	}
	if len(rows) == 1 {
		return nil, &LoadError{source, errors.New("no records")}
	}

	tab := table.TableFromStrings(header, rows[1:], false)
	column := func(name string) ([]string, error) {
		col := tab.Column(name)
		if col == nil {
			return nil, fmt.Errorf("missing column %q", name)
		}
		return col.([]string), nil
	}

	states, err := column("state")
	if err != nil {
		return nil, &LoadError{source, err}
	}
	abbrs, err := column("abbr")
	if err != nil {
		return nil, &LoadError{source, err}
	}
	recs := make([]Record, tab.Len())
	for i := range recs {
		recs[i].State = strings.TrimSpace(states[i])
		recs[i].Abbr = strings.TrimSpace(abbrs[i])
	}

	var bad []BadCell
	for a := Attr(0); a < NumAttrs; a++ {
		texts, err := column(a.String())
		if err != nil {
			return nil, &LoadError{source, err}
		}
		for i, text := range texts {
			v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
			// ParseFloat accepts "NaN" and "Inf", which have no
			// place on a scale.
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				v = math.NaN()
				bad = append(bad, BadCell{i + 2, recs[i].State, a.String(), text})
			}
			recs[i].Values[a] = v
		}
	}
	if bad != nil {
		return nil, &DataIntegrityError{source, bad}
	}
	return New(recs), nil
}
