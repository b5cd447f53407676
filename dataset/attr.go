// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Dim is a chart dimension. Every Attr belongs to exactly one Dim.
type Dim int

const (
	X Dim = iota // horizontal
	Y            // vertical

	// NoDim is used in errors that are not specific to a dimension.
	NoDim Dim = -1
)

func (d Dim) String() string {
	switch d {
	case X:
		return "x"
	case Y:
		return "y"
	}
	return fmt.Sprintf("Dim(%d)", int(d))
}

// Attr identifies one of the numeric attributes of a Record that can
// be selected for an axis.
type Attr int

const (
	Poverty Attr = iota
	Age
	Income
	Healthcare
	Smokes
	Obesity

	// NumAttrs is the number of selectable attributes.
	NumAttrs
)

// A Descriptor gives the fixed presentation of an Attr.
type Descriptor struct {
	// Name is the CSV column holding the attribute.
	Name string

	// Dim is the axis this attribute may be selected for.
	Dim Dim

	// Label is the text of the attribute's legend control.
	Label string

	// TooltipLabel, Prefix, and Suffix format a value in a
	// tooltip as "TooltipLabel: Prefix<value>Suffix".
	TooltipLabel   string
	Prefix, Suffix string
}

// Format formats v for display in a tooltip.
func (d *Descriptor) Format(v float64) string {
	return d.TooltipLabel + ": " + d.Prefix + strconv.FormatFloat(v, 'f', -1, 64) + d.Suffix
}

var descriptors = [NumAttrs]Descriptor{
	Poverty:    {Name: "poverty", Dim: X, Label: "In Poverty (%)", TooltipLabel: "In Poverty", Suffix: "%"},
	Age:        {Name: "age", Dim: X, Label: "Age (Years | Median)", TooltipLabel: "Age", Suffix: " y.o."},
	Income:     {Name: "income", Dim: X, Label: "Household Income ($ | Median)", TooltipLabel: "Household Income", Prefix: "$"},
	Healthcare: {Name: "healthcare", Dim: Y, Label: "Lacks Healthcare (%)", TooltipLabel: "Lacks Healthcare", Suffix: "%"},
	Smokes:     {Name: "smokes", Dim: Y, Label: "Smokes (%)", TooltipLabel: "Smokes", Suffix: "%"},
	Obesity:    {Name: "obesity", Dim: Y, Label: "Obese (%)", TooltipLabel: "Obesity", Suffix: "%"},
}

// Valid reports whether a is one of the declared attributes.
func (a Attr) Valid() bool {
	return 0 <= a && a < NumAttrs
}

// In reports whether a may be selected for dimension d.
func (a Attr) In(d Dim) bool {
	return a.Valid() && descriptors[a].Dim == d
}

func (a Attr) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Attr(%d)", int(a))
	}
	return descriptors[a].Name
}

// Descriptor returns the descriptor of a. It panics if a is not
// valid; use Describe to check.
func (a Attr) Descriptor() *Descriptor {
	return &descriptors[a]
}

// Describe returns the descriptor of a, which must be selectable for
// dimension d. If d is NoDim, any valid attribute is accepted.
func Describe(d Dim, a Attr) (*Descriptor, error) {
	if !a.Valid() || (d != NoDim && !a.In(d)) {
		return nil, &UnknownAttributeError{Name: a.String(), Dim: d}
	}
	return &descriptors[a], nil
}

// Attrs returns the attributes selectable for dimension d in legend
// order.
func Attrs(d Dim) []Attr {
	var out []Attr
	for a := Attr(0); a < NumAttrs; a++ {
		if descriptors[a].Dim == d {
			out = append(out, a)
		}
	}
	return out
}

// Parse returns the attribute with the given column name. If d is not
// NoDim, the attribute must also be selectable for d.
func Parse(d Dim, name string) (Attr, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a := Attr(0); a < NumAttrs; a++ {
		if descriptors[a].Name != name {
			continue
		}
		if d != NoDim && descriptors[a].Dim != d {
			break
		}
		return a, nil
	}
	return 0, &UnknownAttributeError{Name: name, Dim: d}
}

// UnknownAttributeError is returned when an attribute is not one of
// the declared attributes for a dimension.
type UnknownAttributeError struct {
	Name string
	Dim  Dim
}

func (e *UnknownAttributeError) Error() string {
	if e.Dim == NoDim {
		return fmt.Sprintf("unknown attribute %q", e.Name)
	}
	return fmt.Sprintf("unknown %s attribute %q", e.Dim, e.Name)
}
