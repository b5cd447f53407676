// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"fmt"

	"github.com/aclements/censusplot/dataset"
)

// ViewState is the pair of attributes currently plotted.
type ViewState struct {
	X, Y dataset.Attr
}

// Get returns the attribute selected for dimension d.
func (v ViewState) Get(d dataset.Dim) dataset.Attr {
	if d == dataset.Y {
		return v.Y
	}
	return v.X
}

// With returns v with dimension d set to a.
func (v ViewState) With(d dataset.Dim, a dataset.Attr) ViewState {
	if d == dataset.Y {
		v.Y = a
	} else {
		v.X = a
	}
	return v
}

// Validate checks that X and Y are selectable for their dimensions.
func (v ViewState) Validate() error {
	if !v.X.In(dataset.X) {
		return &dataset.UnknownAttributeError{Name: v.X.String(), Dim: dataset.X}
	}
	if !v.Y.In(dataset.Y) {
		return &dataset.UnknownAttributeError{Name: v.Y.String(), Dim: dataset.Y}
	}
	return nil
}

func (v ViewState) String() string {
	return fmt.Sprintf("x=%v y=%v", v.X, v.Y)
}
