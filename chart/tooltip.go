// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"github.com/aclements/censusplot/dataset"
	"github.com/aclements/censusplot/render"
)

// A TooltipTemplate formats the tooltip of a record for one pair of
// selected attributes.
type TooltipTemplate struct {
	// Offset is copied to each tooltip.
	Offset float64

	vs     ViewState
	xd, yd *dataset.Descriptor
}

// NewTooltipTemplate returns the template for the attributes in vs.
func NewTooltipTemplate(vs ViewState) (*TooltipTemplate, error) {
	xd, err := dataset.Describe(dataset.X, vs.X)
	if err != nil {
		return nil, err
	}
	yd, err := dataset.Describe(dataset.Y, vs.Y)
	if err != nil {
		return nil, err
	}
	return &TooltipTemplate{vs: vs, xd: xd, yd: yd}, nil
}

// Content returns the tooltip for rec. It is headed by the state name
// and has one line for each selected attribute.
func (t *TooltipTemplate) Content(rec *dataset.Record) render.Tooltip {
	return render.Tooltip{
		Title: rec.State,
		Lines: []string{
			t.xd.Format(rec.Value(t.vs.X)),
			t.yd.Format(rec.Value(t.vs.Y)),
		},
		Offset: t.Offset,
	}
}
