// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"io"

	"github.com/aclements/censusplot/dataset"
	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
)

// WriteStaticSVG writes a non-animated snapshot of ds plotted for vs
// as an SVG document. Axis bounds match the scales an interactive
// chart would use. Points are tagged with state abbreviations and
// carry the same tooltip text.
func WriteStaticSVG(w io.Writer, ds *dataset.Dataset, vs ViewState, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	tmpl, err := NewTooltipTemplate(vs)
	if err != nil {
		return err
	}

	tab := ds.Table()
	tips := make([]string, ds.Len())
	for i := range tips {
		rec := ds.Record(i)
		tips[i] = tmpl.Content(&rec).String()
	}
	b := new(table.Builder)
	for _, col := range tab.Columns() {
		b.Add(col, tab.Column(col))
	}
	tab = b.Add("tooltip", tips).Done()

	xs := BuildScale(ds, vs.X, 1, false)
	ys := BuildScale(ds, vs.Y, 1, false)
	xlo, xhi := xs.Domain()
	ylo, yhi := ys.Domain()

	x, y := vs.X.String(), vs.Y.String()
	plot := gg.NewPlot(tab)
	plot.SetScale("x", gg.NewLinearScaler().SetMin(xlo).SetMax(xhi))
	plot.SetScale("y", gg.NewLinearScaler().SetMin(ylo).SetMax(yhi))
	plot.Add(gg.LayerPoints{X: x, Y: y})
	plot.Add(gg.LayerTags{X: x, Y: y, Label: "abbr"})
	plot.Add(gg.LayerTooltips{X: x, Y: y, Label: "tooltip"})
	plot.Add(gg.AxisLabel("x", vs.X.Descriptor().Label))
	plot.Add(gg.AxisLabel("y", vs.Y.Descriptor().Label))
	return plot.WriteSVG(w, int(cfg.Width), int(cfg.Height))
}
