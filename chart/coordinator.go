// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"fmt"

	"github.com/aclements/censusplot/dataset"
	"github.com/aclements/censusplot/render"
	"github.com/aclements/go-moremath/vec"
)

// A Control is one selectable label in a legend.
type Control struct {
	Attr   dataset.Attr
	Handle render.Handle
}

// A Legend is the group of controls for one dimension.
type Legend struct {
	Dim      dataset.Dim
	Group    render.Handle
	Controls []Control
}

// Control returns the handle of a's control.
func (l *Legend) Control(a dataset.Attr) (render.Handle, bool) {
	for _, c := range l.Controls {
		if c.Attr == a {
			return c.Handle, true
		}
	}
	return 0, false
}

// A View holds the entities created by InitialRender.
type View struct {
	// Chart is the group holding the plot area. It is translated
	// by the top and left margins.
	Chart render.Handle

	// Points and Labels hold the circle and text entity of each
	// record, in dataset order.
	Points, Labels []render.Handle

	XAxis, YAxis render.Handle

	Legends [2]Legend

	// XScale and YScale are the scales of the initial render.
	XScale, YScale Scale
}

// Axis returns the axis entity of dimension d.
func (v *View) Axis(d dataset.Dim) render.Handle {
	if d == dataset.Y {
		return v.YAxis
	}
	return v.XAxis
}

// Legend returns the legend of dimension d.
func (v *View) Legend(d dataset.Dim) *Legend {
	return &v.Legends[d]
}

// A Coordinator draws a dataset as a scatter plot through a
// render.Backend and keeps the drawing in step with the selected
// attributes.
type Coordinator struct {
	b    render.Backend
	ds   *dataset.Dataset
	cfg  *Config
	view *View
}

// NewCoordinator returns a Coordinator that draws ds through b. If
// cfg is nil, DefaultConfig is used.
func NewCoordinator(b render.Backend, ds *dataset.Dataset, cfg *Config) (*Coordinator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Coordinator{b: b, ds: ds, cfg: cfg}, nil
}

// Backend returns the backend co draws through.
func (co *Coordinator) Backend() render.Backend { return co.b }

// Dataset returns the dataset co draws.
func (co *Coordinator) Dataset() *dataset.Dataset { return co.ds }

// Config returns co's configuration.
func (co *Coordinator) Config() *Config { return co.cfg }

// Scale builds the scale of attribute a for dimension d.
func (co *Coordinator) Scale(d dataset.Dim, a dataset.Attr) Scale {
	if d == dataset.Y {
		return BuildScale(co.ds, a, co.cfg.PlotHeight(), true)
	}
	return BuildScale(co.ds, a, co.cfg.PlotWidth(), false)
}

// InitialRender creates every entity of the chart for view state vs
// and returns their handles. It may be called only once.
func (co *Coordinator) InitialRender(vs ViewState) (*View, error) {
	if co.view != nil {
		return nil, fmt.Errorf("chart already rendered")
	}
	if err := vs.Validate(); err != nil {
		return nil, err
	}
	b, cfg := co.b, co.cfg
	v := &View{
		XScale: co.Scale(dataset.X, vs.X),
		YScale: co.Scale(dataset.Y, vs.Y),
	}

	v.Chart = b.Create(b.Root(), render.Group, "chart")
	b.SetAttrs(v.Chart, render.Attrs{"x": cfg.Margin.Left, "y": cfg.Margin.Top})

	n := co.ds.Len()
	xs := vec.Map(v.XScale.Map, co.ds.Column(vs.X))
	ys := vec.Map(v.YScale.Map, co.ds.Column(vs.Y))
	v.Points = make([]render.Handle, n)
	for i := range v.Points {
		h := b.Create(v.Chart, render.Circle, "stateCircle")
		b.SetAttrs(h, render.Attrs{"cx": xs[i], "cy": ys[i], "r": cfg.PointRadius, "opacity": cfg.PointOpacity})
		v.Points[i] = h
	}
	v.Labels = make([]render.Handle, n)
	for i := range v.Labels {
		h := b.Create(v.Chart, render.Text, "stateText")
		b.SetText(h, co.ds.Record(i).Abbr)
		b.SetAttrs(h, render.Attrs{"x": xs[i], "y": ys[i], "dy": cfg.LabelDY, "font-size": cfg.LabelSize})
		v.Labels[i] = h
	}

	v.XAxis = b.CreateAxis(v.Chart, render.Bottom, v.XScale)
	b.Classed(v.XAxis, "x-axis", true)
	b.SetAttrs(v.XAxis, render.Attrs{"y": cfg.PlotHeight()})
	v.YAxis = b.CreateAxis(v.Chart, render.Left, v.YScale)
	b.Classed(v.YAxis, "y-axis", true)

	// The horizontal legend sits centered below the x axis with
	// controls stacked downward. The vertical legend is rotated
	// to read along the y axis with controls stacked toward it.
	sp := cfg.LegendSpacing
	xl := &v.Legends[dataset.X]
	xl.Dim = dataset.X
	xl.Group = b.Create(v.Chart, render.Group, "aText")
	b.SetAttrs(xl.Group, render.Attrs{"x": cfg.PlotWidth() / 2, "y": cfg.PlotHeight() + 20})
	for i, a := range dataset.Attrs(dataset.X) {
		h := co.legendControl(xl.Group, a)
		b.SetAttrs(h, render.Attrs{"x": 0, "y": sp * float64(i+1)})
		xl.Controls = append(xl.Controls, Control{a, h})
	}

	yl := &v.Legends[dataset.Y]
	yl.Dim = dataset.Y
	yl.Group = b.Create(v.Chart, render.Group, "aText")
	b.SetAttrs(yl.Group, render.Attrs{"rotate": -90})
	yattrs := dataset.Attrs(dataset.Y)
	for i, a := range yattrs {
		h := co.legendControl(yl.Group, a)
		b.SetAttrs(h, render.Attrs{"x": -cfg.PlotHeight() / 2, "y": -cfg.Margin.Left + sp*float64(len(yattrs)-i)})
		yl.Controls = append(yl.Controls, Control{a, h})
	}

	co.view = v
	for d := dataset.X; d <= dataset.Y; d++ {
		if err := co.SetActiveLegendControl(d, vs.Get(d)); err != nil {
			return nil, err
		}
	}
	if err := co.RebindTooltips(v.Points, v.Labels, vs.X, vs.Y); err != nil {
		return nil, err
	}
	return v, nil
}

func (co *Coordinator) legendControl(parent render.Handle, a dataset.Attr) render.Handle {
	h := co.b.Create(parent, render.Text, "inactive")
	co.b.SetText(h, a.Descriptor().Label)
	return h
}

// UpdateAxis rebinds axis to s, animating the change. It returns
// axis.
func (co *Coordinator) UpdateAxis(d dataset.Dim, s Scale, axis render.Handle) render.Handle {
	co.b.TransitionAxis(axis, co.cfg.AxisDuration, s)
	return axis
}

// UpdatePositions starts moving each point and its label to the
// position of its record under scales sx and sy for attributes kx and
// ky. points and labels must be in dataset order.
func (co *Coordinator) UpdatePositions(points, labels []render.Handle, sx, sy Scale, kx, ky dataset.Attr) error {
	if err := co.checkEntities(points, labels); err != nil {
		return err
	}
	if sx.Attr() != kx || sy.Attr() != ky {
		return fmt.Errorf("scales for %v and %v do not match attributes %v and %v", sx.Attr(), sy.Attr(), kx, ky)
	}
	xs := vec.Map(sx.Map, co.ds.Column(kx))
	ys := vec.Map(sy.Map, co.ds.Column(ky))
	d := co.cfg.PointDuration
	for i := range points {
		co.b.Transition(points[i], d, render.Attrs{"cx": xs[i], "cy": ys[i]})
	}
	for i := range labels {
		co.b.Transition(labels[i], d, render.Attrs{"x": xs[i], "y": ys[i]})
	}
	return nil
}

// checkEntities checks that there is one point and one label per
// record.
func (co *Coordinator) checkEntities(points, labels []render.Handle) error {
	n := co.ds.Len()
	if len(points) != n || len(labels) != n {
		return fmt.Errorf("have %d points and %d labels for %d records", len(points), len(labels), n)
	}
	return nil
}

// RebindTooltips replaces the tooltip of each point and label with
// one describing attributes kx and ky.
func (co *Coordinator) RebindTooltips(points, labels []render.Handle, kx, ky dataset.Attr) error {
	tmpl, err := NewTooltipTemplate(ViewState{kx, ky})
	if err != nil {
		return err
	}
	tmpl.Offset = co.cfg.TooltipOffset
	if err := co.checkEntities(points, labels); err != nil {
		return err
	}
	for _, hs := range [][]render.Handle{points, labels} {
		for i, h := range hs {
			rec := co.ds.Record(i)
			co.b.UnbindTooltip(h)
			co.b.BindTooltip(h, func() render.Tooltip {
				return tmpl.Content(&rec)
			})
		}
	}
	return nil
}

// SetActiveLegendControl marks a's control active and every other
// control in d's legend inactive.
func (co *Coordinator) SetActiveLegendControl(d dataset.Dim, a dataset.Attr) error {
	if co.view == nil {
		return fmt.Errorf("chart not rendered")
	}
	if !a.In(d) {
		return &dataset.UnknownAttributeError{Name: a.String(), Dim: d}
	}
	for _, c := range co.view.Legend(d).Controls {
		on := c.Attr == a
		co.b.Classed(c.Handle, "active", on)
		co.b.Classed(c.Handle, "inactive", !on)
	}
	return nil
}
