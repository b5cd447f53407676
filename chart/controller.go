// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/aclements/censusplot/dataset"
)

// Warning is a logger for reporting errors that cannot be returned to
// a caller, such as a failed selection from a click.
var Warning = log.New(os.Stderr, "[chart] ", log.Lshortfile)

// ErrUpdating is returned by Select when called while another
// selection is being applied.
var ErrUpdating = errors.New("selection already in progress")

// State is the state of a Controller.
type State int

const (
	Idle State = iota
	Updating
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Updating:
		return "updating"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// A Controller applies attribute selections to a chart. It owns the
// view state and the current scales and drives the Coordinator so
// that points, axes, tooltips, and legends always reflect the same
// selection.
type Controller struct {
	co     *Coordinator
	view   *View
	vs     ViewState
	scales [2]Scale
	state  State
}

// NewController renders the chart for vs and subscribes to clicks on
// its legend controls.
func NewController(co *Coordinator, vs ViewState) (*Controller, error) {
	view, err := co.InitialRender(vs)
	if err != nil {
		return nil, err
	}
	c := &Controller{
		co:     co,
		view:   view,
		vs:     vs,
		scales: [2]Scale{view.XScale, view.YScale},
	}
	for _, leg := range view.Legends {
		for _, ctl := range leg.Controls {
			d, a := leg.Dim, ctl.Attr
			co.b.OnClick(ctl.Handle, func() {
				if _, err := c.Select(d, a); err != nil {
					Warning.Printf("selecting %v %v: %v", d, a, err)
				}
			})
		}
	}
	return c, nil
}

// Select makes a the selected attribute of dimension d. It reports
// whether the selection changed. Selecting the current attribute does
// nothing.
//
// The axis and points of d start animating to their new positions
// and the tooltips and legend are updated before Select returns. The
// other dimension is not touched. If Select returns an error with
// changed == false, neither c nor the chart was modified.
func (c *Controller) Select(d dataset.Dim, a dataset.Attr) (changed bool, err error) {
	if !a.In(d) {
		return false, &dataset.UnknownAttributeError{Name: a.String(), Dim: d}
	}
	if c.state == Updating {
		return false, ErrUpdating
	}
	if c.vs.Get(d) == a {
		return false, nil
	}
	// Nothing is changed unless every update step can be applied.
	if err := c.co.checkEntities(c.view.Points, c.view.Labels); err != nil {
		return false, err
	}

	c.state = Updating
	defer func() { c.state = Idle }()

	c.vs = c.vs.With(d, a)
	c.scales[d] = c.co.Scale(d, a)
	c.co.UpdateAxis(d, c.scales[d], c.view.Axis(d))
	if err := c.co.UpdatePositions(c.view.Points, c.view.Labels, c.scales[dataset.X], c.scales[dataset.Y], c.vs.X, c.vs.Y); err != nil {
		return true, fmt.Errorf("moving points: %w", err)
	}
	if err := c.co.RebindTooltips(c.view.Points, c.view.Labels, c.vs.X, c.vs.Y); err != nil {
		return true, fmt.Errorf("binding tooltips: %w", err)
	}
	if err := c.co.SetActiveLegendControl(d, a); err != nil {
		return true, fmt.Errorf("updating legend: %w", err)
	}
	return true, nil
}

// SelectName is like Select, but takes the attribute by name.
func (c *Controller) SelectName(d dataset.Dim, name string) (bool, error) {
	a, err := dataset.Parse(d, name)
	if err != nil {
		return false, err
	}
	return c.Select(d, a)
}

// ViewState returns the current selection.
func (c *Controller) ViewState() ViewState {
	return c.vs
}

// Scale returns the current scale of dimension d.
func (c *Controller) Scale(d dataset.Dim) Scale {
	return c.scales[d]
}

// State returns whether c is applying a selection.
func (c *Controller) State() State {
	return c.state
}

// View returns the entities of the chart.
func (c *Controller) View() *View {
	return c.view
}
