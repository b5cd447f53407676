// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aclements/censusplot/dataset"
	"github.com/aclements/censusplot/render"
	"github.com/aclements/censusplot/scene"
)

// twoStates has poverty [10, 20] and healthcare [5, 15].
func twoStates() *dataset.Dataset {
	return dataset.New([]dataset.Record{
		{State: "Alabama", Abbr: "AL", Values: [dataset.NumAttrs]float64{
			dataset.Poverty: 10, dataset.Age: 30, dataset.Income: 40000,
			dataset.Healthcare: 5, dataset.Smokes: 20, dataset.Obesity: 30,
		}},
		{State: "Alaska", Abbr: "AK", Values: [dataset.NumAttrs]float64{
			dataset.Poverty: 20, dataset.Age: 40, dataset.Income: 60000,
			dataset.Healthcare: 15, dataset.Smokes: 25, dataset.Obesity: 35,
		}},
	})
}

// recorder is a Backend that logs the mutating calls made through it
// after it is armed.
type recorder struct {
	*scene.Scene
	armed bool
	ops   []string

	// onAxis, if non-nil, is called from TransitionAxis.
	onAxis func()
}

func (r *recorder) log(op string) {
	if r.armed {
		r.ops = append(r.ops, op)
	}
}

func (r *recorder) Classed(h render.Handle, class string, on bool) {
	r.log("Classed")
	r.Scene.Classed(h, class, on)
}

func (r *recorder) Transition(h render.Handle, d time.Duration, attrs render.Attrs) {
	r.log("Transition")
	r.Scene.Transition(h, d, attrs)
}

func (r *recorder) TransitionAxis(h render.Handle, d time.Duration, m render.Mapper) {
	r.log("TransitionAxis")
	if r.onAxis != nil {
		r.onAxis()
	}
	r.Scene.TransitionAxis(h, d, m)
}

func (r *recorder) BindTooltip(h render.Handle, content func() render.Tooltip) {
	r.log("BindTooltip")
	r.Scene.BindTooltip(h, content)
}

func (r *recorder) UnbindTooltip(h render.Handle) {
	r.log("UnbindTooltip")
	r.Scene.UnbindTooltip(h)
}

func newTestController(t *testing.T, b render.Backend) *Controller {
	t.Helper()
	co, err := NewCoordinator(b, twoStates(), nil)
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewController(co, DefaultConfig().ViewState())
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// checkConsistent checks that every part of the chart reflects c's
// view state once transitions have settled.
func checkConsistent(t *testing.T, s *scene.Scene, c *Controller) {
	t.Helper()
	vs, view, ds := c.ViewState(), c.View(), c.co.ds
	for d := dataset.X; d <= dataset.Y; d++ {
		sc := c.Scale(d)
		if sc.Attr() != vs.Get(d) {
			t.Errorf("%v scale is for %v, view state has %v", d, sc.Attr(), vs.Get(d))
		}
		if want := c.co.Scale(d, vs.Get(d)); sc != want {
			t.Errorf("%v scale is %v, want %v", d, sc, want)
		}
		if m := s.AxisMapper(view.Axis(d)); m != render.Mapper(sc) {
			t.Errorf("%v axis bound to %v, want %v", d, m, sc)
		}
		var active []dataset.Attr
		for _, ctl := range view.Legend(d).Controls {
			if s.HasClass(ctl.Handle, "active") {
				active = append(active, ctl.Attr)
				if s.HasClass(ctl.Handle, "inactive") {
					t.Errorf("%v control is both active and inactive", ctl.Attr)
				}
			} else if !s.HasClass(ctl.Handle, "inactive") {
				t.Errorf("%v control is neither active nor inactive", ctl.Attr)
			}
		}
		if len(active) != 1 || active[0] != vs.Get(d) {
			t.Errorf("%v legend active controls are %v, want [%v]", d, active, vs.Get(d))
		}
	}

	tmpl, err := NewTooltipTemplate(vs)
	if err != nil {
		t.Fatal(err)
	}
	sx, sy := c.Scale(dataset.X), c.Scale(dataset.Y)
	for i := 0; i < ds.Len(); i++ {
		rec := ds.Record(i)
		x, y := sx.Map(rec.Value(vs.X)), sy.Map(rec.Value(vs.Y))
		p, l := view.Points[i], view.Labels[i]
		if s.Target(p, "cx") != x || s.Target(p, "cy") != y {
			t.Errorf("%s point at (%v, %v), want (%v, %v)", rec.Abbr, s.Target(p, "cx"), s.Target(p, "cy"), x, y)
		}
		if s.Target(l, "x") != x || s.Target(l, "y") != y {
			t.Errorf("%s label at (%v, %v), want (%v, %v)", rec.Abbr, s.Target(l, "x"), s.Target(l, "y"), x, y)
		}
		want := tmpl.Content(&rec).String()
		for _, h := range []render.Handle{p, l} {
			if tip, ok := s.Hover(h); !ok || tip.String() != want {
				t.Errorf("%s tooltip is %q, want %q", rec.Abbr, tip, want)
			}
		}
		s.Leave()
	}
}

func TestInitialRender(t *testing.T) {
	s := scene.New()
	c := newTestController(t, s)
	checkConsistent(t, s, c)

	if c.State() != Idle {
		t.Errorf("State() = %v, want idle", c.State())
	}
	view := c.View()
	if len(view.Points) != 2 || len(view.Labels) != 2 {
		t.Fatalf("got %d points and %d labels, want 2 each", len(view.Points), len(view.Labels))
	}
	if got := s.Text(view.Labels[1]); got != "AK" {
		t.Errorf("label 1 is %q, want AK", got)
	}
	lo, hi := c.Scale(dataset.X).Domain()
	if !near(lo, 9.5) || !near(hi, 21) {
		t.Errorf("x domain is [%v, %v], want [9.5, 21]", lo, hi)
	}
	lo, hi = c.Scale(dataset.Y).Domain()
	if !near(lo, 4.75) || !near(hi, 15.75) {
		t.Errorf("y domain is [%v, %v], want [4.75, 15.75]", lo, hi)
	}
	if r := s.Attr(view.Points[0], "r"); r != 12 {
		t.Errorf("point radius is %v, want 12", r)
	}

	tip, ok := s.Hover(view.Points[0])
	if !ok {
		t.Fatal("point has no tooltip")
	}
	if want := "<h6>Alabama</h6>In Poverty: 10%<br>Lacks Healthcare: 5%"; tip.HTML() != want {
		t.Errorf("tooltip is %q, want %q", tip.HTML(), want)
	}
	if tip.Offset != 10 {
		t.Errorf("tooltip offset is %v, want 10", tip.Offset)
	}

	if _, err := c.co.InitialRender(c.ViewState()); err == nil {
		t.Errorf("second InitialRender succeeded")
	}
}

func TestNewControllerInvalid(t *testing.T) {
	s := scene.New()
	co, err := NewCoordinator(s, twoStates(), nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewController(co, ViewState{dataset.Healthcare, dataset.Poverty})
	var uerr *dataset.UnknownAttributeError
	if !errors.As(err, &uerr) {
		t.Errorf("want UnknownAttributeError, got %v", err)
	}
	if s.Calls() != 0 {
		t.Errorf("invalid view state made %d backend calls", s.Calls())
	}
}

func TestSelectIdempotent(t *testing.T) {
	s := scene.New()
	c := newTestController(t, s)
	vs, sx := c.ViewState(), c.Scale(dataset.X)
	calls := s.Calls()

	changed, err := c.Select(dataset.X, dataset.Poverty)
	if err != nil || changed {
		t.Fatalf("Select(current) = %v, %v; want false, nil", changed, err)
	}
	// Clicking the active control is also a no-op.
	h, _ := c.View().Legend(dataset.X).Control(dataset.Poverty)
	s.Click(h)

	if c.ViewState() != vs || c.Scale(dataset.X) != sx {
		t.Errorf("reselection changed state")
	}
	if s.Calls() != calls {
		t.Errorf("reselection made %d backend calls", s.Calls()-calls)
	}
	if s.Busy() {
		t.Errorf("reselection started a transition")
	}
}

func TestSelectAge(t *testing.T) {
	s := scene.New()
	c := newTestController(t, s)
	sy := c.Scale(dataset.Y)

	h, _ := c.View().Legend(dataset.X).Control(dataset.Age)
	if !s.Click(h) {
		t.Fatal("age control has no click handler")
	}
	if c.ViewState().X != dataset.Age {
		t.Fatalf("x is %v after clicking age", c.ViewState().X)
	}
	if c.Scale(dataset.Y) != sy {
		t.Errorf("y scale changed")
	}
	lo, hi := c.Scale(dataset.X).Domain()
	if !near(lo, 28.5) || !near(hi, 42) {
		t.Errorf("x domain is [%v, %v], want [28.5, 42]", lo, hi)
	}
	if !s.Busy() {
		t.Errorf("no transitions running after selection")
	}
	s.Settle()
	checkConsistent(t, s, c)

	// The point with the lowest age sits at the left end.
	if x := s.Attr(c.View().Points[0], "cx"); !near(x, c.Scale(dataset.X).Map(30)) {
		t.Errorf("AL at x=%v", x)
	}
	if !s.HasClass(h, "active") {
		t.Errorf("age control not active")
	}
	old, _ := c.View().Legend(dataset.X).Control(dataset.Poverty)
	if !s.HasClass(old, "inactive") {
		t.Errorf("poverty control not inactive")
	}
}

func TestSelectAll(t *testing.T) {
	s := scene.New()
	c := newTestController(t, s)
	initial := [2]Scale{c.Scale(dataset.X), c.Scale(dataset.Y)}

	for _, d := range []dataset.Dim{dataset.X, dataset.Y} {
		other := 1 - d
		for _, a := range dataset.Attrs(d) {
			before := c.Scale(other)
			if _, err := c.Select(d, a); err != nil {
				t.Fatalf("Select(%v, %v): %v", d, a, err)
			}
			if c.Scale(other) != before {
				t.Errorf("selecting %v %v changed the %v scale", d, a, other)
			}
			s.Settle()
			checkConsistent(t, s, c)
		}
	}

	// Returning to the initial selection restores the initial scales.
	for d := dataset.X; d <= dataset.Y; d++ {
		if _, err := c.Select(d, initial[d].Attr()); err != nil {
			t.Fatal(err)
		}
		if c.Scale(d) != initial[d] {
			t.Errorf("%v scale after round trip is %v, want %v", d, c.Scale(d), initial[d])
		}
	}
}

func TestSelectUnknown(t *testing.T) {
	s := scene.New()
	c := newTestController(t, s)
	vs, calls := c.ViewState(), s.Calls()

	for _, test := range []struct {
		d dataset.Dim
		a dataset.Attr
	}{
		{dataset.X, dataset.Healthcare},
		{dataset.Y, dataset.Income},
		{dataset.X, dataset.NumAttrs},
		{dataset.NoDim, dataset.Age},
	} {
		changed, err := c.Select(test.d, test.a)
		var uerr *dataset.UnknownAttributeError
		if changed || !errors.As(err, &uerr) {
			t.Errorf("Select(%v, %v) = %v, %v; want UnknownAttributeError", test.d, test.a, changed, err)
		}
	}
	if _, err := c.SelectName(dataset.Y, "happiness"); err == nil {
		t.Errorf("SelectName(y, happiness) succeeded")
	}
	if c.ViewState() != vs || s.Calls() != calls {
		t.Errorf("failed selections changed state")
	}
}

func TestSelectMismatchedView(t *testing.T) {
	s := scene.New()
	c := newTestController(t, s)
	vs, sx, calls := c.ViewState(), c.Scale(dataset.X), s.Calls()

	c.view.Points = c.view.Points[:1]
	changed, err := c.Select(dataset.X, dataset.Age)
	if changed || err == nil {
		t.Fatalf("Select with a missing point = %v, %v; want error", changed, err)
	}
	if c.ViewState() != vs || c.Scale(dataset.X) != sx {
		t.Errorf("failed selection changed view state to %v", c.ViewState())
	}
	if s.Calls() != calls {
		t.Errorf("failed selection made %d backend calls", s.Calls()-calls)
	}
	if c.State() != Idle {
		t.Errorf("State() = %v, want idle", c.State())
	}
}

func TestSelectOrder(t *testing.T) {
	r := &recorder{Scene: scene.New()}
	c := newTestController(t, r)
	r.armed = true
	if _, err := c.SelectName(dataset.Y, "obesity"); err != nil {
		t.Fatal(err)
	}

	phase := map[string]int{
		"TransitionAxis": 1,
		"Transition":     2,
		"UnbindTooltip":  3,
		"BindTooltip":    3,
		"Classed":        4,
	}
	last := 0
	seen := make(map[int]bool)
	for i, op := range r.ops {
		p := phase[op]
		if p < last {
			t.Fatalf("op %d %s follows phase %d: %v", i, op, last, r.ops)
		}
		last = p
		seen[p] = true
	}
	if len(seen) != 4 {
		t.Errorf("missing update phases: %v", r.ops)
	}
	if n := strings.Count(strings.Join(r.ops, " "), "TransitionAxis"); n != 1 {
		t.Errorf("%d axis transitions, want 1", n)
	}
}

func TestSelectReentrant(t *testing.T) {
	r := &recorder{Scene: scene.New()}
	c := newTestController(t, r)

	var buf bytes.Buffer
	Warning.SetOutput(&buf)
	defer Warning.SetOutput(os.Stderr)

	var inner error
	smokes, _ := c.View().Legend(dataset.Y).Control(dataset.Smokes)
	r.onAxis = func() {
		if c.State() != Updating {
			t.Errorf("State() = %v during update", c.State())
		}
		_, inner = c.Select(dataset.Y, dataset.Obesity)
		r.Click(smokes)
	}
	if _, err := c.Select(dataset.X, dataset.Income); err != nil {
		t.Fatal(err)
	}
	if inner != ErrUpdating {
		t.Errorf("re-entrant Select returned %v, want ErrUpdating", inner)
	}
	if !strings.Contains(buf.String(), ErrUpdating.Error()) {
		t.Errorf("re-entrant click did not log a warning: %q", buf.String())
	}
	if want := (ViewState{dataset.Income, dataset.Healthcare}); c.ViewState() != want {
		t.Errorf("ViewState() = %v, want %v", c.ViewState(), want)
	}
	if c.State() != Idle {
		t.Errorf("State() = %v after update", c.State())
	}
	r.Settle()
	checkConsistent(t, r.Scene, c)
}

func TestRapidClicks(t *testing.T) {
	s := scene.New()
	c := newTestController(t, s)
	legend := func(d dataset.Dim, a dataset.Attr) render.Handle {
		h, _ := c.View().Legend(d).Control(a)
		return h
	}

	for _, step := range []struct {
		d       dataset.Dim
		a       dataset.Attr
		advance time.Duration
	}{
		{dataset.X, dataset.Age, 100 * time.Millisecond},
		{dataset.X, dataset.Income, 50 * time.Millisecond},
		{dataset.Y, dataset.Smokes, 0},
		{dataset.X, dataset.Poverty, 10 * time.Millisecond},
		{dataset.X, dataset.Age, 300 * time.Millisecond},
		{dataset.Y, dataset.Healthcare, 0},
		{dataset.Y, dataset.Obesity, 0},
	} {
		s.Click(legend(step.d, step.a))
		s.Advance(step.advance)
	}
	if want := (ViewState{dataset.Age, dataset.Obesity}); c.ViewState() != want {
		t.Fatalf("ViewState() = %v, want %v", c.ViewState(), want)
	}
	s.Settle()
	checkConsistent(t, s, c)
}
