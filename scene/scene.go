// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scene is an in-memory render.Backend.
//
// A Scene animates transitions against a virtual clock that only
// moves when the caller calls Advance or Settle. A Scene can be
// written as SVG or PNG at any point in time, including in the middle
// of transitions.
package scene

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/aclements/censusplot/render"
)

// DefaultTicks is the default maximum number of ticks per axis.
const DefaultTicks = 10

// Scene is a render.Backend that keeps the scene graph in memory.
type Scene struct {
	// Ticks is the maximum number of ticks to draw on an axis.
	Ticks int

	now   time.Duration
	nodes []*node
	hover render.Handle
	calls int
}

type node struct {
	kind     render.Kind
	parent   render.Handle
	children []render.Handle
	classes  []string
	text     string
	attrs    map[string]*anim

	axis *axis

	tooltip func() render.Tooltip
	click   func()
}

// An anim is the state of one attribute. A settled attribute has
// dur == 0.
type anim struct {
	from, to   float64
	start, dur time.Duration
}

func (a *anim) at(now time.Duration) float64 {
	if a.dur <= 0 || now >= a.start+a.dur {
		return a.to
	}
	t := float64(now-a.start) / float64(a.dur)
	return a.from + (a.to-a.from)*easeCubicInOut(t)
}

func (a *anim) end() time.Duration {
	return a.start + a.dur
}

func easeCubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}

type axis struct {
	orient     render.Orient
	from, to   render.Mapper
	start, dur time.Duration
}

// pos returns the pixel offset of data value v on the axis at time
// now.
func (a *axis) pos(v float64, now time.Duration) float64 {
	to := a.to.Map(v)
	if a.from == nil || a.dur <= 0 || now >= a.start+a.dur {
		return to
	}
	t := easeCubicInOut(float64(now-a.start) / float64(a.dur))
	return a.from.Map(v)*(1-t) + to*t
}

// New returns an empty Scene whose clock is at 0.
func New() *Scene {
	root := &node{kind: render.Group, parent: -1}
	return &Scene{Ticks: DefaultTicks, nodes: []*node{root}}
}

func (s *Scene) node(h render.Handle) *node {
	if h < 0 || int(h) >= len(s.nodes) {
		panic(fmt.Sprintf("scene: invalid handle %d", h))
	}
	return s.nodes[h]
}

// Root returns the root group.
func (s *Scene) Root() render.Handle {
	return 0
}

func (s *Scene) add(parent render.Handle, n *node) render.Handle {
	p := s.node(parent)
	h := render.Handle(len(s.nodes))
	n.parent = parent
	s.nodes = append(s.nodes, n)
	p.children = append(p.children, h)
	return h
}

// Create adds a new entity under parent.
func (s *Scene) Create(parent render.Handle, kind render.Kind, class string) render.Handle {
	s.calls++
	n := &node{kind: kind}
	if class != "" {
		n.classes = []string{class}
	}
	return s.add(parent, n)
}

// SetText sets the text of h.
func (s *Scene) SetText(h render.Handle, text string) {
	s.calls++
	s.node(h).text = text
}

// SetAttrs sets attributes of h immediately.
func (s *Scene) SetAttrs(h render.Handle, attrs render.Attrs) {
	s.calls++
	n := s.node(h)
	if n.attrs == nil {
		n.attrs = make(map[string]*anim)
	}
	for k, v := range attrs {
		n.attrs[k] = &anim{to: v}
	}
}

// Classed adds or removes a class of h.
func (s *Scene) Classed(h render.Handle, class string, on bool) {
	s.calls++
	n := s.node(h)
	for i, c := range n.classes {
		if c == class {
			if !on {
				n.classes = append(n.classes[:i:i], n.classes[i+1:]...)
			}
			return
		}
	}
	if on {
		n.classes = append(n.classes, class)
	}
}

// Transition animates attributes of h from their current values at
// the current time.
func (s *Scene) Transition(h render.Handle, d time.Duration, attrs render.Attrs) {
	s.calls++
	n := s.node(h)
	if n.attrs == nil {
		n.attrs = make(map[string]*anim)
	}
	for k, v := range attrs {
		from := v
		if a, ok := n.attrs[k]; ok {
			from = a.at(s.now)
		}
		n.attrs[k] = &anim{from: from, to: v, start: s.now, dur: d}
	}
}

// CreateAxis adds an axis bound to m.
func (s *Scene) CreateAxis(parent render.Handle, orient render.Orient, m render.Mapper) render.Handle {
	s.calls++
	return s.add(parent, &node{kind: render.Axis, axis: &axis{orient: orient, to: m}})
}

// TransitionAxis rebinds axis h to m. Tick positions animate from
// the mapping in effect at the current time.
func (s *Scene) TransitionAxis(h render.Handle, d time.Duration, m render.Mapper) {
	s.calls++
	n := s.node(h)
	if n.axis == nil {
		panic(fmt.Sprintf("scene: entity %d is not an axis", h))
	}
	a := n.axis
	var from render.Mapper = frozenAxis{a, s.now}
	if a.from == nil || a.dur <= 0 || s.now >= a.start+a.dur {
		// a has settled, so its mapping is just a.to.
		from = a.to
	}
	n.axis = &axis{orient: a.orient, from: from, to: m, start: s.now, dur: d}
}

// frozenAxis is the mapping of an axis at a fixed instant. It lets a
// transition that interrupts another start from where the axis was.
type frozenAxis struct {
	a   *axis
	now time.Duration
}

func (f frozenAxis) Map(x float64) float64   { return f.a.pos(x, f.now) }
func (f frozenAxis) Range() (lo, hi float64) { return f.a.to.Range() }
func (f frozenAxis) Ticks(max int) []float64 { return f.a.to.Ticks(max) }

// BindTooltip attaches a tooltip to h.
func (s *Scene) BindTooltip(h render.Handle, content func() render.Tooltip) {
	s.calls++
	s.node(h).tooltip = content
}

// UnbindTooltip removes the tooltip of h.
func (s *Scene) UnbindTooltip(h render.Handle) {
	s.calls++
	s.node(h).tooltip = nil
	if s.hover == h {
		s.hover = 0
	}
}

// OnClick registers a click handler for h.
func (s *Scene) OnClick(h render.Handle, fn func()) {
	s.calls++
	s.node(h).click = fn
}

// Calls returns the number of Backend calls that have modified s.
func (s *Scene) Calls() int {
	return s.calls
}

// Now returns the current time of the virtual clock.
func (s *Scene) Now() time.Duration {
	return s.now
}

// Advance moves the clock forward by d.
func (s *Scene) Advance(d time.Duration) {
	if d > 0 {
		s.now += d
	}
}

// Busy reports whether any transition is in progress.
func (s *Scene) Busy() bool {
	return s.settleTime() > s.now
}

// Settle advances the clock until every transition has finished.
func (s *Scene) Settle() {
	if t := s.settleTime(); t > s.now {
		s.now = t
	}
}

func (s *Scene) settleTime() time.Duration {
	var t time.Duration
	for _, n := range s.nodes {
		for _, a := range n.attrs {
			if e := a.end(); e > t {
				t = e
			}
		}
		if n.axis != nil {
			if e := n.axis.start + n.axis.dur; e > t {
				t = e
			}
		}
	}
	return t
}

// Attr returns the current value of attribute name of h, or NaN if
// h has no such attribute.
func (s *Scene) Attr(h render.Handle, name string) float64 {
	a, ok := s.node(h).attrs[name]
	if !ok {
		return math.NaN()
	}
	return a.at(s.now)
}

// Target returns the value attribute name of h will have once its
// transitions settle, or NaN if h has no such attribute.
func (s *Scene) Target(h render.Handle, name string) float64 {
	a, ok := s.node(h).attrs[name]
	if !ok {
		return math.NaN()
	}
	return a.to
}

// attrOr returns attribute name of n at the current time, or def.
func (s *Scene) attrOr(n *node, name string, def float64) float64 {
	if a, ok := n.attrs[name]; ok {
		return a.at(s.now)
	}
	return def
}

// Kind returns the kind of h.
func (s *Scene) Kind(h render.Handle) render.Kind {
	return s.node(h).kind
}

// Text returns the text of h.
func (s *Scene) Text(h render.Handle) string {
	return s.node(h).text
}

// Classes returns the classes of h in the order they were added.
func (s *Scene) Classes(h render.Handle) []string {
	return append([]string(nil), s.node(h).classes...)
}

// HasClass reports whether h has class.
func (s *Scene) HasClass(h render.Handle, class string) bool {
	for _, c := range s.node(h).classes {
		if c == class {
			return true
		}
	}
	return false
}

// Children returns the children of h in drawing order.
func (s *Scene) Children(h render.Handle) []render.Handle {
	return append([]render.Handle(nil), s.node(h).children...)
}

// Find returns every entity with the given class in creation order.
func (s *Scene) Find(class string) []render.Handle {
	var out []render.Handle
	for h := range s.nodes {
		if s.HasClass(render.Handle(h), class) {
			out = append(out, render.Handle(h))
		}
	}
	return out
}

// A Tick is one tick mark of an axis.
type Tick struct {
	Value float64
	Pos   float64
	Label string
}

// AxisTicks returns the ticks of axis h at the current time.
func (s *Scene) AxisTicks(h render.Handle) []Tick {
	a := s.node(h).axis
	if a == nil {
		return nil
	}
	vals := a.to.Ticks(s.Ticks)
	sort.Float64s(vals)
	ticks := make([]Tick, len(vals))
	for i, v := range vals {
		ticks[i] = Tick{v, a.pos(v, s.now), fmt.Sprintf("%.6g", v)}
	}
	return ticks
}

// AxisMapper returns the mapping axis h is bound to, or nil if h is
// not an axis.
func (s *Scene) AxisMapper(h render.Handle) render.Mapper {
	if a := s.node(h).axis; a != nil {
		return a.to
	}
	return nil
}

// Click delivers a click to h. It reports whether h had a handler.
func (s *Scene) Click(h render.Handle) bool {
	fn := s.node(h).click
	if fn == nil {
		return false
	}
	fn()
	return true
}

// Hover moves the pointer over h, hiding any other tooltip. It
// returns h's tooltip content if h has a tooltip.
func (s *Scene) Hover(h render.Handle) (render.Tooltip, bool) {
	s.hover = 0
	if s.node(h).tooltip == nil {
		return render.Tooltip{}, false
	}
	s.hover = h
	return s.Tooltip()
}

// Leave moves the pointer off of any entity, hiding the tooltip.
func (s *Scene) Leave() {
	s.hover = 0
}

// Tooltip returns the content of the visible tooltip, if any. The
// content reflects the current binding of the hovered entity.
func (s *Scene) Tooltip() (render.Tooltip, bool) {
	if s.hover == 0 {
		return render.Tooltip{}, false
	}
	return s.nodes[s.hover].tooltip(), true
}

// Hovered returns the entity whose tooltip is visible, if any.
func (s *Scene) Hovered() (render.Handle, bool) {
	return s.hover, s.hover != 0
}
