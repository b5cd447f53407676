// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render defines the scene-graph interface that charts draw
// through.
//
// A Backend owns a tree of entities addressed by Handles. Attribute
// changes are either immediate (SetAttrs) or animated (Transition).
// Animations are managed entirely by the Backend: callers issue them
// and never wait for them. When a transition is issued for an
// attribute that is already animating, the new transition starts from
// the attribute's current value and replaces the old one.
package render

import (
	"html"
	"strings"
	"time"
)

// A Handle identifies an entity in a Backend.
type Handle int

// Kind is the kind of an entity.
type Kind int

const (
	// Group entities hold other entities. Their "x", "y", and
	// "rotate" attributes transform their children.
	Group Kind = iota

	// Circle entities are positioned by "cx", "cy", and "r".
	Circle

	// Text entities are positioned by "x", "y", and "dy".
	Text

	// Axis entities are created by CreateAxis.
	Axis
)

var kindNames = [...]string{"group", "circle", "text", "axis"}

func (k Kind) String() string {
	if 0 <= k && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Orient is the orientation of an axis.
type Orient int

const (
	// Bottom axes are horizontal with ticks below the line.
	Bottom Orient = iota

	// Left axes are vertical with ticks left of the line.
	Left
)

// Attrs is a set of numeric entity attributes.
type Attrs map[string]float64

// A Mapper maps data values to pixels along one axis.
type Mapper interface {
	// Map maps data value x to a pixel offset.
	Map(x float64) float64

	// Range returns the pixel offsets of the low and high ends of
	// the domain.
	Range() (lo, hi float64)

	// Ticks returns at most max "nice" data values for tick marks,
	// in increasing order.
	Ticks(max int) []float64
}

// A Tooltip is the content shown while an entity is hovered.
type Tooltip struct {
	Title string
	Lines []string

	// Offset is how far above its entity, in pixels, a backend
	// that positions tooltips should place this one.
	Offset float64
}

func (t Tooltip) String() string {
	return strings.Join(append([]string{t.Title}, t.Lines...), "\n")
}

// HTML formats t as an HTML fragment with a heading.
func (t Tooltip) HTML() string {
	lines := make([]string, len(t.Lines))
	for i, l := range t.Lines {
		lines[i] = html.EscapeString(l)
	}
	return "<h6>" + html.EscapeString(t.Title) + "</h6>" + strings.Join(lines, "<br>")
}

// Backend is a retained-mode scene graph.
//
// Backends are not safe for concurrent use. Event handlers registered
// with OnClick run synchronously on the goroutine delivering the
// event.
type Backend interface {
	// Root returns the root entity.
	Root() Handle

	// Create adds a new entity of the given kind and class as the
	// last child of parent.
	Create(parent Handle, kind Kind, class string) Handle

	// SetText sets the content of a Text entity.
	SetText(h Handle, text string)

	// SetAttrs sets attributes of h immediately, cancelling any
	// transitions of those attributes.
	SetAttrs(h Handle, attrs Attrs)

	// Classed adds or removes class from h.
	Classed(h Handle, class string, on bool)

	// Transition animates attributes of h to attrs over d.
	Transition(h Handle, d time.Duration, attrs Attrs)

	// CreateAxis adds an axis entity under parent bound to m.
	CreateAxis(parent Handle, orient Orient, m Mapper) Handle

	// TransitionAxis rebinds axis h to m, animating over d.
	TransitionAxis(h Handle, d time.Duration, m Mapper)

	// BindTooltip attaches a tooltip to h. content is called each
	// time the tooltip is shown. Any previous binding is replaced.
	BindTooltip(h Handle, content func() Tooltip)

	// UnbindTooltip removes h's tooltip, hiding it if shown.
	UnbindTooltip(h Handle)

	// OnClick registers fn to be called when h is clicked. Any
	// previous handler is replaced.
	OnClick(h Handle, fn func())
}
