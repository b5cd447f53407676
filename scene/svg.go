// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"io"
	"strings"

	"github.com/aclements/censusplot/render"
	"github.com/ajstarks/svgo"
)

var _ render.Backend = (*Scene)(nil)

// classStyles gives the presentation of entity classes. Later classes
// of an entity override earlier ones.
var classStyles = map[string]string{
	"stateCircle": "fill:#89bdd3;stroke:#e3e3e3",
	"stateText":   "font-family:sans-serif;fill:#fff;text-anchor:middle",
	"aText":       "font-family:sans-serif;font-size:16px;text-anchor:middle",
	"active":      "font-weight:bold;fill:#000;cursor:default",
	"inactive":    "font-weight:lighter;fill:#c9c9c9;cursor:pointer",
}

const tickSize = 6

func (s *Scene) style(n *node) string {
	var parts []string
	for _, c := range n.classes {
		if st, ok := classStyles[c]; ok {
			parts = append(parts, st)
		}
	}
	if a, ok := n.attrs["opacity"]; ok {
		parts = append(parts, fmt.Sprintf("opacity:%.6g", a.at(s.now)))
	}
	if a, ok := n.attrs["font-size"]; ok {
		parts = append(parts, fmt.Sprintf("font-size:%.6gpx", a.at(s.now)))
	}
	return strings.Join(parts, ";")
}

// svgAttrs returns the class and style attributes of n in the form
// svgo expects.
func (s *Scene) svgAttrs(n *node) []string {
	var out []string
	if len(n.classes) > 0 {
		out = append(out, fmt.Sprintf(`class="%s"`, strings.Join(n.classes, " ")))
	}
	if st := s.style(n); st != "" {
		out = append(out, st)
	}
	return out
}

func (s *Scene) transform(n *node) string {
	var parts []string
	x, y := s.attrOr(n, "x", 0), s.attrOr(n, "y", 0)
	if x != 0 || y != 0 {
		parts = append(parts, fmt.Sprintf("translate(%.6g,%.6g)", x, y))
	}
	if r := s.attrOr(n, "rotate", 0); r != 0 {
		parts = append(parts, fmt.Sprintf("rotate(%.6g)", r))
	}
	return strings.Join(parts, " ")
}

// WriteSVG writes the scene at the current time as an SVG document
// of the given size. Tooltips are written as <title> elements so
// viewers show them on hover.
func (s *Scene) WriteSVG(w io.Writer, width, height int) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(width, height)
	for _, c := range s.nodes[0].children {
		s.writeSVG(canvas, c)
	}
	canvas.End()
	return ew.err
}

func (s *Scene) writeSVG(canvas *svg.SVG, h render.Handle) {
	n := s.nodes[h]
	var tip string
	if n.tooltip != nil {
		tip = n.tooltip().String()
		canvas.Group()
	}

	switch n.kind {
	case render.Group:
		s.beginGroup(canvas, n)
		for _, c := range n.children {
			s.writeSVG(canvas, c)
		}
		canvas.Gend()

	case render.Circle:
		canvas.Circle(round(s.attrOr(n, "cx", 0)), round(s.attrOr(n, "cy", 0)), round(s.attrOr(n, "r", 0)), s.svgAttrs(n)...)

	case render.Text:
		x := s.attrOr(n, "x", 0)
		y := s.attrOr(n, "y", 0) + s.attrOr(n, "dy", 0)
		canvas.Text(round(x), round(y), n.text, s.svgAttrs(n)...)

	case render.Axis:
		s.beginGroup(canvas, n)
		s.writeAxis(canvas, h, n)
		canvas.Gend()
	}

	if n.tooltip != nil {
		canvas.Title(tip)
		canvas.Gend()
	}
}

func (s *Scene) beginGroup(canvas *svg.SVG, n *node) {
	attrs := s.svgAttrs(n)
	if t := s.transform(n); t != "" {
		attrs = append([]string{fmt.Sprintf(`transform="%s"`, t)}, attrs...)
	}
	canvas.Group(attrs...)
}

func (s *Scene) writeAxis(canvas *svg.SVG, h render.Handle, n *node) {
	const line = "stroke:#000;fill:none"
	const label = "font-family:sans-serif;font-size:10px;fill:#000"
	lo, hi := n.axis.to.Range()
	switch n.axis.orient {
	case render.Bottom:
		canvas.Line(round(lo), 0, round(hi), 0, line)
		for _, t := range s.AxisTicks(h) {
			x := round(t.Pos)
			canvas.Line(x, 0, x, tickSize, line)
			canvas.Text(x, tickSize+12, t.Label, label+";text-anchor:middle")
		}
	case render.Left:
		canvas.Line(0, round(lo), 0, round(hi), line)
		for _, t := range s.AxisTicks(h) {
			y := round(t.Pos)
			canvas.Line(-tickSize, y, 0, y, line)
			canvas.Text(-tickSize-3, y+3, t.Label, label+";text-anchor:end")
		}
	}
}

func round(x float64) int {
	if x < 0 {
		return int(x - 0.5)
	}
	return int(x + 0.5)
}

// errWriter records the first error writing to w. svgo does not
// report write errors.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
