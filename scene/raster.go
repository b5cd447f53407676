// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/aclements/censusplot/render"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// classFills gives the raster fill color of entity classes. As with
// classStyles, later classes of an entity override earlier ones.
var classFills = map[string]color.NRGBA{
	"stateCircle": {0x89, 0xbd, 0xd3, 0xff},
	"stateText":   {0xff, 0xff, 0xff, 0xff},
	"active":      {0x00, 0x00, 0x00, 0xff},
	"inactive":    {0xc9, 0xc9, 0xc9, 0xff},
}

var (
	black = color.NRGBA{0, 0, 0, 0xff}
	face  = basicfont.Face7x13
)

type anchor int

const (
	anchorStart anchor = iota
	anchorMiddle
	anchorEnd
)

// affine is the transform (x, y) -> (a*x + c*y + e, b*x + d*y + f).
type affine struct{ a, b, c, d, e, f float64 }

var identity = affine{a: 1, d: 1}

func (m affine) apply(x, y float64) (float64, float64) {
	return m.a*x + m.c*y + m.e, m.b*x + m.d*y + m.f
}

func (m affine) mul(n affine) affine {
	return affine{
		a: m.a*n.a + m.c*n.b,
		b: m.b*n.a + m.d*n.b,
		c: m.a*n.c + m.c*n.d,
		d: m.b*n.c + m.d*n.d,
		e: m.a*n.e + m.c*n.f + m.e,
		f: m.b*n.e + m.d*n.f + m.f,
	}
}

func (m affine) rotated() bool {
	return m.b != 0 || m.c != 0
}

// WritePNG writes the scene at the current time as a PNG image of
// the given size.
func (s *Scene) WritePNG(w io.Writer, width, height int) error {
	return png.Encode(w, s.Raster(width, height))
}

// Raster draws the scene at the current time onto a new image of the
// given size. Text is drawn in a fixed 7x13 font regardless of its
// font-size.
func (s *Scene) Raster(width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	for _, c := range s.nodes[0].children {
		s.raster(dst, c, identity)
	}
	return dst
}

func (s *Scene) fill(n *node, def color.NRGBA) color.NRGBA {
	col := def
	for _, c := range n.classes {
		if f, ok := classFills[c]; ok {
			col = f
		}
	}
	if a, ok := n.attrs["opacity"]; ok {
		col.A = uint8(float64(col.A)*clamp01(a.at(s.now)) + 0.5)
	}
	return col
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

func (s *Scene) raster(dst *image.RGBA, h render.Handle, m affine) {
	n := s.nodes[h]
	switch n.kind {
	case render.Group, render.Axis:
		x, y := s.attrOr(n, "x", 0), s.attrOr(n, "y", 0)
		m = m.mul(affine{a: 1, d: 1, e: x, f: y})
		if r := s.attrOr(n, "rotate", 0); r != 0 {
			sin, cos := math.Sincos(r * math.Pi / 180)
			m = m.mul(affine{a: cos, b: sin, c: -sin, d: cos})
		}
		if n.kind == render.Axis {
			s.rasterAxis(dst, h, n, m)
			return
		}
		for _, c := range n.children {
			s.raster(dst, c, m)
		}

	case render.Circle:
		cx, cy := m.apply(s.attrOr(n, "cx", 0), s.attrOr(n, "cy", 0))
		fillCircle(dst, cx, cy, s.attrOr(n, "r", 0), s.fill(n, black))

	case render.Text:
		x := s.attrOr(n, "x", 0)
		y := s.attrOr(n, "y", 0) + s.attrOr(n, "dy", 0)
		an := anchorStart
		if s.HasClass(h, "stateText") || s.inLegend(n) {
			an = anchorMiddle
		}
		drawText(dst, m, x, y, n.text, s.fill(n, black), an)
	}
}

// inLegend reports whether n's parent is a legend group.
func (s *Scene) inLegend(n *node) bool {
	return n.parent >= 0 && s.HasClass(n.parent, "aText")
}

func (s *Scene) rasterAxis(dst *image.RGBA, h render.Handle, n *node, m affine) {
	lo, hi := n.axis.to.Range()
	switch n.axis.orient {
	case render.Bottom:
		drawLine(dst, m, lo, 0, hi, 0, black)
		for _, t := range s.AxisTicks(h) {
			drawLine(dst, m, t.Pos, 0, t.Pos, tickSize, black)
			drawText(dst, m, t.Pos, tickSize+13, t.Label, black, anchorMiddle)
		}
	case render.Left:
		drawLine(dst, m, 0, lo, 0, hi, black)
		for _, t := range s.AxisTicks(h) {
			drawLine(dst, m, -tickSize, t.Pos, 0, t.Pos, black)
			drawText(dst, m, -tickSize-3, t.Pos+4, t.Label, black, anchorEnd)
		}
	}
}

// fillCircle fills a circle using four cubic Bézier arcs.
func fillCircle(dst *image.RGBA, cx, cy, r float64, col color.NRGBA) {
	if r <= 0 || col.A == 0 {
		return
	}
	const k = 0.5522847498
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	p := func(x, y float64) (float32, float32) { return float32(cx + x*r), float32(cy + y*r) }
	z.MoveTo(p(1, 0))
	for _, q := range [4][6]float64{
		{1, k, k, 1, 0, 1},
		{-k, 1, -1, k, -1, 0},
		{-1, -k, -k, -1, 0, -1},
		{k, -1, 1, -k, 1, 0},
	} {
		bx, by := p(q[0], q[1])
		ccx, ccy := p(q[2], q[3])
		dx, dy := p(q[4], q[5])
		z.CubeTo(bx, by, ccx, ccy, dx, dy)
	}
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(col), image.Point{})
}

func drawLine(dst *image.RGBA, m affine, x0, y0, x1, y1 float64, col color.NRGBA) {
	x0, y0 = m.apply(x0, y0)
	x1, y1 = m.apply(x1, y1)
	steps := int(math.Ceil(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))))
	if steps == 0 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		dst.Set(round(x0+(x1-x0)*t), round(y0+(y1-y0)*t), col)
	}
}

// drawText draws text with its baseline at (x, y) in the coordinate
// system given by m.
func drawText(dst *image.RGBA, m affine, x, y float64, text string, col color.NRGBA, an anchor) {
	if text == "" {
		return
	}
	adv := font.MeasureString(face, text).Round()
	switch an {
	case anchorMiddle:
		x -= float64(adv) / 2
	case anchorEnd:
		x -= float64(adv)
	}

	if !m.rotated() {
		px, py := m.apply(x, y)
		d := font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(col),
			Face: face,
			Dot:  fixed.P(round(px), round(py)),
		}
		d.DrawString(text)
		return
	}

	// Draw unrotated into a mask, then map each covered pixel
	// through m.
	metrics := face.Metrics()
	ascent, descent := metrics.Ascent.Ceil(), metrics.Descent.Ceil()
	mask := image.NewAlpha(image.Rect(0, 0, adv, ascent+descent))
	d := font.Drawer{Dst: mask, Src: image.Opaque, Face: face, Dot: fixed.P(0, ascent)}
	d.DrawString(text)
	mb := mask.Bounds()
	for ty := mb.Min.Y; ty < mb.Max.Y; ty++ {
		for tx := mb.Min.X; tx < mb.Max.X; tx++ {
			if mask.AlphaAt(tx, ty).A < 0x80 {
				continue
			}
			px, py := m.apply(x+float64(tx), y-float64(ascent)+float64(ty))
			dst.Set(round(px), round(py), col)
		}
	}
}
