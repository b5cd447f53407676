// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"fmt"

	"github.com/aclements/censusplot/dataset"
	"github.com/aclements/go-moremath/scale"
	"github.com/aclements/go-moremath/stats"
)

// Scale is a linear mapping from an attribute's values to pixel
// offsets along one axis. Scale implements render.Mapper.
type Scale struct {
	attr   dataset.Attr
	lin    scale.Linear
	r0, r1 float64
}

// BuildScale returns the scale for attribute a over ds. The domain is
// the range of a's values, widened by 5% at each end, and it maps to
// [0, extent], or to [extent, 0] if invert is set so that larger
// values are drawn higher on a vertical axis.
//
// BuildScale depends only on its arguments.
func BuildScale(ds *dataset.Dataset, a dataset.Attr, extent float64, invert bool) Scale {
	lo, hi := stats.Bounds(ds.Column(a))
	s := Scale{
		attr: a,
		lin:  scale.Linear{Min: lo * 0.95, Max: hi * 1.05, Base: 10},
		r0:   0,
		r1:   extent,
	}
	if invert {
		s.r0, s.r1 = extent, 0
	}
	return s
}

// Attr returns the attribute s was built for.
func (s Scale) Attr() dataset.Attr {
	return s.attr
}

// Domain returns the data values that map to the ends of the range.
func (s Scale) Domain() (lo, hi float64) {
	return s.lin.Min, s.lin.Max
}

// Range returns the pixel offsets of the low and high ends of the
// domain.
func (s Scale) Range() (lo, hi float64) {
	return s.r0, s.r1
}

// Map maps x to a pixel offset. If the domain is a single value, every
// x maps to the middle of the range.
func (s Scale) Map(x float64) float64 {
	t := 0.5
	if s.lin.Min != s.lin.Max {
		t = s.lin.Map(x)
	}
	return s.r0 + t*(s.r1-s.r0)
}

// Ticks returns at most max round values within the domain.
func (s Scale) Ticks(max int) []float64 {
	if s.lin.Min == s.lin.Max {
		return []float64{s.lin.Min}
	}
	major, _ := s.lin.Ticks(scale.TickOptions{Max: max})
	return major
}

func (s Scale) String() string {
	return fmt.Sprintf("%v [%g,%g] => [%g,%g]", s.attr, s.lin.Min, s.lin.Max, s.r0, s.r1)
}
