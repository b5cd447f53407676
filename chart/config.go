// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/aclements/censusplot/dataset"
	"github.com/pelletier/go-toml/v2"
)

// Margins are the space between the edge of the drawing and the plot
// area, in pixels.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// Config is the fixed geometry and timing of a chart. A Config must
// not be modified once it has been passed to NewCoordinator.
type Config struct {
	// Width and Height are the size of the whole drawing.
	Width, Height float64
	Margin        Margins

	PointRadius  float64
	PointOpacity float64

	// LabelSize is the font size of point labels and LabelDY is
	// their baseline offset from the point center.
	LabelSize float64
	LabelDY   float64

	// LegendSpacing is the distance between legend controls.
	LegendSpacing float64

	// TooltipOffset is the distance between a point and its
	// tooltip.
	TooltipOffset float64

	// AxisDuration and PointDuration are the lengths of axis and
	// point transitions.
	AxisDuration  time.Duration
	PointDuration time.Duration

	// DefaultX and DefaultY are the initial selections.
	DefaultX, DefaultY dataset.Attr
}

// DefaultConfig returns the standard chart configuration.
func DefaultConfig() *Config {
	const width = 800
	return &Config{
		Width:         width,
		Height:        width / 1.92,
		Margin:        Margins{Top: 20, Right: 40, Bottom: 80, Left: 100},
		PointRadius:   12,
		PointOpacity:  0.5,
		LabelSize:     11,
		LabelDY:       3.5,
		LegendSpacing: 20,
		TooltipOffset: 10,
		AxisDuration:  time.Second,
		PointDuration: 500 * time.Millisecond,
		DefaultX:      dataset.Poverty,
		DefaultY:      dataset.Healthcare,
	}
}

// PlotWidth returns the width of the plot area.
func (c *Config) PlotWidth() float64 {
	return c.Width - c.Margin.Left - c.Margin.Right
}

// PlotHeight returns the height of the plot area.
func (c *Config) PlotHeight() float64 {
	return c.Height - c.Margin.Top - c.Margin.Bottom
}

// ViewState returns the initial view state of c.
func (c *Config) ViewState() ViewState {
	return ViewState{X: c.DefaultX, Y: c.DefaultY}
}

// A ConfigError describes an invalid Config field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}

// Validate checks that c describes a drawable chart.
func (c *Config) Validate() error {
	switch {
	case c.PlotWidth() <= 0:
		return &ConfigError{"width", "plot area has no width"}
	case c.PlotHeight() <= 0:
		return &ConfigError{"height", "plot area has no height"}
	case c.PointRadius < 0:
		return &ConfigError{"point_radius", "negative radius"}
	case c.PointOpacity < 0 || c.PointOpacity > 1:
		return &ConfigError{"point_opacity", "must be in [0, 1]"}
	case c.TooltipOffset < 0:
		return &ConfigError{"tooltip_offset", "negative offset"}
	case c.AxisDuration <= 0:
		return &ConfigError{"axis_duration", "must be positive"}
	case c.PointDuration <= 0:
		return &ConfigError{"point_duration", "must be positive"}
	case !c.DefaultX.In(dataset.X):
		return &ConfigError{"x", fmt.Sprintf("%v is not a horizontal attribute", c.DefaultX)}
	case !c.DefaultY.In(dataset.Y):
		return &ConfigError{"y", fmt.Sprintf("%v is not a vertical attribute", c.DefaultY)}
	}
	return nil
}

// fileConfig is the TOML form of Config. Unset fields keep their
// default values.
type fileConfig struct {
	Width  *float64 `toml:"width"`
	Height *float64 `toml:"height"`
	Margin *struct {
		Top    *float64 `toml:"top"`
		Right  *float64 `toml:"right"`
		Bottom *float64 `toml:"bottom"`
		Left   *float64 `toml:"left"`
	} `toml:"margin"`
	PointRadius   *float64 `toml:"point_radius"`
	PointOpacity  *float64 `toml:"point_opacity"`
	LabelSize     *float64 `toml:"label_size"`
	LabelDY       *float64 `toml:"label_dy"`
	LegendSpacing *float64 `toml:"legend_spacing"`
	TooltipOffset *float64 `toml:"tooltip_offset"`
	AxisDuration  *string  `toml:"axis_duration"`
	PointDuration *string  `toml:"point_duration"`
	X             *string  `toml:"x"`
	Y             *string  `toml:"y"`
}

// LoadConfig reads a TOML chart configuration from path. Settings
// missing from the file take their values from DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseConfig parses a TOML chart configuration. For example:
//
//	width = 960.0
//	axis_duration = "750ms"
//	x = "age"
//
//	[margin]
//	left = 120.0
func ParseConfig(data []byte) (*Config, error) {
	var fc fileConfig
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fc); err != nil {
		return nil, err
	}

	c := DefaultConfig()
	setf := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setf(&c.Width, fc.Width)
	setf(&c.Height, fc.Height)
	if m := fc.Margin; m != nil {
		setf(&c.Margin.Top, m.Top)
		setf(&c.Margin.Right, m.Right)
		setf(&c.Margin.Bottom, m.Bottom)
		setf(&c.Margin.Left, m.Left)
	}
	setf(&c.PointRadius, fc.PointRadius)
	setf(&c.PointOpacity, fc.PointOpacity)
	setf(&c.LabelSize, fc.LabelSize)
	setf(&c.LabelDY, fc.LabelDY)
	setf(&c.LegendSpacing, fc.LegendSpacing)
	setf(&c.TooltipOffset, fc.TooltipOffset)

	for _, d := range []struct {
		field string
		src   *string
		dst   *time.Duration
	}{
		{"axis_duration", fc.AxisDuration, &c.AxisDuration},
		{"point_duration", fc.PointDuration, &c.PointDuration},
	} {
		if d.src == nil {
			continue
		}
		v, err := time.ParseDuration(*d.src)
		if err != nil {
			return nil, &ConfigError{d.field, err.Error()}
		}
		*d.dst = v
	}

	var err error
	if fc.X != nil {
		if c.DefaultX, err = dataset.Parse(dataset.X, *fc.X); err != nil {
			return nil, &ConfigError{"x", err.Error()}
		}
	}
	if fc.Y != nil {
		if c.DefaultY, err = dataset.Parse(dataset.Y, *fc.Y); err != nil {
			return nil, &ConfigError{"y", err.Error()}
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
