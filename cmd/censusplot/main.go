// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command censusplot draws a scatter plot of US state statistics.
//
// Usage:
//
//	censusplot [flags] [data.csv]
//
// The data file is a CSV file with a header row naming at least the
// columns state, abbr, poverty, age, income, healthcare, obesity, and
// smokes. If no file is given, censusplot reads -data, or standard
// input if that is also unset.
//
// The horizontal axis shows one of poverty, age, or income and the
// vertical axis one of healthcare, smokes, or obesity. Selections
// given by -x and -y are applied as clicks on the chart's legend, so
// the output shows the same animated state an interactive viewer
// would see. By default censusplot waits for all animations to finish
// before writing the chart.
//
// With -i, censusplot reads commands from standard input that click
// legend controls, hover over points, advance the animation clock,
// and save snapshots. Type "help" for a list.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/aclements/censusplot/chart"
	"github.com/aclements/censusplot/dataset"
	"github.com/aclements/censusplot/scene"
	"golang.org/x/crypto/ssh/terminal"
)

type options struct {
	data, config string
	x, y         string
	out          string
	static       bool
	interactive  bool
	settle       bool
}

func main() {
	log.SetPrefix("censusplot: ")
	log.SetFlags(0)

	var o options
	flag.StringVar(&o.data, "data", "", "read data from `file` (default: stdin)")
	flag.StringVar(&o.config, "config", "", "read chart configuration from TOML `file`")
	flag.StringVar(&o.x, "x", "", "select `attr` for the horizontal axis")
	flag.StringVar(&o.y, "y", "", "select `attr` for the vertical axis")
	flag.StringVar(&o.out, "o", "", "write chart to `file`, which must end in .svg or .png (default: SVG to stdout)")
	flag.BoolVar(&o.static, "static", false, "write a static plot instead of the animated scene")
	flag.BoolVar(&o.interactive, "i", false, "read interactive commands from stdin")
	flag.BoolVar(&o.settle, "settle", true, "finish animations before writing output")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [data.csv]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	switch flag.NArg() {
	case 0:
	case 1:
		o.data = flag.Arg(0)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if o.data == "" {
		o.data = "-"
	}
	if o.interactive && o.data == "-" {
		log.Fatal("-i requires a data file")
	}

	prompt := o.interactive && terminal.IsTerminal(int(os.Stdin.Fd()))
	if err := run(&o, os.Stdin, os.Stdout, prompt); err != nil {
		log.Fatal(err)
	}
}

// run loads the data and configuration, draws the chart, and writes
// it. Nothing is drawn if loading fails.
func run(o *options, stdin io.Reader, stdout io.Writer, prompt bool) error {
	cfg := chart.DefaultConfig()
	if o.config != "" {
		var err error
		if cfg, err = chart.LoadConfig(o.config); err != nil {
			return err
		}
	}
	var ds *dataset.Dataset
	var err error
	if o.data == "-" {
		ds, err = dataset.Load(stdin, "stdin")
	} else {
		ds, err = dataset.LoadFile(o.data)
	}
	if err != nil {
		return err
	}

	a, err := newApp(cfg, ds)
	if err != nil {
		return err
	}
	a.static = o.static
	if o.x != "" {
		if err := a.click(dataset.X, o.x); err != nil {
			return err
		}
	}
	if o.y != "" {
		if err := a.click(dataset.Y, o.y); err != nil {
			return err
		}
	}

	if o.interactive {
		sess := newSession(a, stdin, stdout, prompt)
		if err := sess.run(); err != nil {
			return err
		}
	}

	if o.settle {
		a.scene.Settle()
	}
	switch {
	case o.out != "":
		return a.save(o.out)
	case !o.interactive:
		return a.write(stdout, ".svg")
	}
	return nil
}

// app is a chart drawn into an in-memory scene.
type app struct {
	cfg    *chart.Config
	ds     *dataset.Dataset
	scene  *scene.Scene
	ctl    *chart.Controller
	static bool
}

func newApp(cfg *chart.Config, ds *dataset.Dataset) (*app, error) {
	sc := scene.New()
	co, err := chart.NewCoordinator(sc, ds, cfg)
	if err != nil {
		return nil, err
	}
	ctl, err := chart.NewController(co, cfg.ViewState())
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, ds: ds, scene: sc, ctl: ctl}, nil
}

// click clicks the legend control for the attribute named name.
func (a *app) click(d dataset.Dim, name string) error {
	attr, err := dataset.Parse(d, name)
	if err != nil {
		return err
	}
	h, ok := a.ctl.View().Legend(d).Control(attr)
	if !ok {
		return fmt.Errorf("no %v control for %v", d, attr)
	}
	a.scene.Click(h)
	return nil
}

// save writes the chart to path in the format given by its
// extension.
func (a *app) save(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".svg" && ext != ".png" {
		return fmt.Errorf("%s: unknown output format %q", path, ext)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := a.write(f, ext); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func (a *app) write(w io.Writer, ext string) error {
	width, height := int(a.cfg.Width), int(a.cfg.Height)
	switch {
	case a.static && ext == ".svg":
		return chart.WriteStaticSVG(w, a.ds, a.ctl.ViewState(), a.cfg)
	case a.static:
		return fmt.Errorf("static plots can only be written as SVG")
	case ext == ".png":
		return a.scene.WritePNG(w, width, height)
	}
	return a.scene.WriteSVG(w, width, height)
}
