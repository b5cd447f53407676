// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aclements/censusplot/chart"
	"github.com/aclements/censusplot/dataset"
)

func testSession(t *testing.T, input string) (*app, string) {
	t.Helper()
	ds, err := dataset.LoadFile(testData)
	if err != nil {
		t.Fatal(err)
	}
	a, err := newApp(chart.DefaultConfig(), ds)
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := newSession(a, strings.NewReader(input), &out, false).run(); err != nil {
		t.Fatal(err)
	}
	return a, out.String()
}

func TestSessionSelect(t *testing.T) {
	a, out := testSession(t, "x age\ny obesity\nsettle\nstate\n")
	if want := (chart.ViewState{X: dataset.Age, Y: dataset.Obesity}); a.ctl.ViewState() != want {
		t.Errorf("ViewState() = %v, want %v", a.ctl.ViewState(), want)
	}
	if !strings.Contains(out, "x=age y=obesity (idle)") {
		t.Errorf("state not printed:\n%s", out)
	}
	if a.scene.Busy() {
		t.Errorf("animations running after settle")
	}
}

func TestSessionHover(t *testing.T) {
	_, out := testSession(t, "hover al\nleave\nhover ZZ\n")
	for _, want := range []string{
		"Alabama\nIn Poverty: 19.3%\nLacks Healthcare: 13.9%\n",
		`error: unknown state "ZZ"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSessionLegend(t *testing.T) {
	_, out := testSession(t, "x income\nlegend\n")
	for _, want := range []string{
		"x:  In Poverty (%)  Age (Years | Median)  *Household Income ($ | Median)\n",
		"y:  *Lacks Healthcare (%)  Smokes (%)  Obese (%)\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSessionErrors(t *testing.T) {
	a, out := testSession(t, "x healthcare\nfrobnicate\nadvance -1s\nadvance soon\nx\n\"unterminated\nquit\nx age\n")
	for _, want := range []string{
		`error: unknown x attribute "healthcare"`,
		`error: unknown command "frobnicate"`,
		"error: cannot advance by negative duration",
		"error: usage: x <attr>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if got := strings.Count(out, "error:"); got != 6 {
		t.Errorf("got %d errors, want 6:\n%s", got, out)
	}
	// Commands after quit are not run.
	if a.ctl.ViewState().X != dataset.Poverty {
		t.Errorf("x is %v, want poverty", a.ctl.ViewState().X)
	}
}

func TestSessionSave(t *testing.T) {
	dir := t.TempDir()
	svg, png := filepath.Join(dir, "a.svg"), filepath.Join(dir, "a.png")
	_, out := testSession(t, "advance 250ms\nsave "+svg+"\nsave "+png+"\nhelp\n")
	for _, path := range []string{svg, png} {
		if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
			t.Errorf("%s not written: %v", path, err)
		}
	}
	if !strings.Contains(out, "  quit - end the session\n") {
		t.Errorf("help missing quit:\n%s", out)
	}
}
