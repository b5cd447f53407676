// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/aclements/censusplot/dataset"
	"github.com/kballard/go-shellquote"
	"github.com/muesli/termenv"
)

// A session applies interactive commands to an app.
type session struct {
	app    *app
	in     *bufio.Scanner
	out    *termenv.Output
	prompt bool
}

type command struct {
	name, usage string
	nargs       int
	fn          func(s *session, args []string) error
}

var commands = make(map[string]*command)

// errQuit ends a session.
var errQuit = errors.New("quit")

func registerCommand(name, usage string, nargs int, fn func(s *session, args []string) error) {
	commands[name] = &command{name, usage, nargs, fn}
}

func init() {
	registerCommand("x", "<attr> - click the horizontal legend control for attr", 1, cmdSelect(dataset.X))
	registerCommand("y", "<attr> - click the vertical legend control for attr", 1, cmdSelect(dataset.Y))
	registerCommand("hover", "<abbr> - move the pointer over a state and show its tooltip", 1, cmdHover)
	registerCommand("leave", "- move the pointer off the chart", 0, cmdLeave)
	registerCommand("advance", "<duration> - advance the animation clock", 1, cmdAdvance)
	registerCommand("settle", "- finish all animations", 0, cmdSettle)
	registerCommand("legend", "- show the legends", 0, cmdLegend)
	registerCommand("save", "<file> - write the chart as SVG or PNG", 1, cmdSave)
	registerCommand("state", "- show the selected attributes and scales", 0, cmdState)
	registerCommand("help", "- list commands", 0, cmdHelp)
	registerCommand("quit", "- end the session", 0, cmdQuit)
}

func newSession(a *app, in io.Reader, out io.Writer, prompt bool) *session {
	return &session{
		app:    a,
		in:     bufio.NewScanner(in),
		out:    termenv.NewOutput(out),
		prompt: prompt,
	}
}

// run reads and executes commands until end of input or "quit".
// Command errors are reported and do not end the session.
func (s *session) run() error {
	for {
		if s.prompt {
			fmt.Fprint(s.out, "> ")
		}
		if !s.in.Scan() {
			return s.in.Err()
		}
		err := s.exec(s.in.Text())
		if err == errQuit {
			return nil
		} else if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
}

func (s *session) exec(line string) error {
	args, err := shellquote.Split(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q (try \"help\")", args[0])
	}
	if len(args)-1 != cmd.nargs {
		return fmt.Errorf("usage: %s %s", cmd.name, cmd.usage)
	}
	return cmd.fn(s, args[1:])
}

func cmdSelect(d dataset.Dim) func(s *session, args []string) error {
	return func(s *session, args []string) error {
		if err := s.app.click(d, args[0]); err != nil {
			return err
		}
		return cmdState(s, nil)
	}
}

func cmdHover(s *session, args []string) error {
	i := s.app.ds.Index(strings.ToUpper(args[0]))
	if i < 0 {
		return fmt.Errorf("unknown state %q", args[0])
	}
	tip, ok := s.app.scene.Hover(s.app.ctl.View().Points[i])
	if !ok {
		return fmt.Errorf("%s has no tooltip", args[0])
	}
	fmt.Fprintln(s.out, tip)
	return nil
}

func cmdLeave(s *session, args []string) error {
	s.app.scene.Leave()
	return nil
}

func cmdAdvance(s *session, args []string) error {
	d, err := time.ParseDuration(args[0])
	if err != nil {
		return err
	}
	if d < 0 {
		return fmt.Errorf("cannot advance by negative duration %v", d)
	}
	s.app.scene.Advance(d)
	return nil
}

func cmdSettle(s *session, args []string) error {
	s.app.scene.Settle()
	return nil
}

// cmdLegend prints each legend with the active control starred and
// in bold.
func cmdLegend(s *session, args []string) error {
	view, sc := s.app.ctl.View(), s.app.scene
	for d := dataset.X; d <= dataset.Y; d++ {
		fmt.Fprintf(s.out, "%v:", d)
		for _, c := range view.Legend(d).Controls {
			label := c.Attr.Descriptor().Label
			if sc.HasClass(c.Handle, "active") {
				fmt.Fprintf(s.out, "  *%s", s.out.String(label).Bold())
			} else {
				fmt.Fprintf(s.out, "  %s", label)
			}
		}
		fmt.Fprintln(s.out)
	}
	return nil
}

func cmdSave(s *session, args []string) error {
	if err := s.app.save(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "wrote %s\n", args[0])
	return nil
}

func cmdState(s *session, args []string) error {
	ctl := s.app.ctl
	fmt.Fprintf(s.out, "%v (%v)\n", ctl.ViewState(), ctl.State())
	for d := dataset.X; d <= dataset.Y; d++ {
		fmt.Fprintf(s.out, "  %v\n", ctl.Scale(d))
	}
	if s.app.scene.Busy() {
		fmt.Fprintln(s.out, "  animating")
	}
	return nil
}

func cmdHelp(s *session, args []string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(s.out, "  %s %s\n", name, commands[name].usage)
	}
	return nil
}

func cmdQuit(s *session, args []string) error {
	return errQuit
}
