// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jeranaias/agentconsole/internal/commands"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

type recordOutput struct {
	lines  []string
	errs   []error
	tables [][][]string
}

func (o *recordOutput) Info(format string, args ...any) {
	o.lines = append(o.lines, "info: "+fmt.Sprintf(format, args...))
}

func (o *recordOutput) Highlight(format string, args ...any) {
	o.lines = append(o.lines, "highlight: "+fmt.Sprintf(format, args...))
}

func (o *recordOutput) Warn(format string, args ...any) {
	o.lines = append(o.lines, "warn: "+fmt.Sprintf(format, args...))
}

func (o *recordOutput) Error(format string, args ...any) {
	o.lines = append(o.lines, "error: "+fmt.Sprintf(format, args...))
}

func (o *recordOutput) Table(headers []string, rows [][]string) {
	o.tables = append(o.tables, rows)
}

func (o *recordOutput) Report(err error) {
	o.errs = append(o.errs, err)
}

func (o *recordOutput) lastErr() error {
	if len(o.errs) == 0 {
		return nil
	}
	return o.errs[len(o.errs)-1]
}

// rootCtx is a minimal root with one child kind and one command.
type rootCtx struct {
	Base
	returned []Context
	renders  int
}

func (r *rootCtx) OnReturn(_ context.Context, child Context) {
	r.returned = append(r.returned, child)
}

func (r *rootCtx) Render(context.Context) error {
	r.renders++
	return nil
}

// widgetCtx binds to one widget name.
type widgetCtx struct {
	Base
	known      []string
	bound      string
	entered    int
	left       int
	refreshes  int
	renders    int
	refreshErr error
}

func (w *widgetCtx) ValidateEntry(_ context.Context, args []string) error {
	name, ok := commands.Find(args[0], w.known)
	if !ok {
		return commands.NewInvalidOption(args[0], "no such widget")
	}
	w.bound = name
	w.SetTitle(strings.ToLower(name))
	return nil
}

func (w *widgetCtx) OnEnter(context.Context) { w.entered++ }
func (w *widgetCtx) OnLeave(context.Context) { w.left++ }

func (w *widgetCtx) Refresh(context.Context) error {
	w.refreshes++
	return w.refreshErr
}

func (w *widgetCtx) Render(context.Context) error {
	w.renders++
	return nil
}

type fixture struct {
	root    *rootCtx
	widgets []*widgetCtx
	out     *recordOutput
	d       *Dispatcher
	runs    map[string]int
}

func newFixture() *fixture {
	f := &fixture{out: &recordOutput{}, runs: make(map[string]int)}
	known := []string{"Alpha", "BETA"}

	f.root = &rootCtx{Base: NewBase("Main", "Main menu")}
	f.root.AddChild(Child{
		Name:        "Widget",
		Description: "Interact with a widget.",
		New: func() Context {
			w := &widgetCtx{Base: NewBase("Widget", "A widget"), known: known}
			w.SetEntryParameters(commands.Parameter{Name: "Widget Name", Required: true, Values: commands.Static(known...)})
			w.Commands().MustRegister(&commands.Command{
				Name:         "Poke",
				Description:  "Poke the widget.",
				ChangesState: true,
				Run: func(context.Context, commands.Invocation) error {
					f.runs["Poke"]++
					return nil
				},
			})
			f.widgets = append(f.widgets, w)
			return w
		},
	})
	f.root.Commands().MustRegister(&commands.Command{
		Name:        "Status",
		Description: "Show status.",
		Parameters:  []commands.Parameter{{Name: "Mode", Strict: true, Values: commands.Static("short", "long")}},
		Run: func(_ context.Context, inv commands.Invocation) error {
			f.runs["Status"]++
			return nil
		},
	})
	f.root.Commands().MustRegister(&commands.Command{
		Name: "Fail",
		Run: func(context.Context, commands.Invocation) error {
			return errors.New("boom")
		},
	})

	f.d = NewDispatcher(f.root, f.out, nil)
	f.d.Start(context.Background())
	return f
}

// lastWidget returns the most recently constructed widget context.
func (f *fixture) lastWidget() *widgetCtx {
	return f.widgets[len(f.widgets)-1]
}

// scriptReader feeds fixed lines, then io.EOF.
type scriptReader struct {
	lines   []string
	prompts []string
}

func (s *scriptReader) ReadLine(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}
