// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package menu

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/jeranaias/agentconsole/internal/commands"
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// Output is where contexts and the dispatcher write operator-facing text.
type Output interface {
	Info(format string, args ...any)
	Highlight(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	Table(headers []string, rows [][]string)
	Report(err error)
}

// LineReader reads one line of operator input. It returns io.EOF when the
// input is exhausted.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// Navigation keywords, matched case-insensitively.
var (
	backWords = []string{"back", ".."}
	exitWords = []string{"exit", "quit"}
)

// =============================================================================
// DISPATCHER
// =============================================================================

// Dispatcher is the read-eval loop. It owns the navigation stack; one line
// runs to completion before the next is read.
type Dispatcher struct {
	stack  *Stack
	out    Output
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher rooted at root and installs the global
// Help command on it.
func NewDispatcher(root Context, out Output, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	d := &Dispatcher{
		stack:  NewStack(root),
		out:    out,
		logger: logger,
	}
	if _, exists := root.Commands().Lookup(helpName); !exists {
		root.Commands().MustRegister(d.helpCommand())
	}
	return d
}

// Stack returns the navigation stack.
func (d *Dispatcher) Stack() *Stack {
	return d.stack
}

// Current returns the active context.
func (d *Dispatcher) Current() Context {
	return d.stack.Top()
}

// Prompt renders the navigation path, e.g. "(Main: foo) > ".
func (d *Dispatcher) Prompt() string {
	return "(" + strings.Join(d.stack.Path(), ": ") + ") > "
}

// Start activates the root context and draws it.
func (d *Dispatcher) Start(ctx context.Context) {
	root := d.stack.Root()
	root.base().state = StateActive
	root.OnEnter(ctx)
	d.refresh(ctx, root)
	d.render(ctx, root)
}

// Run starts the root and reads lines until exit or EOF. Errors from
// dispatched lines never end the loop; only a reader failure does.
func (d *Dispatcher) Run(ctx context.Context, in LineReader) error {
	d.Start(ctx)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line, err := in.ReadLine(d.Prompt())
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if d.Dispatch(ctx, line) {
			return nil
		}
	}
}

// Dispatch handles one input line. It returns true when the operator asked
// to exit.
func (d *Dispatcher) Dispatch(ctx context.Context, line string) (exit bool) {
	tokens, err := commands.Tokenize(line)
	if err != nil {
		d.out.Report(err)
		return false
	}
	if len(tokens) == 0 {
		return false
	}

	first := tokens[0]
	current := d.stack.Top()
	d.logger.Debug("dispatch", "path", strings.Join(d.stack.Path(), "/"), "token", first)

	switch {
	case isWord(first, backWords):
		d.back(ctx)
	case isWord(first, exitWords):
		return true
	default:
		if child, ok := FindChild(current, first); ok {
			d.enter(ctx, child, tokens[1:])
			return false
		}
		if cmd, ok := d.Lookup(first); ok {
			d.execute(ctx, cmd, line)
			return false
		}
		d.out.Report(&commands.InvalidOptionError{
			Input:       line,
			Reason:      "unknown command",
			Suggestions: commands.Suggest(first, d.visibleNames(), 3),
		})
	}
	return false
}

// Lookup finds a command visible at the current context, searching from the
// top of the stack down to the root.
func (d *Dispatcher) Lookup(name string) (*commands.Command, bool) {
	for _, c := range d.stack.Scope() {
		if cmd, ok := c.Commands().Lookup(name); ok {
			return cmd, true
		}
	}
	return nil, false
}

// =============================================================================
// NAVIGATION
// =============================================================================

func (d *Dispatcher) enter(ctx context.Context, child Child, args []string) {
	next := child.New()
	if err := Enter(ctx, next, child.Name, args); err != nil {
		d.logger.Debug("entry refused", "child", child.Name, "error", err)
		d.out.Report(err)
		return
	}

	d.stack.Push(next)
	next.OnEnter(ctx)
	d.refresh(ctx, next)
	d.render(ctx, next)
}

func (d *Dispatcher) back(ctx context.Context) {
	top := d.stack.Top()
	if d.stack.Len() == 1 {
		return
	}
	Leave(ctx, top)
	d.stack.Pop()

	parent := d.stack.Top()
	parent.OnReturn(ctx, top)
	d.refresh(ctx, parent)
	d.render(ctx, parent)
}

// =============================================================================
// EXECUTION
// =============================================================================

func (d *Dispatcher) execute(ctx context.Context, cmd *commands.Command, line string) {
	current := d.stack.Top()
	if err := cmd.Execute(ctx, line); err != nil {
		d.logger.Debug("command failed", "command", cmd.Name, "error", err)
		d.out.Report(err)
		return
	}
	if cmd.ChangesState {
		d.refresh(ctx, current)
		d.render(ctx, current)
	}
}

// refresh resynchronizes c. A failure leaves c stale with its last known
// state and is reported as a warning.
func (d *Dispatcher) refresh(ctx context.Context, c Context) {
	b := c.base()
	b.state = StateRefreshing
	if err := c.Refresh(ctx); err != nil {
		b.state = StateStale
		d.logger.Warn("refresh failed", "context", c.Title(), "error", err)
		d.out.Report(err)
		return
	}
	b.state = StateActive
}

func (d *Dispatcher) render(ctx context.Context, c Context) {
	if err := c.Render(ctx); err != nil {
		d.out.Report(err)
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// visibleNames lists everything the first token can name at this depth.
func (d *Dispatcher) visibleNames() []string {
	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		key := commands.Key(name)
		if !seen[key] {
			seen[key] = true
			names = append(names, name)
		}
	}

	for _, child := range d.stack.Top().Children() {
		add(child.Name)
	}
	for _, c := range d.stack.Scope() {
		for _, name := range c.Commands().Names() {
			add(name)
		}
	}
	if d.stack.Len() > 1 {
		add(backWords[0])
	}
	add(exitWords[0])
	return names
}

func isWord(token string, words []string) bool {
	_, ok := commands.Find(token, words)
	return ok
}
