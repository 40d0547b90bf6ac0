// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Invocation is a parsed, validated call of a command.
type Invocation struct {
	// Raw is the line as typed (or as synthesized by a forwarding command)
	Raw string

	// Args are the tokens after the command name. Arguments of strict
	// parameters are replaced by the canonical spelling of the matched value.
	Args []string
}

// Rest joins the arguments from index i onward with single spaces.
func (inv Invocation) Rest(i int) string {
	if i >= len(inv.Args) {
		return ""
	}
	return strings.Join(inv.Args[i:], " ")
}

// Tail returns the raw text after the command name, quotes preserved.
func (inv Invocation) Tail() string {
	trimmed := strings.TrimSpace(inv.Raw)
	name := FirstToken(trimmed)
	return strings.TrimSpace(trimmed[len(name):])
}

// Command is a named operator action with ordered, typed parameters.
type Command struct {
	// Name is matched case-insensitively against the first token
	Name string

	// Description is shown in help
	Description string

	// Usage overrides the usage line derived from Parameters
	Usage string

	// Parameters in positional order
	Parameters []Parameter

	// ChangesState makes the dispatcher refresh and redraw the context
	// after a successful run
	ChangesState bool

	// Hidden commands don't appear in help or completion
	Hidden bool

	// Run executes a validated invocation
	Run func(ctx context.Context, inv Invocation) error
}

// UsageLine returns the literal usage string for the command.
func (c *Command) UsageLine() string {
	if c.Usage != "" {
		return c.Usage
	}
	parts := []string{c.Name}
	for _, p := range c.Parameters {
		parts = append(parts, p.Placeholder())
	}
	return strings.Join(parts, " ")
}

// Arity returns the minimum and maximum argument count. Max is -1 when the
// last parameter is a Rest parameter.
func (c *Command) Arity() (min, max int) {
	for _, p := range c.Parameters {
		if p.Required {
			min++
		}
		if p.Rest {
			return min, -1
		}
	}
	return min, len(c.Parameters)
}

// Parse tokenizes raw and checks it against the command's shape without
// running it. An empty line is read as the bare command name.
func (c *Command) Parse(ctx context.Context, raw string) (Invocation, error) {
	tokens, err := Tokenize(raw)
	if err != nil {
		return Invocation{}, err
	}
	if len(tokens) == 0 {
		tokens = []string{c.Name}
	}
	if !Match(tokens[0], c.Name) {
		return Invocation{}, NewInvalidOption(raw, "not a "+c.Name+" command")
	}

	inv := Invocation{Raw: raw, Args: tokens[1:]}

	min, max := c.Arity()
	if len(inv.Args) < min {
		return Invocation{}, NewUsageError(c, "")
	}
	if max >= 0 && len(inv.Args) > max {
		return Invocation{}, NewInvalidOption(raw, "too many arguments")
	}

	if err := c.validate(ctx, inv.Args); err != nil {
		return Invocation{}, err
	}
	return inv, nil
}

// validate checks arguments of strict parameters against their resolved
// value sets, canonicalizing matches in place.
func (c *Command) validate(ctx context.Context, args []string) error {
	for i, p := range c.Parameters {
		if i >= len(args) {
			break
		}
		if p.Rest {
			break
		}
		if !p.Strict || p.Values == nil {
			continue
		}
		legal, err := p.Values.Resolve(ctx)
		if err != nil {
			return err
		}
		canonical, ok := Find(args[i], legal)
		if !ok {
			return NewInvalidOption(args[i], "not a valid "+p.Name)
		}
		args[i] = canonical
	}
	return nil
}

// Execute parses raw and runs the command. Forwarded calls go through here
// exactly like typed ones.
func (c *Command) Execute(ctx context.Context, raw string) error {
	inv, err := c.Parse(ctx, raw)
	if err != nil {
		return err
	}
	if c.Run == nil {
		return fmt.Errorf("%s: no handler", c.Name)
	}
	return c.Run(ctx, inv)
}

// =============================================================================
// NAME MATCHING
// =============================================================================

// Key folds a name for case-insensitive lookup.
func Key(name string) string {
	return cases.Fold().String(name)
}

// Match reports whether two names are equal under case folding.
func Match(a, b string) bool {
	return Key(a) == Key(b)
}

// Find returns the element of values equal to name under case folding.
func Find(name string, values []string) (string, bool) {
	key := Key(name)
	for _, v := range values {
		if Key(v) == key {
			return v, true
		}
	}
	return "", false
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds the commands of one menu context in registration order.
type Registry struct {
	commands map[string]*Command
	order    []*Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]*Command)}
}

// Register adds a command. Names must be unique under case folding.
func (r *Registry) Register(cmd *Command) error {
	key := Key(cmd.Name)
	if _, exists := r.commands[key]; exists {
		return fmt.Errorf("command '%s' already registered", cmd.Name)
	}
	r.commands[key] = cmd
	r.order = append(r.order, cmd)
	return nil
}

// MustRegister registers cmds and panics on a duplicate name. Use it for
// command tables built at construction time.
func (r *Registry) MustRegister(cmds ...*Command) {
	for _, cmd := range cmds {
		if err := r.Register(cmd); err != nil {
			panic(err)
		}
	}
}

// Lookup retrieves a command by case-insensitive name.
func (r *Registry) Lookup(name string) (*Command, bool) {
	cmd, ok := r.commands[Key(name)]
	return cmd, ok
}

// All returns the commands in registration order.
func (r *Registry) All() []*Command {
	return append([]*Command(nil), r.order...)
}

// Names returns the visible command names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.order))
	for _, cmd := range r.order {
		if !cmd.Hidden {
			names = append(names, cmd.Name)
		}
	}
	return names
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	return len(r.order)
}
