// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package menu

import (
	"context"
	"strings"

	"github.com/jeranaias/agentconsole/internal/commands"
)

// =============================================================================
// CONTEXT
// =============================================================================

// Context is one node of the navigation tree.
//
// Implementations embed Base, which supplies the bookkeeping and no-op
// lifecycle hooks, and override the hooks they need.
type Context interface {
	// Title is shown in the prompt path
	Title() string

	// Description is shown in help
	Description() string

	// EntryParameters are the arguments required to enter this context
	EntryParameters() []commands.Parameter

	// Children are the sub-contexts reachable by name
	Children() []Child

	// Commands are the actions available at this level
	Commands() *commands.Registry

	// State is the lifecycle state of this instance
	State() State

	// ValidateEntry gates entering the context. args have passed CheckEntry.
	// On success the context is bound to whatever args name.
	ValidateEntry(ctx context.Context, args []string) error

	// Refresh resynchronizes the context from remote state. It must be
	// idempotent.
	Refresh(ctx context.Context) error

	// Render draws the default display.
	Render(ctx context.Context) error

	// OnEnter runs after the context is pushed.
	OnEnter(ctx context.Context)

	// OnLeave runs when the context is left.
	OnLeave(ctx context.Context)

	// OnReturn runs on the parent after child has been popped.
	OnReturn(ctx context.Context, child Context)

	base() *Base
}

// Child is a named entry point to a sub-context. New builds a fresh instance
// each time the operator navigates into it; the instance is discarded on
// leave.
type Child struct {
	Name        string
	Description string
	New         func() Context
}

// =============================================================================
// BASE
// =============================================================================

// Base implements the bookkeeping part of Context.
type Base struct {
	title       string
	description string
	params      []commands.Parameter
	children    []Child
	registry    *commands.Registry
	state       State
}

// NewBase creates a detached base with an empty command registry.
func NewBase(title, description string) Base {
	return Base{
		title:       title,
		description: description,
		registry:    commands.NewRegistry(),
	}
}

func (b *Base) base() *Base { return b }

// Title implements Context.
func (b *Base) Title() string { return b.title }

// SetTitle changes the title shown in the prompt path.
func (b *Base) SetTitle(title string) { b.title = title }

// Description implements Context.
func (b *Base) Description() string { return b.description }

// EntryParameters implements Context.
func (b *Base) EntryParameters() []commands.Parameter { return b.params }

// SetEntryParameters declares the arguments needed to enter the context.
func (b *Base) SetEntryParameters(params ...commands.Parameter) { b.params = params }

// Children implements Context.
func (b *Base) Children() []Child { return b.children }

// AddChild registers a sub-context entry point.
func (b *Base) AddChild(child Child) { b.children = append(b.children, child) }

// Commands implements Context.
func (b *Base) Commands() *commands.Registry {
	if b.registry == nil {
		b.registry = commands.NewRegistry()
	}
	return b.registry
}

// State implements Context.
func (b *Base) State() State { return b.state }

// ValidateEntry implements Context. The dispatcher has already checked the
// arguments against the entry parameters.
func (b *Base) ValidateEntry(context.Context, []string) error { return nil }

// Refresh implements Context.
func (b *Base) Refresh(context.Context) error { return nil }

// Render implements Context.
func (b *Base) Render(context.Context) error { return nil }

// OnEnter implements Context.
func (b *Base) OnEnter(context.Context) {}

// OnLeave implements Context.
func (b *Base) OnLeave(context.Context) {}

// OnReturn implements Context.
func (b *Base) OnReturn(context.Context, Context) {}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// FindChild returns the child of c with the given name, case-insensitively.
func FindChild(c Context, name string) (Child, bool) {
	for _, child := range c.Children() {
		if commands.Match(child.Name, name) {
			return child, true
		}
	}
	return Child{}, false
}

// EntryUsage renders the usage line for entering a context by name.
func EntryUsage(name string, params []commands.Parameter) string {
	parts := []string{name}
	for _, p := range params {
		parts = append(parts, p.Placeholder())
	}
	return strings.Join(parts, " ")
}

// Enter runs the entry protocol on c without pushing it: args are checked
// against the entry parameters, then ValidateEntry binds the context. On
// success c is Active; on failure it is Detached again.
func Enter(ctx context.Context, c Context, name string, args []string) error {
	b := c.base()
	b.state = StateEntering

	args, err := CheckEntry(ctx, name, c.EntryParameters(), args)
	if err == nil {
		err = c.ValidateEntry(ctx, args)
	}
	if err != nil {
		b.state = StateDetached
		return err
	}
	b.state = StateActive
	return nil
}

// Leave runs the OnLeave hook of c and marks it Left.
func Leave(ctx context.Context, c Context) {
	c.OnLeave(ctx)
	c.base().state = StateLeft
}

// CheckEntry validates entry arguments: any arity mismatch is a UsageError,
// and strict parameters are checked against their resolved values. It
// returns the arguments with strict values canonicalized.
func CheckEntry(ctx context.Context, name string, params []commands.Parameter, args []string) ([]string, error) {
	cmd := &commands.Command{Name: name, Parameters: params, Usage: EntryUsage(name, params)}

	min, max := cmd.Arity()
	if len(args) < min || (max >= 0 && len(args) > max) {
		reason := ""
		if len(args) > 0 && max >= 0 && len(args) > max {
			reason = "too many arguments"
		}
		return nil, commands.NewUsageError(cmd, reason)
	}

	line := commands.JoinLine(append([]string{name}, args...)...)
	inv, err := cmd.Parse(ctx, line)
	if err != nil {
		return nil, err
	}
	return inv.Args, nil
}
