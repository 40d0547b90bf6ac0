// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agents

import (
	"context"
	"os"

	"github.com/jeranaias/agentconsole/internal/commands"
	"github.com/jeranaias/agentconsole/internal/menu"
	"github.com/jeranaias/agentconsole/internal/remote"
)

// timeLayout renders remote timestamps.
const timeLayout = "2006-01-02 15:04:05"

// Root is the "Main" context.
type Root struct {
	menu.Base
	s *Session
}

// NewRoot builds the root of the menu tree.
func NewRoot(s *Session) *Root {
	if s.Files == nil && s.DataDir != "" {
		s.Files = os.DirFS(s.DataDir)
	}

	r := &Root{Base: menu.NewBase("Main", "Main menu."), s: s}
	r.AddChild(menu.Child{
		Name:        "Interact",
		Description: "Interact with an agent.",
		New:         func() menu.Context { return NewInteract(s) },
	})
	r.Commands().MustRegister(&commands.Command{
		Name:        "Agents",
		Description: "List agents.",
		Run: func(ctx context.Context, _ commands.Invocation) error {
			return r.listAgents(ctx)
		},
	})
	return r
}

// OnEnter implements menu.Context.
func (r *Root) OnEnter(context.Context) {
	r.s.Out.Info("Type Help for a list of commands.")
}

func (r *Root) listAgents(ctx context.Context) error {
	summaries, err := r.s.Client.ListResources(ctx, remote.KindAgent, remote.Filter{})
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		r.s.Out.Info("No agents.")
		return nil
	}

	rows := make([][]string, 0, len(summaries))
	for _, sum := range summaries {
		rows = append(rows, []string{sum.Name, sum.Status, sum.Detail, formatTime(sum.Seen)})
	}
	r.s.Out.Table([]string{"Name", "Status", "Hostname", "LastCheckIn"}, rows)
	return nil
}
