// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package menu

import (
	"context"

	"github.com/jeranaias/agentconsole/internal/commands"
	"github.com/jeranaias/agentconsole/internal/util"
)

const helpName = "Help"

// helpCommand lists what can be typed at the current depth.
func (d *Dispatcher) helpCommand() *commands.Command {
	return &commands.Command{
		Name:        helpName,
		Description: "Display the menus and commands available here.",
		Run: func(_ context.Context, _ commands.Invocation) error {
			d.out.Table([]string{"Name", "Description", "Usage"}, d.helpRows())
			return nil
		},
	}
}

func (d *Dispatcher) helpRows() [][]string {
	current := d.stack.Top()
	var rows [][]string

	for _, child := range current.Children() {
		params := child.New().EntryParameters()
		rows = append(rows, []string{child.Name, util.FirstLine(child.Description), EntryUsage(child.Name, params)})
	}

	seen := make(map[string]bool)
	for _, c := range d.stack.Scope() {
		for _, cmd := range c.Commands().All() {
			key := commands.Key(cmd.Name)
			if cmd.Hidden || seen[key] {
				continue
			}
			seen[key] = true
			rows = append(rows, []string{cmd.Name, util.FirstLine(cmd.Description), cmd.UsageLine()})
		}
	}

	if d.stack.Len() > 1 {
		rows = append(rows, []string{"Back", "Return to the previous menu.", "Back"})
	}
	rows = append(rows, []string{"Exit", "Exit the console.", "Exit"})
	return rows
}
