// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package menu

import (
	"context"

	"github.com/jeranaias/agentconsole/internal/commands"
)

// Complete returns full-line completions for a partially typed line. Value
// sources are resolved now, against the live context.
func (d *Dispatcher) Complete(ctx context.Context, line string) []string {
	done, partial := commands.PartialArg(line)

	if len(done) == 0 {
		var out []string
		for _, c := range commands.CompleteFromList(d.visibleNames(), partial) {
			out = append(out, c.Value)
		}
		return out
	}

	params, ok := d.parametersFor(done[0])
	if !ok {
		return nil
	}

	completions, err := commands.CompleteParameter(ctx, params, len(done)-1, partial)
	if err != nil {
		// Printing would corrupt the prompt line.
		d.logger.Warn("completion source failed", "token", done[0], "error", err)
	}

	prefix := commands.JoinLine(done...) + " "
	out := make([]string, 0, len(completions))
	for _, c := range completions {
		out = append(out, prefix+commands.Quote(c.Value))
	}
	return out
}

// parametersFor returns the parameter list the first token addresses.
func (d *Dispatcher) parametersFor(first string) ([]commands.Parameter, bool) {
	if child, ok := FindChild(d.stack.Top(), first); ok {
		return child.New().EntryParameters(), true
	}
	if cmd, ok := d.Lookup(first); ok {
		return cmd.Parameters, true
	}
	return nil, false
}
