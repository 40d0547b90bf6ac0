// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agents

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/jeranaias/agentconsole/internal/commands"
	"github.com/jeranaias/agentconsole/internal/remote"
)

func (i *Interact) historyCommand() *commands.Command {
	cmd := &commands.Command{
		Name:        "History",
		Description: "Show the output of completed task(s).",
		Usage:       "History [ <completed_task_name> | <task_quantity> ]",
		Parameters: []commands.Parameter{{
			Name:   "Task",
			Values: commands.Remote("completed taskings", i.completedNames),
		}},
	}
	cmd.Run = func(ctx context.Context, inv commands.Invocation) error {
		completed, err := i.completed(ctx)
		if err != nil {
			return err
		}
		selected, ok := selectHistory(completed, inv.Args)
		if !ok {
			names := make([]string, len(completed))
			for n, tk := range completed {
				names[n] = tk.Name
			}
			return commands.NewUsageError(cmd, "Valid completed task names: "+strings.Join(names, ", "))
		}
		for _, tk := range selected {
			i.printTasking(tk)
		}
		return nil
	}
	return cmd
}

// completed fetches the bound agent's completed taskings, oldest first.
func (i *Interact) completed(ctx context.Context) ([]remote.Tasking, error) {
	taskings, err := i.s.Client.ListTaskings(ctx, i.agentID, remote.TaskingFilter{Status: remote.TaskingCompleted})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(taskings, func(a, b remote.Tasking) int {
		return a.CompletionTime.Compare(b.CompletionTime)
	})
	return taskings, nil
}

func (i *Interact) completedNames(ctx context.Context) ([]string, error) {
	completed, err := i.completed(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(completed))
	for n, tk := range completed {
		names[n] = tk.Name
	}
	return names, nil
}

// selectHistory picks what History prints: everything without an argument,
// the tasking with that name, or the last N. A name wins over a number.
func selectHistory(completed []remote.Tasking, args []string) ([]remote.Tasking, bool) {
	if len(args) == 0 {
		return completed, true
	}
	for _, tk := range completed {
		if commands.Match(tk.Name, args[0]) {
			return []remote.Tasking{tk}, true
		}
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return nil, false
	}
	if n > len(completed) {
		n = len(completed)
	}
	return completed[len(completed)-n:], true
}

func (i *Interact) printTasking(tk remote.Tasking) {
	i.s.Out.Info("[%s UTC] Agent: %s Tasking: %s", formatTime(tk.CompletionTime), i.agentName(), tk.Name)
	i.s.Out.Info("> %s", tk.Command)
	if tk.Output != "" {
		i.s.Out.Highlight("%s", tk.Output)
	}
}
