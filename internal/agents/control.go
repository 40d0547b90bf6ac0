// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agents

import (
	"context"
	"strconv"

	"github.com/jeranaias/agentconsole/internal/commands"
	"github.com/jeranaias/agentconsole/internal/remote"
)

// settingTypes maps Set options to the tasking that applies them.
var settingTypes = map[string]remote.TaskingType{
	"Delay":           remote.TaskingSetDelay,
	"JitterPercent":   remote.TaskingSetJitter,
	"ConnectAttempts": remote.TaskingSetConnectAttempts,
}

func (i *Interact) setCommand() *commands.Command {
	return &commands.Command{
		Name:        "Set",
		Description: "Set an agent variable.",
		Parameters: []commands.Parameter{
			{Name: "Option", Required: true, Strict: true, Values: commands.Static("Delay", "JitterPercent", "ConnectAttempts")},
			{Name: "Value", Required: true},
		},
		ChangesState: true,
		Run: func(ctx context.Context, inv commands.Invocation) error {
			n, err := strconv.Atoi(inv.Args[1])
			if err != nil || n < 0 {
				return commands.NewInvalidOption(inv.Args[1], inv.Args[0]+" must be a non-negative integer")
			}
			return i.submit(ctx, settingTypes[inv.Args[0]], []string{strconv.Itoa(n)}, inv.Raw)
		},
	}
}

func (i *Interact) connectCommand() *commands.Command {
	return &commands.Command{
		Name:        "Connect",
		Description: "Connect to an agent using a named pipe.",
		Parameters: []commands.Parameter{
			{Name: "Computer Name", Required: true},
			{Name: "Pipe Name"},
		},
		ChangesState: true,
		Run: func(ctx context.Context, inv commands.Invocation) error {
			pipe := i.s.pipeName()
			if len(inv.Args) > 1 {
				pipe = inv.Args[1]
			}
			return i.submit(ctx, remote.TaskingConnect, []string{inv.Args[0], pipe}, inv.Raw)
		},
	}
}

func (i *Interact) disconnectCommand() *commands.Command {
	return &commands.Command{
		Name:        "Disconnect",
		Description: "Disconnect from a connected child agent.",
		Parameters: []commands.Parameter{{
			Name:     "Child Agent Name",
			Required: true,
			Strict:   true,
			Values:   commands.Remote("child agents", i.fetchChildNames),
		}},
		ChangesState: true,
		Run: func(ctx context.Context, inv commands.Invocation) error {
			child, err := i.s.findResource(ctx, remote.KindAgent, remote.Filter{}, inv.Args[0])
			if err != nil {
				return err
			}
			return i.submit(ctx, remote.TaskingDisconnect, []string{child.ID}, inv.Raw)
		},
	}
}

func (i *Interact) jobsCommand() *commands.Command {
	return &commands.Command{
		Name:         "Jobs",
		Description:  "Get a list of actively running tasks.",
		ChangesState: true,
		Run: func(ctx context.Context, inv commands.Invocation) error {
			return i.submit(ctx, remote.TaskingJobs, nil, inv.Raw)
		},
	}
}

// fetchChildNames resolves the bound agent's current children.
func (i *Interact) fetchChildNames(ctx context.Context) ([]string, error) {
	agent, err := i.s.Client.GetAgent(ctx, i.agentID)
	if err != nil {
		return nil, err
	}
	return i.childNames(ctx, agent)
}
