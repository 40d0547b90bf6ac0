// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agents

import (
	"context"
	"strings"

	"github.com/jeranaias/agentconsole/internal/commands"
	"github.com/jeranaias/agentconsole/internal/menu"
	"github.com/jeranaias/agentconsole/internal/remote"
)

// Interact is bound to one agent.
type Interact struct {
	menu.Base
	s *Session

	agentID  string
	agent    *remote.Agent    // last known detail
	taskings []remote.Tasking // last known taskings
	children []string         // names of connected child agents

	// psImport accumulates PowerShellImport scripts; PowerShell runs prepend
	// it. Reset on leave.
	psImport string
}

// NewInteract creates a detached Interact context.
func NewInteract(s *Session) *Interact {
	i := &Interact{Base: menu.NewBase("Interact", "Interact with an agent."), s: s}
	i.SetEntryParameters(commands.Parameter{
		Name:     "Agent Name",
		Required: true,
		Values:   commands.Remote("agents", s.agentNames),
	})
	i.AddChild(menu.Child{
		Name:        "Task",
		Description: "Configure and start a task.",
		New:         func() menu.Context { return i.newTask() },
	})
	i.registerCommands()
	return i
}

// Agent returns the last known state of the bound agent.
func (i *Interact) Agent() *remote.Agent {
	return i.agent
}

// ValidateEntry implements menu.Context. The agent is matched
// case-insensitively; the title becomes the name as typed, lowercased.
func (i *Interact) ValidateEntry(ctx context.Context, args []string) error {
	sum, err := i.s.findResource(ctx, remote.KindAgent, i.s.agentFilter(), args[0])
	if err != nil {
		return err
	}
	agent, err := i.s.Client.GetAgent(ctx, sum.ID)
	if err != nil {
		return err
	}
	i.agentID = agent.ID
	i.agent = agent
	i.SetTitle(strings.ToLower(args[0]))
	return nil
}

// Refresh implements menu.Context. On failure the last known state is kept.
func (i *Interact) Refresh(ctx context.Context) error {
	agent, err := i.s.Client.GetAgent(ctx, i.agentID)
	if err != nil {
		return err
	}
	taskings, err := i.s.Client.ListTaskings(ctx, i.agentID, remote.TaskingFilter{})
	if err != nil {
		return err
	}
	children, err := i.childNames(ctx, agent)
	if err != nil {
		return err
	}

	i.agent = agent
	i.taskings = taskings
	i.children = children
	return nil
}

// Render implements menu.Context.
func (i *Interact) Render(context.Context) error {
	i.show()
	return nil
}

// OnLeave implements menu.Context.
func (i *Interact) OnLeave(context.Context) {
	i.psImport = ""
}

// newTask creates a task context submitting to this agent.
func (i *Interact) newTask() *TaskMenu {
	return NewTaskMenu(i.s, i.Agent)
}

func (i *Interact) registerCommands() {
	i.Commands().MustRegister(
		&commands.Command{
			Name:        "Show",
			Description: "Show details of the agent.",
			Run: func(ctx context.Context, _ commands.Invocation) error {
				if err := i.Refresh(ctx); err != nil {
					i.s.Out.Report(err)
				}
				i.show()
				return nil
			},
		},
		i.setCommand(),
	)
	for _, spec := range leafCommands {
		i.Commands().MustRegister(i.leafCommand(spec))
	}
	i.Commands().MustRegister(
		i.connectCommand(),
		i.disconnectCommand(),
		i.jobsCommand(),
		i.historyCommand(),
	)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// childNames resolves the ids of an agent's children to names. Children the
// service no longer lists are skipped.
func (i *Interact) childNames(ctx context.Context, agent *remote.Agent) ([]string, error) {
	if len(agent.Children) == 0 {
		return nil, nil
	}
	summaries, err := i.s.Client.ListResources(ctx, remote.KindAgent, remote.Filter{})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]string, len(summaries))
	for _, sum := range summaries {
		byID[sum.ID] = sum.Name
	}

	var names []string
	for _, id := range agent.Children {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// submit queues a direct tasking on the bound agent.
func (i *Interact) submit(ctx context.Context, typ remote.TaskingType, params []string, origin string) error {
	tk, err := i.s.Client.SubmitTasking(ctx, i.agentID, remote.TaskingSpec{
		Name:       remote.NewTaskingName(),
		Type:       typ,
		Parameters: params,
		Command:    origin,
	})
	if err != nil {
		return err
	}
	i.s.logger().Info("tasking submitted", "agent", i.agentName(), "type", typ, "tasking", tk.Name)
	i.s.Out.Info("Tasked %s with %s as tasking %s", i.agentName(), typ, tk.Name)
	return nil
}

func (i *Interact) agentName() string {
	if i.agent == nil {
		return i.Title()
	}
	return i.agent.Name
}
