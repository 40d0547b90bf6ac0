// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agents

import (
	"context"
	"errors"

	"github.com/jeranaias/agentconsole/internal/commands"
	"github.com/jeranaias/agentconsole/internal/menu"
	"github.com/jeranaias/agentconsole/internal/remote"
	"github.com/jeranaias/agentconsole/internal/util"
)

// =============================================================================
// FORWARDING SURFACE
// =============================================================================

// Forwarder is what a composite command drives to run a task. Each call goes
// through the same Command an operator would type in the Task context.
type Forwarder interface {
	// Bind enters the task context for the named task without navigating
	Bind(ctx context.Context, taskName string) error

	// Set runs "Set <option> <value>"
	Set(ctx context.Context, option, value string) error

	// Unset runs "Unset <option>"
	Unset(ctx context.Context, option string) error

	// Start runs "Start", recording origin as the tasking's command line
	Start(ctx context.Context, origin string) error

	// Leave runs the task context's leave hook
	Leave(ctx context.Context)
}

// =============================================================================
// TASK CONTEXT
// =============================================================================

// TaskMenu is bound to one task template and holds the option values of the
// tasking being prepared.
type TaskMenu struct {
	menu.Base
	s     *Session
	agent func() *remote.Agent

	task   *remote.Task
	values map[string]string // keyed by commands.Key(option name)
	origin string

	show, set, unset, start *commands.Command
}

var _ Forwarder = (*TaskMenu)(nil)

// NewTaskMenu creates a detached task context. agent returns the agent the
// tasking will be submitted to.
func NewTaskMenu(s *Session, agent func() *remote.Agent) *TaskMenu {
	t := &TaskMenu{
		Base:  menu.NewBase("Task", "Run a task on the agent."),
		s:     s,
		agent: agent,
	}
	t.SetEntryParameters(commands.Parameter{
		Name:     "Task Name",
		Required: true,
		Values:   commands.Remote("tasks", s.taskNames),
	})

	options := optionNames{t}
	t.show = &commands.Command{
		Name:        "Show",
		Description: "Show the task's options.",
		Run: func(ctx context.Context, _ commands.Invocation) error {
			return t.Render(ctx)
		},
	}
	t.set = &commands.Command{
		Name:        "Set",
		Description: "Set a task option.",
		Parameters: []commands.Parameter{
			{Name: "Option", Required: true, Strict: true, Values: options},
			{Name: "Value", Required: true, Rest: true},
		},
		Run: func(_ context.Context, inv commands.Invocation) error {
			t.values[commands.Key(inv.Args[0])] = inv.Rest(1)
			return nil
		},
	}
	t.unset = &commands.Command{
		Name:        "Unset",
		Description: "Clear a task option.",
		Parameters: []commands.Parameter{
			{Name: "Option", Required: true, Strict: true, Values: options},
		},
		Run: func(_ context.Context, inv commands.Invocation) error {
			t.values[commands.Key(inv.Args[0])] = ""
			return nil
		},
	}
	t.start = &commands.Command{
		Name:        "Start",
		Description: "Start the task on the agent.",
		Run:         t.runStart,
	}
	t.Commands().MustRegister(t.show, t.set, t.unset, t.start)
	return t
}

// Task returns the bound task, or nil.
func (t *TaskMenu) Task() *remote.Task {
	return t.task
}

// Value returns the current value of an option.
func (t *TaskMenu) Value(option string) string {
	return t.values[commands.Key(option)]
}

// ValidateEntry implements menu.Context. The task name is matched
// case-insensitively and its options are loaded with their defaults.
func (t *TaskMenu) ValidateEntry(ctx context.Context, args []string) error {
	sum, err := t.s.findResource(ctx, remote.KindTask, remote.Filter{}, args[0])
	if err != nil {
		return err
	}
	task, err := t.s.Client.GetTask(ctx, sum.ID)
	if err != nil {
		return err
	}

	t.task = task
	t.values = make(map[string]string, len(task.Options))
	for _, opt := range task.Options {
		t.values[commands.Key(opt.Name)] = opt.Value
	}
	t.SetTitle(task.Name)
	return nil
}

// Refresh implements menu.Context. Options added since binding get their
// defaults; values already set are kept.
func (t *TaskMenu) Refresh(ctx context.Context) error {
	if t.task == nil {
		return nil
	}
	task, err := t.s.Client.GetTask(ctx, t.task.ID)
	if err != nil {
		return err
	}
	for _, opt := range task.Options {
		key := commands.Key(opt.Name)
		if _, ok := t.values[key]; !ok {
			t.values[key] = opt.Value
		}
	}
	t.task = task
	return nil
}

// Render implements menu.Context.
func (t *TaskMenu) Render(context.Context) error {
	if t.task == nil {
		return errors.New("no task bound")
	}
	t.s.Out.Info("Task: %s", t.task.Name)
	if t.task.Description != "" {
		t.s.Out.Info("%s", t.task.Description)
	}
	rows := make([][]string, 0, len(t.task.Options))
	for _, opt := range t.task.Options {
		rows = append(rows, []string{opt.Name, t.Value(opt.Name), util.FirstLine(opt.Description)})
	}
	t.s.Out.Table([]string{"Name", "Value", "Description"}, rows)
	return nil
}

// OnLeave implements menu.Context.
func (t *TaskMenu) OnLeave(context.Context) {
	t.task = nil
	t.values = nil
	t.origin = ""
}

func (t *TaskMenu) runStart(ctx context.Context, inv commands.Invocation) error {
	if t.task == nil {
		return errors.New("no task bound")
	}
	agent := t.agent()
	if agent == nil {
		return errors.New("no agent bound")
	}

	params := make([]string, 0, len(t.task.Options))
	for _, opt := range t.task.Options {
		v := t.Value(opt.Name)
		if v == "" && !opt.Optional {
			return commands.NewInvalidOption(opt.Name, "required option is not set")
		}
		params = append(params, v)
	}

	origin := t.origin
	if origin == "" {
		origin = inv.Raw
	}
	tk, err := t.s.Client.SubmitTasking(ctx, agent.ID, remote.TaskingSpec{
		Name:       remote.NewTaskingName(),
		Type:       remote.TaskingAssembly,
		TaskID:     t.task.ID,
		Parameters: params,
		Command:    origin,
	})
	if err != nil {
		return err
	}

	t.s.logger().Info("tasking submitted", "agent", agent.Name, "task", t.task.Name, "tasking", tk.Name)
	t.s.Out.Info("Started task %s on %s as tasking %s", t.task.Name, agent.Name, tk.Name)
	return nil
}

// =============================================================================
// Forwarder
// =============================================================================

// Bind implements Forwarder.
func (t *TaskMenu) Bind(ctx context.Context, taskName string) error {
	return menu.Enter(ctx, t, "Task", []string{taskName})
}

// Set implements Forwarder.
func (t *TaskMenu) Set(ctx context.Context, option, value string) error {
	return t.set.Execute(ctx, commands.JoinLine(t.set.Name, option, value))
}

// Unset implements Forwarder.
func (t *TaskMenu) Unset(ctx context.Context, option string) error {
	return t.unset.Execute(ctx, commands.JoinLine(t.unset.Name, option))
}

// Start implements Forwarder.
func (t *TaskMenu) Start(ctx context.Context, origin string) error {
	t.origin = origin
	defer func() { t.origin = "" }()
	return t.start.Execute(ctx, t.start.Name)
}

// Leave implements Forwarder.
func (t *TaskMenu) Leave(ctx context.Context) {
	menu.Leave(ctx, t)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// optionNames offers the bound task's option names.
type optionNames struct {
	t *TaskMenu
}

// Kind implements commands.ValueSource.
func (o optionNames) Kind() commands.SourceKind { return commands.SourceStatic }

// Resolve implements commands.ValueSource.
func (o optionNames) Resolve(context.Context) ([]string, error) {
	if o.t.task == nil {
		return []string{}, nil
	}
	return o.t.task.OptionNames(), nil
}
