// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package memory provides an in-process remote.Client backed by fixtures.
// It records every call, which makes it the fake of choice in tests, and
// seeds the --demo mode of the console.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/agentconsole/internal/remote"
)

// =============================================================================
// CALL RECORDING
// =============================================================================

// Op names a Client method.
type Op string

const (
	OpListResources Op = "ListResources"
	OpGetAgent      Op = "GetAgent"
	OpGetTask       Op = "GetTask"
	OpSubmitTasking Op = "SubmitTasking"
	OpListTaskings  Op = "ListTaskings"
)

// Call is one recorded Client invocation.
type Call struct {
	Op   Op
	ID   string              // Agent or task id, when the op takes one
	Spec *remote.TaskingSpec // SubmitTasking only
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is an in-memory remote.Client. Safe for concurrent use.
type Client struct {
	mu       sync.Mutex
	agents   []*remote.Agent
	tasks    []*remote.Task
	taskings map[string][]*remote.Tasking
	failures map[Op][]error
	calls    []Call
	now      func() time.Time
}

// New creates an empty client.
func New() *Client {
	return &Client{
		taskings: make(map[string][]*remote.Tasking),
		failures: make(map[Op][]error),
		now:      time.Now,
	}
}

var _ remote.Client = (*Client)(nil)

// SetClock replaces the time source used for tasking timestamps.
func (c *Client) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// AddAgent stores a copy of agent, assigning an id when empty.
func (c *Client) AddAgent(agent remote.Agent) *remote.Agent {
	c.mu.Lock()
	defer c.mu.Unlock()
	if agent.ID == "" {
		agent.ID = uuid.NewString()
	}
	a := agent
	c.agents = append(c.agents, &a)
	return cloneAgent(&a)
}

// AddTask stores a copy of task, assigning an id when empty.
func (c *Client) AddTask(task remote.Task) *remote.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	t := task
	t.Options = slices.Clone(task.Options)
	c.tasks = append(c.tasks, &t)
	return cloneTask(&t)
}

// UpdateAgent applies fn to the stored agent.
func (c *Client) UpdateAgent(id string, fn func(*remote.Agent)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	a := c.agent(id)
	if a == nil {
		return remote.NotFound("agent %s not found", id)
	}
	fn(a)
	return nil
}

// FailNext makes the next call of op return err. Multiple failures queue.
func (c *Client) FailNext(op Op, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures[op] = append(c.failures[op], err)
}

// Calls returns the recorded calls in order.
func (c *Client) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.calls)
}

// Submitted returns the specs of every SubmitTasking call in order,
// including rejected ones.
func (c *Client) Submitted() []remote.TaskingSpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	var specs []remote.TaskingSpec
	for _, call := range c.calls {
		if call.Op == OpSubmitTasking {
			specs = append(specs, *call.Spec)
		}
	}
	return specs
}

// ResetCalls clears the call log.
func (c *Client) ResetCalls() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = nil
}

// Complete marks a tasking as completed with output at the given time and
// applies its effect to the agent for the settings taskings.
func (c *Client) Complete(agentID, taskingName, output string, at time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, tk := range c.taskings[agentID] {
		if tk.Name != taskingName {
			continue
		}
		tk.Status = remote.TaskingCompleted
		tk.Output = output
		tk.CompletionTime = at
		if a := c.agent(agentID); a != nil {
			applySetting(a, tk)
		}
		return nil
	}
	return remote.NotFound("tasking %s not found", taskingName)
}

// AddCompletedTasking stores a finished tasking directly.
func (c *Client) AddCompletedTasking(agentID string, tasking remote.Tasking) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tasking.AgentID = agentID
	tasking.Status = remote.TaskingCompleted
	if tasking.ID == "" {
		tasking.ID = uuid.NewString()
	}
	tk := tasking
	c.taskings[agentID] = append(c.taskings[agentID], &tk)
}

// =============================================================================
// remote.Client
// =============================================================================

// ListResources implements remote.Client.
func (c *Client) ListResources(_ context.Context, kind remote.Kind, filter remote.Filter) ([]remote.Summary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.record(Call{Op: OpListResources, ID: string(kind)}); err != nil {
		return nil, err
	}

	var out []remote.Summary
	switch kind {
	case remote.KindAgent:
		for _, a := range c.agents {
			if filter.Status != "" && a.Status != filter.Status {
				continue
			}
			out = append(out, remote.Summary{
				Kind: kind, ID: a.ID, Name: a.Name, Status: string(a.Status),
				Detail: a.Hostname, Seen: a.LastCheckIn,
			})
		}
	case remote.KindTask:
		for _, t := range c.tasks {
			out = append(out, remote.Summary{Kind: kind, ID: t.ID, Name: t.Name, Detail: t.Description})
		}
	default:
		return nil, remote.NotFound("unknown resource kind %q", kind)
	}
	return out, nil
}

// GetAgent implements remote.Client.
func (c *Client) GetAgent(_ context.Context, id string) (*remote.Agent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.record(Call{Op: OpGetAgent, ID: id}); err != nil {
		return nil, err
	}
	a := c.agent(id)
	if a == nil {
		return nil, remote.NotFound("agent %s not found", id)
	}
	return cloneAgent(a), nil
}

// GetTask implements remote.Client.
func (c *Client) GetTask(_ context.Context, id string) (*remote.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.record(Call{Op: OpGetTask, ID: id}); err != nil {
		return nil, err
	}
	for _, t := range c.tasks {
		if t.ID == id {
			return cloneTask(t), nil
		}
	}
	return nil, remote.NotFound("task %s not found", id)
}

// SubmitTasking implements remote.Client.
func (c *Client) SubmitTasking(_ context.Context, agentID string, spec remote.TaskingSpec) (*remote.Tasking, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	recorded := spec
	recorded.Parameters = slices.Clone(spec.Parameters)
	if err := c.record(Call{Op: OpSubmitTasking, ID: agentID, Spec: &recorded}); err != nil {
		return nil, err
	}

	a := c.agent(agentID)
	if a == nil {
		return nil, remote.NotFound("agent %s not found", agentID)
	}
	if a.Status != remote.AgentActive {
		return nil, remote.Rejected(fmt.Sprintf("agent %s is %s", a.Name, a.Status))
	}

	name := spec.Name
	if name == "" {
		name = remote.NewTaskingName()
	}
	tk := &remote.Tasking{
		ID:          uuid.NewString(),
		Name:        name,
		AgentID:     agentID,
		TaskID:      spec.TaskID,
		Type:        spec.Type,
		Status:      remote.TaskingTasked,
		Parameters:  slices.Clone(spec.Parameters),
		Command:     spec.Command,
		TaskingTime: c.now(),
	}
	c.taskings[agentID] = append(c.taskings[agentID], tk)

	copied := *tk
	return &copied, nil
}

// ListTaskings implements remote.Client.
func (c *Client) ListTaskings(_ context.Context, agentID string, filter remote.TaskingFilter) ([]remote.Tasking, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.record(Call{Op: OpListTaskings, ID: agentID}); err != nil {
		return nil, err
	}
	if c.agent(agentID) == nil {
		return nil, remote.NotFound("agent %s not found", agentID)
	}

	var out []remote.Tasking
	for _, tk := range c.taskings[agentID] {
		if filter.Status != "" && tk.Status != filter.Status {
			continue
		}
		copied := *tk
		copied.Parameters = slices.Clone(tk.Parameters)
		out = append(out, copied)
	}
	return out, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// record logs a call and pops a queued failure for its op. Caller holds mu.
func (c *Client) record(call Call) error {
	c.calls = append(c.calls, call)
	queue := c.failures[call.Op]
	if len(queue) == 0 {
		return nil
	}
	err := queue[0]
	c.failures[call.Op] = queue[1:]
	return err
}

// agent returns the stored agent with id. Caller holds mu.
func (c *Client) agent(id string) *remote.Agent {
	for _, a := range c.agents {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func applySetting(a *remote.Agent, tk *remote.Tasking) {
	if len(tk.Parameters) == 0 {
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(tk.Parameters[0]))
	if err != nil {
		return
	}
	switch tk.Type {
	case remote.TaskingSetDelay:
		a.Delay = n
	case remote.TaskingSetJitter:
		a.JitterPercent = n
	case remote.TaskingSetConnectAttempts:
		a.ConnectAttempts = n
	}
}

func cloneAgent(a *remote.Agent) *remote.Agent {
	copied := *a
	copied.Children = slices.Clone(a.Children)
	return &copied
}

func cloneTask(t *remote.Task) *remote.Task {
	copied := *t
	copied.Options = slices.Clone(t.Options)
	return &copied
}
