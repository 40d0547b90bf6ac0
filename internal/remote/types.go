// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package remote defines the contract with the tasking service and an
// HTTP/JSON client for it.
package remote

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// RESOURCE KINDS
// =============================================================================

// Kind names a listable resource collection.
type Kind string

const (
	// KindAgent is a deployed agent that checks in with the service
	KindAgent Kind = "agents"

	// KindTask is a task template that can be run on an agent
	KindTask Kind = "tasks"
)

// Filter narrows a resource listing. Zero value lists everything.
type Filter struct {
	// Status keeps only resources in this status (agents only)
	Status AgentStatus
}

// Summary is one row of a resource listing.
type Summary struct {
	Kind   Kind      `json:"kind"`
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Status string    `json:"status,omitempty"`
	Detail string    `json:"detail,omitempty"` // Hostname for agents, description for tasks
	Seen   time.Time `json:"seen,omitzero"`    // Last check-in for agents
}

// =============================================================================
// AGENTS
// =============================================================================

// AgentStatus represents the lifecycle state of an agent.
type AgentStatus string

const (
	AgentUninitialized AgentStatus = "Uninitialized"
	AgentStage0        AgentStatus = "Stage0"
	AgentStage1        AgentStatus = "Stage1"
	AgentStage2        AgentStatus = "Stage2"
	AgentActive        AgentStatus = "Active"
	AgentLost          AgentStatus = "Lost"
	AgentExited        AgentStatus = "Exited"
	AgentDisconnected  AgentStatus = "Disconnected"
)

// String returns the string representation of the status.
func (s AgentStatus) String() string {
	return string(s)
}

// Agent is the detail record of one agent.
type Agent struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	CommType        string      `json:"commType"`
	Children        []string    `json:"children"` // Agent IDs
	Hostname        string      `json:"hostname"`
	IPAddress       string      `json:"ipAddress"`
	UserDomainName  string      `json:"userDomainName"`
	UserName        string      `json:"userName"`
	Status          AgentStatus `json:"status"`
	LastCheckIn     time.Time   `json:"lastCheckIn"`
	ActivationTime  time.Time   `json:"activationTime"`
	Integrity       string      `json:"integrity"`
	OperatingSystem string      `json:"operatingSystem"`
	Process         string      `json:"process"`
	Delay           int         `json:"delay"`
	JitterPercent   int         `json:"jitterPercent"`
	ConnectAttempts int         `json:"connectAttempts"`
}

// User renders the account as DOMAIN\user, or just the user without a domain.
func (a *Agent) User() string {
	if a.UserDomainName == "" {
		return a.UserName
	}
	return a.UserDomainName + "\\" + a.UserName
}

// =============================================================================
// TASKS
// =============================================================================

// TaskOption is one named input of a task template.
type TaskOption struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Value       string `json:"value"` // Default value
	Optional    bool   `json:"optional"`
}

// Task is a task template.
type Task struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Help        string       `json:"help,omitempty"`
	Options     []TaskOption `json:"options"`
}

// Option returns the named option, matched case-insensitively.
func (t *Task) Option(name string) (TaskOption, bool) {
	for _, opt := range t.Options {
		if strings.EqualFold(opt.Name, name) {
			return opt, true
		}
	}
	return TaskOption{}, false
}

// OptionNames returns the option names in declaration order.
func (t *Task) OptionNames() []string {
	names := make([]string, len(t.Options))
	for i, opt := range t.Options {
		names[i] = opt.Name
	}
	return names
}

// =============================================================================
// TASKINGS
// =============================================================================

// TaskingStatus represents the state of a submitted tasking.
type TaskingStatus string

const (
	TaskingUninitialized TaskingStatus = "Uninitialized"
	TaskingTasked        TaskingStatus = "Tasked"
	TaskingProgressed    TaskingStatus = "Progressed"
	TaskingCompleted     TaskingStatus = "Completed"
	TaskingAborted       TaskingStatus = "Aborted"
)

// String returns the string representation of the status.
func (s TaskingStatus) String() string {
	return string(s)
}

// TaskingType selects how the agent handles a tasking.
type TaskingType string

const (
	TaskingAssembly           TaskingType = "Assembly"
	TaskingSetDelay           TaskingType = "SetDelay"
	TaskingSetJitter          TaskingType = "SetJitter"
	TaskingSetConnectAttempts TaskingType = "SetConnectAttempts"
	TaskingConnect            TaskingType = "Connect"
	TaskingDisconnect         TaskingType = "Disconnect"
	TaskingJobs               TaskingType = "Jobs"
	TaskingExit               TaskingType = "Exit"
)

// TaskingSpec is the request to run something on an agent.
type TaskingSpec struct {
	Name       string      `json:"name"`
	Type       TaskingType `json:"type"`
	TaskID     string      `json:"taskId,omitempty"`
	Parameters []string    `json:"parameters,omitempty"`
	Command    string      `json:"command"` // Console line that produced the tasking
}

// Tasking is a submitted unit of work.
type Tasking struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	AgentID        string        `json:"agentId"`
	TaskID         string        `json:"taskId,omitempty"`
	Type           TaskingType   `json:"type"`
	Status         TaskingStatus `json:"status"`
	Parameters     []string      `json:"parameters,omitempty"`
	Command        string        `json:"command"`
	Output         string        `json:"output,omitempty"`
	TaskingTime    time.Time     `json:"taskingTime"`
	CompletionTime time.Time     `json:"completionTime,omitzero"`
}

// TaskingFilter narrows a tasking listing. Zero value lists everything.
type TaskingFilter struct {
	Status TaskingStatus
}

// NewTaskingName returns a short random tasking name (10 hex characters).
func NewTaskingName() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}
