// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agents

import (
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/agentconsole/internal/remote"
)

// show prints the agent detail table from the last known state.
func (i *Interact) show() {
	a := i.agent
	if a == nil {
		i.s.Out.Warn("No details for %s", i.Title())
		return
	}

	var assigned, completed []string
	for _, tk := range i.taskings {
		assigned = append(assigned, tk.Name)
		if tk.Status == remote.TaskingCompleted {
			completed = append(completed, tk.Name)
		}
	}

	i.s.Out.Info("Agent: %s", a.Name)
	i.s.Out.Table(nil, [][]string{
		{"Name", a.Name},
		{"CommType", a.CommType},
		{"Connected Agents", strings.Join(i.children, ",")},
		{"Hostname", a.Hostname},
		{"IPAddress", a.IPAddress},
		{"User", a.User()},
		{"Status", a.Status.String()},
		{"LastCheckIn", formatTime(a.LastCheckIn)},
		{"ActivationTime", formatTime(a.ActivationTime)},
		{"Integrity", a.Integrity},
		{"OperatingSystem", a.OperatingSystem},
		{"Process", a.Process},
		{"Delay", strconv.Itoa(a.Delay)},
		{"JitterPercent", strconv.Itoa(a.JitterPercent)},
		{"ConnectAttempts", strconv.Itoa(a.ConnectAttempts)},
		{"Tasks Assigned", strings.Join(assigned, ",")},
		{"Tasks Completed", strings.Join(completed, ",")},
	})
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}
