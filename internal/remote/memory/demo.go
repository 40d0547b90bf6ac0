// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package memory

import (
	"time"

	"github.com/jeranaias/agentconsole/internal/remote"
)

// StandardTasks returns the task templates the console's built-in commands
// forward to.
func StandardTasks() []remote.Task {
	opt := func(name, desc string, optional bool) remote.TaskOption {
		return remote.TaskOption{Name: name, Description: desc, Optional: optional}
	}
	return []remote.Task{
		{Name: "WhoAmI", Description: "Gets the username of the current token."},
		{Name: "ListDirectory", Description: "Get a listing of a directory.",
			Options: []remote.TaskOption{{Name: "Path", Description: "Directory to list.", Value: ".", Optional: true}}},
		{Name: "ChangeDirectory", Description: "Change the current directory.",
			Options: []remote.TaskOption{opt("AppendDirectory", "Directory to change to.", false)}},
		{Name: "ProcessList", Description: "Get a list of currently running processes."},
		{Name: "RegistryRead", Description: "Reads a value stored in registry.",
			Options: []remote.TaskOption{opt("RegPath", "The full path to the registry value.", false)}},
		{Name: "RegistryWrite", Description: "Writes a value into the registry.",
			Options: []remote.TaskOption{
				opt("RegPath", "The full path to the registry value.", false),
				opt("Value", "The value to write.", false),
			}},
		{Name: "Upload", Description: "Upload a file.",
			Options: []remote.TaskOption{
				opt("FilePath", "Remote file path to write to.", false),
				opt("FileContents", "Base64 contents of the file.", false),
			}},
		{Name: "Download", Description: "Download a file.",
			Options: []remote.TaskOption{opt("FileName", "Remote file name to download.", false)}},
		{Name: "Shell", Description: "Execute a Shell command.",
			Options: []remote.TaskOption{opt("ShellCommand", "The command to execute.", false)}},
		{Name: "ShellCmd", Description: "Execute a Shell command using \"cmd.exe /c\".",
			Options: []remote.TaskOption{opt("ShellCommand", "The command to execute.", false)}},
		{Name: "PowerShell", Description: "Execute a PowerShell command.",
			Options: []remote.TaskOption{opt("PowerShellCommand", "The PowerShell code to execute.", false)}},
		{Name: "PortScan", Description: "Conduct a TCP port scan of specified hosts and ports.",
			Options: []remote.TaskOption{
				opt("ComputerNames", "Comma-separated hosts to scan.", false),
				opt("Ports", "Comma-separated ports or ranges.", false),
				{Name: "Ping", Description: "Ping hosts before scanning.", Value: "False", Optional: true},
			}},
		{Name: "GetDomainUser", Description: "Gets a list of specified (or all) user DomainObjects in the current Domain.",
			Options: []remote.TaskOption{opt("Identities", "Comma-separated identities to look up.", true)}},
		{Name: "GetDomainGroup", Description: "Gets a list of specified (or all) group DomainObjects in the current Domain.",
			Options: []remote.TaskOption{opt("Identities", "Comma-separated identities to look up.", true)}},
		{Name: "GetDomainComputer", Description: "Gets a list of specified (or all) computer DomainObjects in the current Domain.",
			Options: []remote.TaskOption{opt("Identities", "Comma-separated identities to look up.", true)}},
		{Name: "GetNetLocalGroup", Description: "Gets a list of LocalGroups from specified remote computer(s).",
			Options: []remote.TaskOption{opt("ComputerNames", "Comma-separated computers to query.", false)}},
		{Name: "GetNetLocalGroupMember", Description: "Gets a list of LocalGroupMembers from specified remote computer(s).",
			Options: []remote.TaskOption{
				opt("ComputerNames", "Comma-separated computers to query.", false),
				{Name: "LocalGroup", Description: "Local group to list.", Value: "Administrators"},
			}},
		{Name: "GetNetLoggedOnUser", Description: "Gets a list of LoggedOnUsers from specified remote computer(s).",
			Options: []remote.TaskOption{opt("ComputerNames", "Comma-separated computers to query.", false)}},
		{Name: "GetNetSession", Description: "Gets a list of SessionInfos from specified remote computer(s).",
			Options: []remote.TaskOption{opt("ComputerNames", "Comma-separated computers to query.", false)}},
	}
}

// Demo returns a client seeded with a small fleet for offline use.
func Demo(now time.Time) *Client {
	c := New()
	for _, t := range StandardTasks() {
		c.AddTask(t)
	}

	child := c.AddAgent(remote.Agent{
		Name: "b7c2d91e4f", CommType: "SMB", Hostname: "FILESRV01", IPAddress: "10.0.0.21",
		UserDomainName: "LAB", UserName: "svc_backup", Status: remote.AgentActive,
		LastCheckIn: now.Add(-30 * time.Second), ActivationTime: now.Add(-2 * time.Hour),
		Integrity: "Medium", OperatingSystem: "Microsoft Windows NT 10.0.17763.0", Process: "agent",
		Delay: 5, JitterPercent: 10, ConnectAttempts: 5000,
	})
	c.AddAgent(remote.Agent{
		Name: "3a9f0c6d21", CommType: "HTTP", Hostname: "WKSTN07", IPAddress: "10.0.0.57",
		UserDomainName: "LAB", UserName: "operator", Status: remote.AgentActive,
		LastCheckIn: now.Add(-5 * time.Second), ActivationTime: now.Add(-3 * time.Hour),
		Integrity: "High", OperatingSystem: "Microsoft Windows NT 10.0.19045.0", Process: "agent",
		Delay: 5, JitterPercent: 10, ConnectAttempts: 5000, Children: []string{child.ID},
	})
	c.AddAgent(remote.Agent{
		Name: "e0d4411aa8", CommType: "HTTP", Hostname: "LAPTOP3", IPAddress: "10.0.0.90",
		UserName: "guest", Status: remote.AgentLost,
		LastCheckIn: now.Add(-48 * time.Hour), ActivationTime: now.Add(-72 * time.Hour),
		Integrity: "Medium", OperatingSystem: "Microsoft Windows NT 10.0.19045.0", Process: "agent",
		Delay: 60, JitterPercent: 20, ConnectAttempts: 5000,
	})
	return c
}
