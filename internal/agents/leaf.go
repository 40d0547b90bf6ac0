// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agents

import (
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jeranaias/agentconsole/internal/commands"
)

// =============================================================================
// LEAF COMMAND TABLE
// =============================================================================

// leafSpec declares a command that runs one task through the Task context.
type leafSpec struct {
	Name        string
	Description string
	Task        string
	Params      []commands.Parameter
	Forward     []forwardStep
}

// forwardStep sets one task option from the invocation.
type forwardStep struct {
	Option string
	Value  valueFunc

	// Optional steps are skipped when they yield no value
	Optional bool

	// Clear unsets the option instead of skipping it when there is no value
	Clear bool

	// Independent steps report a failure without aborting the sequence
	Independent bool
}

// valueFunc computes an option value. ok is false when there is nothing to
// forward.
type valueFunc func(i *Interact, inv commands.Invocation) (value string, ok bool, err error)

// leafCommands is the Interact command table. Order is help order.
var leafCommands = []leafSpec{
	{
		Name:        "whoami",
		Description: "Gets the username of the current token.",
		Task:        "WhoAmI",
	},
	{
		Name:        "ls",
		Description: "Get a listing of a directory.",
		Task:        "ListDirectory",
		Params:      []commands.Parameter{{Name: "Path", Rest: true}},
		Forward:     []forwardStep{{Option: "Path", Value: restFrom(0), Optional: true, Independent: true}},
	},
	{
		Name:        "cd",
		Description: "Change the current directory.",
		Task:        "ChangeDirectory",
		Params:      []commands.Parameter{{Name: "Append Directory", Required: true, Rest: true}},
		Forward:     []forwardStep{{Option: "AppendDirectory", Value: restFrom(0)}},
	},
	{
		Name:        "ps",
		Description: "Get a list of currently running processes.",
		Task:        "ProcessList",
	},
	{
		Name:        "RegistryRead",
		Description: "Reads a value stored in registry.",
		Task:        "RegistryRead",
		Params:      []commands.Parameter{{Name: "RegPath", Required: true}},
		Forward:     []forwardStep{{Option: "RegPath", Value: arg(0)}},
	},
	{
		Name:        "RegistryWrite",
		Description: "Writes a value into the registry.",
		Task:        "RegistryWrite",
		Params: []commands.Parameter{
			{Name: "RegPath", Required: true},
			{Name: "Value", Required: true},
		},
		Forward: []forwardStep{
			{Option: "RegPath", Value: arg(0)},
			{Option: "Value", Value: arg(1)},
		},
	},
	{
		Name:        "Upload",
		Description: "Upload a file.",
		Task:        "Upload",
		Params:      []commands.Parameter{{Name: "File Path", Required: true, Values: dataFiles}},
		Forward: []forwardStep{
			{Option: "FilePath", Value: baseName(0)},
			{Option: "FileContents", Value: fileContents(0)},
		},
	},
	{
		Name:        "Download",
		Description: "Download a file.",
		Task:        "Download",
		Params:      []commands.Parameter{{Name: "File Name", Required: true}},
		Forward:     []forwardStep{{Option: "FileName", Value: arg(0)}},
	},
	{
		Name:        "Shell",
		Description: "Execute a Shell command.",
		Task:        "Shell",
		Params:      []commands.Parameter{{Name: "Shell Command", Required: true, Rest: true}},
		Forward:     []forwardStep{{Option: "ShellCommand", Value: tail}},
	},
	{
		Name:        "ShellCmd",
		Description: `Execute a Shell command using "cmd.exe /c".`,
		Task:        "ShellCmd",
		Params:      []commands.Parameter{{Name: "Shell Command", Required: true, Rest: true}},
		Forward:     []forwardStep{{Option: "ShellCommand", Value: tail}},
	},
	{
		Name:        "PowerShell",
		Description: "Execute a PowerShell command.",
		Task:        "PowerShell",
		Params:      []commands.Parameter{{Name: "PowerShell Code", Required: true, Rest: true}},
		Forward:     []forwardStep{{Option: "PowerShellCommand", Value: powerShellCode}},
	},
	{
		Name:        "PowerShellImport",
		Description: "Import a local PowerShell file.",
		Task:        "PowerShell",
		Params:      []commands.Parameter{{Name: "File Path", Required: true, Values: dataFiles}},
		Forward:     []forwardStep{{Option: "PowerShellCommand", Value: importScript(0)}},
	},
	{
		Name:        "PortScan",
		Description: "Conduct a TCP port scan of specified hosts and ports.",
		Task:        "PortScan",
		Params: []commands.Parameter{
			{Name: "Computer Names", Required: true},
			{Name: "Ports", Required: true},
			{Name: "Ping", Strict: true, Values: commands.Static("True", "False")},
		},
		Forward: []forwardStep{
			{Option: "ComputerNames", Value: arg(0)},
			{Option: "Ports", Value: arg(1)},
			{Option: "Ping", Value: arg(2), Optional: true},
		},
	},
	domainObjectLeaf("GetDomainUser", "user"),
	domainObjectLeaf("GetDomainGroup", "group"),
	domainObjectLeaf("GetDomainComputer", "computer"),
	computerLeaf("GetNetLocalGroup", "Gets a list of LocalGroups from specified remote computer(s)."),
	{
		Name:        "GetNetLocalGroupMember",
		Description: "Gets a list of LocalGroupMembers from specified remote computer(s).",
		Task:        "GetNetLocalGroupMember",
		Params: []commands.Parameter{
			{Name: "Computer Names", Required: true},
			{Name: "Local Group", Required: true},
		},
		Forward: []forwardStep{
			{Option: "ComputerNames", Value: arg(0)},
			{Option: "LocalGroup", Value: arg(1)},
		},
	},
	computerLeaf("GetNetLoggedOnUser", "Gets a list of LoggedOnUsers from specified remote computer(s)."),
	computerLeaf("GetNetSession", "Gets a list of SessionInfos from specified remote computer(s)."),
}

// domainObjectLeaf queries domain objects of one class. Without identities
// every object is listed.
func domainObjectLeaf(name, class string) leafSpec {
	return leafSpec{
		Name:        name,
		Description: "Gets a list of specified (or all) " + class + " DomainObjects in the current Domain.",
		Task:        name,
		Params:      []commands.Parameter{{Name: "Identities"}},
		Forward:     []forwardStep{{Option: "Identities", Value: arg(0), Optional: true, Clear: true}},
	}
}

// computerLeaf queries one or more remote computers.
func computerLeaf(name, description string) leafSpec {
	return leafSpec{
		Name:        name,
		Description: description,
		Task:        name,
		Params:      []commands.Parameter{{Name: "Computer Names", Required: true}},
		Forward:     []forwardStep{{Option: "ComputerNames", Value: arg(0)}},
	}
}

// dataFiles marks a parameter as completing from the session's data
// directory. leafCommand swaps in the real source.
var dataFiles = commands.FilesystemPath("")

// =============================================================================
// EXECUTOR
// =============================================================================

// leafCommand builds the Interact command for spec.
func (i *Interact) leafCommand(spec leafSpec) *commands.Command {
	params := make([]commands.Parameter, len(spec.Params))
	copy(params, spec.Params)
	for n := range params {
		if params[n].Values == dataFiles {
			params[n].Values = commands.FilesystemPath(i.s.DataDir)
		}
	}

	return &commands.Command{
		Name:         spec.Name,
		Description:  spec.Description,
		Parameters:   params,
		ChangesState: true,
		Run: func(ctx context.Context, inv commands.Invocation) error {
			return i.runLeaf(ctx, i.newTask(), spec, inv)
		},
	}
}

// runLeaf binds the task, forwards each option with Set (or Unset), then
// Starts. A failed step aborts the rest unless it is independent. Calls
// already made are not undone. The task context is always left.
func (i *Interact) runLeaf(ctx context.Context, f Forwarder, spec leafSpec, inv commands.Invocation) error {
	type setting struct {
		option, value string
		unset         bool
		independent   bool
	}
	var settings []setting
	for _, step := range spec.Forward {
		value, ok, err := step.Value(i, inv)
		if err != nil {
			return err
		}
		switch {
		case ok:
			settings = append(settings, setting{option: step.Option, value: value, independent: step.Independent})
		case step.Clear:
			settings = append(settings, setting{option: step.Option, unset: true, independent: step.Independent})
		case !step.Optional:
			return commands.NewInvalidOption(inv.Raw, "no value for "+step.Option)
		}
	}

	if err := f.Bind(ctx, spec.Task); err != nil {
		return fmt.Errorf("task %s: %w", spec.Task, err)
	}
	defer f.Leave(ctx)

	for _, st := range settings {
		var err error
		if st.unset {
			err = f.Unset(ctx, st.option)
		} else {
			err = f.Set(ctx, st.option, st.value)
		}
		if err != nil {
			if !st.independent {
				return err
			}
			i.s.logger().Warn("forwarded set failed", "task", spec.Task, "option", st.option, "error", err)
			i.s.Out.Report(err)
		}
	}
	return f.Start(ctx, inv.Raw)
}

// =============================================================================
// VALUE FUNCTIONS
// =============================================================================

// arg forwards argument n.
func arg(n int) valueFunc {
	return func(_ *Interact, inv commands.Invocation) (string, bool, error) {
		if n >= len(inv.Args) {
			return "", false, nil
		}
		return inv.Args[n], true, nil
	}
}

// restFrom forwards the arguments from n onward joined by spaces.
func restFrom(n int) valueFunc {
	return func(_ *Interact, inv commands.Invocation) (string, bool, error) {
		if n >= len(inv.Args) {
			return "", false, nil
		}
		return inv.Rest(n), true, nil
	}
}

// tail forwards the raw text after the command name, quotes included.
func tail(_ *Interact, inv commands.Invocation) (string, bool, error) {
	t := inv.Tail()
	return t, t != "", nil
}

// baseName forwards the file name of local path argument n.
func baseName(n int) valueFunc {
	return func(_ *Interact, inv commands.Invocation) (string, bool, error) {
		if n >= len(inv.Args) {
			return "", false, nil
		}
		return filepath.Base(inv.Args[n]), true, nil
	}
}

// fileContents forwards the base64 contents of local file argument n.
func fileContents(n int) valueFunc {
	return func(i *Interact, inv commands.Invocation) (string, bool, error) {
		if n >= len(inv.Args) {
			return "", false, nil
		}
		data, err := i.s.readFile(inv.Args[n])
		if err != nil {
			return "", false, err
		}
		return base64.StdEncoding.EncodeToString(data), true, nil
	}
}

// importScript appends local script argument n to the import buffer and
// forwards its text.
func importScript(n int) valueFunc {
	return func(i *Interact, inv commands.Invocation) (string, bool, error) {
		if n >= len(inv.Args) {
			return "", false, nil
		}
		data, err := i.s.readFile(inv.Args[n])
		if err != nil {
			return "", false, err
		}
		i.psImport += string(data)
		i.s.logger().Debug("powershell imported", "file", filepath.Base(inv.Args[n]), "bytes", len(data))
		return string(data), true, nil
	}
}

// powerShellCode prefixes the typed code with the imported scripts.
func powerShellCode(i *Interact, inv commands.Invocation) (string, bool, error) {
	code := inv.Tail()
	if code == "" {
		return "", false, nil
	}
	return prependImport(i.psImport, code), true, nil
}

// prependImport joins imported scripts and code, terminating the imports
// with a semicolon when they lack one.
func prependImport(imported, code string) string {
	if imported == "" {
		return code
	}
	trimmed := strings.TrimSpace(imported)
	if !strings.HasSuffix(trimmed, ";") {
		imported = trimmed + ";\r\n"
	}
	return imported + code
}
