// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the command model shared by every console menu.
//
// A Command is a named action with ordered Parameters. Each Parameter may
// carry a ValueSource that suggests, or when Strict restricts, its legal
// arguments. Sources are resolved when the operator is prompted or when a
// line is validated, never ahead of time.
//
// # Key Types
//
//   - Registry: Commands of one menu context, matched case-insensitively
//   - Command: Name, parameters and handler
//   - Invocation: A parsed and validated call
//   - ValueSource: Static, filesystem path or remote value sets
//   - Completion: A ranked tab-completion candidate
//
// # Errors
//
// Input problems are reported as MalformedInputError, UsageError or
// InvalidOptionError. All three unwrap to a sentinel (ErrMalformedInput,
// ErrUsage, ErrInvalidOption) for errors.Is checks.
//
// # Usage
//
//	reg := commands.NewRegistry()
//	reg.MustRegister(&commands.Command{
//	    Name:       "Set",
//	    Parameters: []commands.Parameter{{Name: "Option", Required: true, Strict: true, Values: commands.Static("Delay")}},
//	    Run:        func(ctx context.Context, inv commands.Invocation) error { ... },
//	})
//	cmd, _ := reg.Lookup("set")
//	err := cmd.Execute(ctx, `set delay 10`)
package commands
