// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the terminal side of the console.
//
// It owns everything that touches the operator's terminal: color profile
// selection, the Printer that renders info, warning and error lines and
// tables, and the liner-backed prompt with history and tab completion.
//
// # Key Types
//
//   - Printer: implements menu.Output on an io.Writer
//   - Prompt: implements menu.LineReader on top of liner
//
// # Usage
//
//	out := cli.NewPrinter(os.Stdout)
//	prompt := cli.NewPrompt(cfg.Console.HistoryFile, cfg.Console.HistoryLimit, d.CompleteLine)
//	defer prompt.Close()
//	err := d.Run(ctx, prompt)
package cli
