// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package menu implements the navigable context tree and the read-eval loop
// that drives it.
//
// # Key Types
//
//   - Context: A node of the tree; implementations embed Base
//   - Child: Named entry point that builds a fresh Context on navigation
//   - Stack: Navigation stack, never empty
//   - Dispatcher: Tokenizes lines and routes them to navigation or commands
//
// # Dispatch
//
// The first token of a line selects, in order: "back" or "..", "exit" or
// "quit", a child of the current context, then a command of the current
// context or of any context below it on the stack. Anything else is an
// InvalidOption with suggestions. After a successful state-changing command
// or a navigation the current context is refreshed and rendered.
//
// No error ends the loop. A failed refresh leaves the context Stale with its
// last known state.
package menu
