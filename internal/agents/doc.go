// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package agents implements the console's menu tree.
//
// The tree is rooted at "Main", which lists agents and offers Interact.
// Interact binds to one agent and exposes its commands; most of them are
// composite and run a remote task by driving the Task context the same way
// an operator would: bind the task, Set each option, Start, then leave.
//
// # Key Types
//
//   - Session: shared collaborators (remote client, output, data files)
//   - Root, Interact, TaskMenu: the menu contexts
//   - Forwarder: the typed Set/Unset/Start surface composite commands use
package agents
