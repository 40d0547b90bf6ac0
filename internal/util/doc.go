// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the console packages.
//
// # Key Functions
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync (history file)
//
// Display Width:
//   - StringWidth, TruncateWidth, PadRight: Column-aware text layout
//   - FirstLine: Shortening multi-line descriptions for tables
package util
