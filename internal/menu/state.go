// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package menu

// =============================================================================
// CONTEXT STATE
// =============================================================================

// State is the lifecycle state of a context instance.
//
//	Detached -> Entering -> Active <-> Refreshing -> Active | Stale -> Left
type State int

const (
	// StateDetached is a constructed context that has not been entered
	StateDetached State = iota

	// StateEntering means ValidateEntry is running
	StateEntering

	// StateActive means the context is on the stack and dispatchable
	StateActive

	// StateRefreshing means a re-fetch from the remote service is in progress
	StateRefreshing

	// StateStale means the last refresh failed; the previous state is kept
	StateStale

	// StateLeft is terminal; the context has been popped
	StateLeft
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateDetached:
		return "Detached"
	case StateEntering:
		return "Entering"
	case StateActive:
		return "Active"
	case StateRefreshing:
		return "Refreshing"
	case StateStale:
		return "Stale"
	case StateLeft:
		return "Left"
	default:
		return "Unknown"
	}
}

// Dispatchable reports whether commands may run in this state. A stale
// context still accepts commands against its last known state.
func (s State) Dispatchable() bool {
	return s == StateActive || s == StateStale
}
