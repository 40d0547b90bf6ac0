// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package remote

import "context"

// Client is the console's view of the tasking service.
//
// Every method may fail with an *Error. Implementations must return
// ErrUnavailable-class errors on timeouts rather than blocking indefinitely.
type Client interface {
	// ListResources lists a resource collection.
	ListResources(ctx context.Context, kind Kind, filter Filter) ([]Summary, error)

	// GetAgent fetches one agent. Fails with ErrNotFound on an unknown id.
	GetAgent(ctx context.Context, id string) (*Agent, error)

	// GetTask fetches one task template. Fails with ErrNotFound on an unknown id.
	GetTask(ctx context.Context, id string) (*Task, error)

	// SubmitTasking queues work on an agent. Fails with ErrRejected when the
	// service refuses it.
	SubmitTasking(ctx context.Context, agentID string, spec TaskingSpec) (*Tasking, error)

	// ListTaskings lists the taskings of an agent.
	ListTaskings(ctx context.Context, agentID string, filter TaskingFilter) ([]Tasking, error)
}
