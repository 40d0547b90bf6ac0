// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackNeverEmpty(t *testing.T) {
	root := &rootCtx{Base: NewBase("Main", "")}
	s := NewStack(root)

	_, ok := s.Pop()
	require.False(t, ok)
	require.Equal(t, 1, s.Len())
	assert.Same(t, root, s.Top())
}

func TestStackPathAndScope(t *testing.T) {
	root := &rootCtx{Base: NewBase("Main", "")}
	a := &widgetCtx{Base: NewBase("foo", "")}
	b := &widgetCtx{Base: NewBase("Task", "")}

	s := NewStack(root)
	s.Push(a)
	s.Push(b)

	assert.Equal(t, []string{"Main", "foo", "Task"}, s.Path())

	scope := s.Scope()
	require.Len(t, scope, 3)
	assert.Same(t, b, scope[0])
	assert.Same(t, root, scope[2])

	top, ok := s.Pop()
	require.True(t, ok)
	assert.Same(t, b, top)
	assert.Same(t, a, s.Top())
	assert.Same(t, root, s.Root())
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateDetached, "Detached"},
		{StateEntering, "Entering"},
		{StateActive, "Active"},
		{StateRefreshing, "Refreshing"},
		{StateStale, "Stale"},
		{StateLeft, "Left"},
		{State(99), "Unknown"},
	}

	for _, tc := range tests {
		if got := tc.state.String(); got != tc.want {
			t.Errorf("State(%d).String() = %q, want %q", tc.state, got, tc.want)
		}
	}
}
