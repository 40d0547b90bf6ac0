// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package menu

// Stack is the navigation stack, root first. It is never empty.
type Stack struct {
	items []Context
}

// NewStack creates a stack holding only root.
func NewStack(root Context) *Stack {
	return &Stack{items: []Context{root}}
}

// Push makes c the current context.
func (s *Stack) Push(c Context) {
	s.items = append(s.items, c)
}

// Pop removes and returns the current context. The root is never popped.
func (s *Stack) Pop() (Context, bool) {
	if len(s.items) == 1 {
		return nil, false
	}
	top := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return top, true
}

// Top returns the current context.
func (s *Stack) Top() Context {
	return s.items[len(s.items)-1]
}

// Root returns the bottom context.
func (s *Stack) Root() Context {
	return s.items[0]
}

// Len returns the navigation depth, 1 at the root.
func (s *Stack) Len() int {
	return len(s.items)
}

// Path returns the titles from root to top.
func (s *Stack) Path() []string {
	path := make([]string, len(s.items))
	for i, c := range s.items {
		path[i] = c.Title()
	}
	return path
}

// Scope returns the contexts from top to root, the command lookup order.
func (s *Stack) Scope() []Context {
	scope := make([]Context, 0, len(s.items))
	for i := len(s.items) - 1; i >= 0; i-- {
		scope = append(scope, s.items[i])
	}
	return scope
}
