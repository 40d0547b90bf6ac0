// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// ERROR CLASSES
// =============================================================================

// Sentinel errors for errors.Is checks against the console error classes.
var (
	// ErrMalformedInput is returned when a line cannot be tokenized.
	ErrMalformedInput = errors.New("malformed input")

	// ErrUsage is returned when a command gets too few arguments.
	ErrUsage = errors.New("usage error")

	// ErrInvalidOption is returned for unknown commands, surplus arguments
	// and values outside a parameter's legal set.
	ErrInvalidOption = errors.New("invalid option")
)

// MalformedInputError describes a line the tokenizer rejected.
type MalformedInputError struct {
	Input  string
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input: %s: %s", e.Reason, e.Input)
}

func (e *MalformedInputError) Unwrap() error {
	return ErrMalformedInput
}

// UsageError carries the literal usage string of the command that was
// invoked with the wrong arity.
type UsageError struct {
	Command string
	Usage   string
	Reason  string
}

func (e *UsageError) Error() string {
	var b strings.Builder
	if e.Reason != "" {
		b.WriteString(e.Reason)
		b.WriteString(". ")
	}
	b.WriteString("Usage: ")
	b.WriteString(e.Usage)
	return b.String()
}

func (e *UsageError) Unwrap() error {
	return ErrUsage
}

// InvalidOptionError names the offending input.
type InvalidOptionError struct {
	Input       string
	Reason      string
	Suggestions []string
}

func (e *InvalidOptionError) Error() string {
	msg := "Invalid option: " + e.Input
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	if len(e.Suggestions) > 0 {
		msg += ". Did you mean: " + strings.Join(e.Suggestions, ", ") + "?"
	}
	return msg
}

func (e *InvalidOptionError) Unwrap() error {
	return ErrInvalidOption
}

// =============================================================================
// ERROR CONSTRUCTION HELPERS
// =============================================================================

// NewUsageError creates a usage error for the given command.
func NewUsageError(cmd *Command, reason string) error {
	return &UsageError{Command: cmd.Name, Usage: cmd.UsageLine(), Reason: reason}
}

// NewInvalidOption creates an invalid option error naming input.
func NewInvalidOption(input, reason string) error {
	return &InvalidOptionError{Input: input, Reason: reason}
}

// IsUserError reports whether err is one of the input-level classes, as
// opposed to a collaborator failure.
func IsUserError(err error) bool {
	return errors.Is(err, ErrMalformedInput) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidOption)
}
