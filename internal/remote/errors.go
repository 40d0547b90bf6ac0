// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package remote

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorKind categorizes remote failures for handling.
type ErrorKind int

const (
	KindRemote      ErrorKind = iota // Generic failure reported by the service
	KindNotFound                     // Unknown id
	KindRejected                     // Request refused by the service
	KindUnavailable                  // Service unreachable or timed out
)

// String returns a short name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindRejected:
		return "rejected"
	case KindUnavailable:
		return "unavailable"
	default:
		return "remote error"
	}
}

// Error represents a failure of a remote call.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches sentinels by kind, so errors.Is(err, ErrNotFound) holds for any
// not-found error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// Sentinel errors for easy checking.
var (
	ErrNotFound    = &Error{Kind: KindNotFound}
	ErrRejected    = &Error{Kind: KindRejected}
	ErrUnavailable = &Error{Kind: KindUnavailable}
)

// NotFound creates a not-found error.
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Rejected creates an error carrying the service's refusal reason.
func Rejected(reason string) error {
	return &Error{Kind: KindRejected, Message: reason}
}

// Unavailable creates an error for an unreachable service.
func Unavailable(message string, cause error) error {
	return &Error{Kind: KindUnavailable, Message: message, Cause: cause}
}

// IsRemote reports whether err came from the remote boundary.
func IsRemote(err error) bool {
	var rErr *Error
	return errors.As(err, &rErr)
}
