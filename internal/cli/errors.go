// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Process exit codes for startup failures.
//
// Errors from dispatched lines never reach here; the dispatcher reports them
// and returns to the prompt. Only failures before or around the read loop
// (bad flags, bad config, a broken terminal) end the process.

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/jeranaias/agentconsole/internal/config"
	"github.com/jeranaias/agentconsole/internal/remote"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command-line usage
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitNetworkError indicates the tasking service could not be reached
	ExitNetworkError = 5
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// UsageError reports bad command-line flags.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// ConfigError wraps a failure to load or validate configuration.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("config: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// =============================================================================
// EXIT HANDLING
// =============================================================================

// ExitCode determines the process exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitUsageError
	}

	var configErr *ConfigError
	var validateErrs config.ValidateErrors
	if errors.As(err, &configErr) || errors.As(err, &validateErrs) {
		return ExitConfigError
	}

	if errors.Is(err, remote.ErrUnavailable) {
		return ExitNetworkError
	}

	return ExitGeneralError
}

// DisplayError writes a startup failure to w.
func DisplayError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, RenderConditional(ErrorStyle, "[-] Error: ")+err.Error())
}
