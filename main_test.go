// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/agentconsole/internal/cli"
	"github.com/jeranaias/agentconsole/internal/remote"
	"github.com/jeranaias/agentconsole/internal/remote/memory"
)

func TestCheckService(t *testing.T) {
	tests := []struct {
		name     string
		fail     error
		wantErr  bool
		wantCode int
	}{
		{"reachable", nil, false, cli.ExitSuccess},
		{"unavailable", remote.Unavailable("service unreachable", errors.New("connection refused")), true, cli.ExitNetworkError},
		{"other failures start the console", remote.Rejected("forbidden"), false, cli.ExitSuccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := memory.New()
			if tt.fail != nil {
				client.FailNext(memory.OpListResources, tt.fail)
			}

			err := checkService(context.Background(), client, time.Second)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCode, cli.ExitCode(err))
			assert.Len(t, client.Calls(), 1)
		})
	}
}
