// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/agentconsole/internal/commands"
	"github.com/jeranaias/agentconsole/internal/config"
	"github.com/jeranaias/agentconsole/internal/remote"
)

func TestMain(m *testing.M) {
	ForceColorsEnabled(false)
	os.Exit(m.Run())
}

func lines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func TestPrinter_Lines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Info("hello %s", "world")
	p.Highlight("out1\nout2")
	p.Warn("careful")
	p.Error("broken")

	want := []string{
		"[*] hello world",
		"[*] out1",
		"[*] out2",
		"[!] careful",
		"[-] broken",
	}
	if diff := cmp.Diff(want, lines(&buf)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestPrinter_Table(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Table([]string{"Name", "Status"}, [][]string{
		{"foo", "Active"},
		{"longername", "Lost"},
	})

	want := []string{
		"Name        Status",
		"----        ------",
		"foo         Active",
		"longername  Lost",
	}
	if diff := cmp.Diff(want, lines(&buf)); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestPrinter_KeyValueTable(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Table(nil, [][]string{
		{"Name", "foo"},
		{"Tasks Completed", ""},
	})

	want := []string{
		"Name             foo",
		"Tasks Completed",
	}
	if diff := cmp.Diff(want, lines(&buf)); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestPrinter_TableWidth(t *testing.T) {
	long := strings.Repeat("x", 40)
	tests := []struct {
		name  string
		width int
		want  []string
	}{
		{"unlimited", 0, []string{"Name         foo", "Description  " + long}},
		{"fits", 60, []string{"Name         foo", "Description  " + long}},
		{"truncates last column", 30, []string{"Name         foo", "Description  " + strings.Repeat("x", 14) + "..."}},
		{"keeps a minimum", 5, []string{"Name         foo", "Description  " + strings.Repeat("x", 7) + "..."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := NewPrinter(&buf)
			p.SetWidth(tt.width)

			p.Table(nil, [][]string{{"Name", "foo"}, {"Description", long}})

			if diff := cmp.Diff(tt.want, lines(&buf)); diff != "" {
				t.Errorf("table mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPrinter_Report(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "usage without reason",
			err:  &commands.UsageError{Command: "Upload", Usage: "Upload <file_path>"},
			want: []string{"[*] Usage: Upload <file_path>"},
		},
		{
			name: "usage with reason",
			err:  &commands.UsageError{Command: "Interact", Usage: "Interact <agent_name>", Reason: "too many arguments"},
			want: []string{"[-] too many arguments", "[*] Usage: Interact <agent_name>"},
		},
		{
			name: "invalid option",
			err:  commands.NewInvalidOption("Sett", "unknown command"),
			want: []string{"[-] Invalid option: Sett (unknown command)"},
		},
		{
			name: "remote rejection is a warning",
			err:  fmt.Errorf("submit: %w", remote.Rejected("agent is not active")),
			want: []string{"[!] submit: agent is not active"},
		},
		{
			name: "source failure is a warning",
			err:  &commands.SourceError{Source: "agents", Err: errors.New("down")},
			want: []string{"[!] could not resolve agents: down"},
		},
		{
			name: "anything else",
			err:  errors.New("boom"),
			want: []string{"[-] boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf).Report(tt.err)
			if diff := cmp.Diff(tt.want, lines(&buf)); diff != "" {
				t.Errorf("report mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPrinter_ReportNil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Report(nil)
	assert.Empty(t, buf.String())
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage", &UsageError{Err: errors.New("unknown flag")}, ExitUsageError},
		{"config", &ConfigError{Path: "x.toml", Err: errors.New("bad")}, ExitConfigError},
		{"validation", fmt.Errorf("invalid config: %w", config.ValidateErrors{{Field: "a", Message: "b"}}), ExitConfigError},
		{"unavailable", remote.Unavailable("service unreachable", errors.New("refused")), ExitNetworkError},
		{"other", errors.New("x"), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestTrimHistory(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		limit int
		want  string
	}{
		{"unbounded", "a\nb\nc\n", 0, "a\nb\nc\n"},
		{"under limit", "a\nb\n", 5, "a\nb\n"},
		{"trimmed", "a\nb\nc\nd\n", 2, "c\nd\n"},
		{"empty", "", 3, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(trimHistory([]byte(tt.data), tt.limit)))
		})
	}
}
