// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/jeranaias/agentconsole/internal/commands"
	"github.com/jeranaias/agentconsole/internal/menu"
	"github.com/jeranaias/agentconsole/internal/remote"
)

// DefaultPipeName is used by Connect when neither the operator nor the
// configuration names a pipe.
const DefaultPipeName = "agentsvc"

// Session carries the collaborators shared by every context of the tree.
type Session struct {
	// Client talks to the tasking service
	Client remote.Client

	// Out receives operator-facing output
	Out menu.Output

	// Logger receives diagnostics
	Logger *slog.Logger

	// DataDir is the local directory offered for Upload and PowerShellImport
	DataDir string

	// Files reads local files; rooted at DataDir. Defaults to os.DirFS(DataDir).
	Files fs.FS

	// ActiveOnly restricts Interact to agents in the Active state
	ActiveOnly bool

	// PipeName is the default Connect pipe
	PipeName string
}

func (s *Session) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Logger
}

func (s *Session) pipeName() string {
	if s.PipeName == "" {
		return DefaultPipeName
	}
	return s.PipeName
}

// agentFilter is the listing filter for agents an operator may interact with.
func (s *Session) agentFilter() remote.Filter {
	if s.ActiveOnly {
		return remote.Filter{Status: remote.AgentActive}
	}
	return remote.Filter{}
}

// agentNames lists the names of agents eligible for Interact.
func (s *Session) agentNames(ctx context.Context) ([]string, error) {
	summaries, err := s.Client.ListResources(ctx, remote.KindAgent, s.agentFilter())
	if err != nil {
		return nil, err
	}
	return summaryNames(summaries), nil
}

// taskNames lists the task template names.
func (s *Session) taskNames(ctx context.Context) ([]string, error) {
	summaries, err := s.Client.ListResources(ctx, remote.KindTask, remote.Filter{})
	if err != nil {
		return nil, err
	}
	return summaryNames(summaries), nil
}

// findResource resolves name case-insensitively within a listing.
func (s *Session) findResource(ctx context.Context, kind remote.Kind, filter remote.Filter, name string) (remote.Summary, error) {
	summaries, err := s.Client.ListResources(ctx, kind, filter)
	if err != nil {
		return remote.Summary{}, err
	}
	for _, sum := range summaries {
		if commands.Match(sum.Name, name) {
			return sum, nil
		}
	}
	return remote.Summary{}, commands.NewInvalidOption(name, "no such "+strings.TrimSuffix(string(kind), "s"))
}

// readFile reads a local file through Files. Absolute paths must lie inside
// DataDir; relative paths are taken relative to it.
func (s *Session) readFile(path string) ([]byte, error) {
	rel := path
	if filepath.IsAbs(path) {
		r, err := filepath.Rel(s.DataDir, path)
		if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
			return nil, fmt.Errorf("local file path %q is outside %s", path, s.DataDir)
		}
		rel = r
	}
	name := filepath.ToSlash(filepath.Clean(rel))
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("local file path %q is outside %s", path, s.DataDir)
	}

	data, err := fs.ReadFile(s.Files, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("local file path %q does not exist", path)
	}
	return data, err
}

func summaryNames(summaries []remote.Summary) []string {
	names := make([]string, len(summaries))
	for i, sum := range summaries {
		names[i] = sum.Name
	}
	return names
}
