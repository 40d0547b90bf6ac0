// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// =============================================================================
// PARAMETER
// =============================================================================

// Parameter describes one positional argument of a command or of a menu
// context's entry.
type Parameter struct {
	// Name as shown in usage and help (e.g., "File Path")
	Name string

	// Required parameters count toward the minimum arity
	Required bool

	// Rest parameters swallow every remaining token; only valid last
	Rest bool

	// Strict restricts the argument to the resolved Values
	Strict bool

	// Values suggests (or, when Strict, restricts) legal arguments
	Values ValueSource
}

// Placeholder renders the parameter for a usage line, e.g. "<file_path>"
// or "[<path>]" for optional ones.
func (p Parameter) Placeholder() string {
	name := "<" + strings.ToLower(strings.ReplaceAll(p.Name, " ", "_")) + ">"
	if p.Rest {
		name += "..."
	}
	if !p.Required {
		name = "[" + name + "]"
	}
	return name
}

// =============================================================================
// VALUE SOURCES
// =============================================================================

// SourceKind tags the variant of a ValueSource.
type SourceKind int

const (
	SourceStatic SourceKind = iota // Constant enumerated set
	SourcePath                     // Entries of a local directory
	SourceRemote                   // Fetched from the remote service
)

// String returns a short name for the kind.
func (k SourceKind) String() string {
	switch k {
	case SourceStatic:
		return "static"
	case SourcePath:
		return "path"
	case SourceRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// ValueSource produces the legal or suggested values for a parameter.
// Sources are resolved at the moment of prompting or validation and never
// cached, because the remote state behind them may change between lines.
type ValueSource interface {
	Kind() SourceKind
	Resolve(ctx context.Context) ([]string, error)
}

// StaticValues is a constant set. Resolving it performs no I/O.
type StaticValues []string

// Static returns a constant value source.
func Static(values ...string) StaticValues {
	return StaticValues(values)
}

// Kind implements ValueSource.
func (s StaticValues) Kind() SourceKind { return SourceStatic }

// Resolve implements ValueSource.
func (s StaticValues) Resolve(context.Context) ([]string, error) {
	return slices.Clone([]string(s)), nil
}

// PathValues lists the entries of a local directory as full paths.
// Directories carry a trailing separator; hidden entries are skipped.
type PathValues struct {
	Root string
}

// FilesystemPath returns a value source listing root.
func FilesystemPath(root string) *PathValues {
	return &PathValues{Root: root}
}

// Kind implements ValueSource.
func (p *PathValues) Kind() SourceKind { return SourcePath }

// Resolve implements ValueSource.
func (p *PathValues) Resolve(context.Context) ([]string, error) {
	entries, err := os.ReadDir(p.Root)
	if err != nil {
		return nil, &SourceError{Source: p.Root, Err: err}
	}

	values := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(p.Root, name)
		if entry.IsDir() {
			path += string(os.PathSeparator)
		}
		values = append(values, path)
	}
	slices.Sort(values)
	return values, nil
}

// RemoteValues fetches its values from the remote service on every resolve.
type RemoteValues struct {
	Name  string
	Fetch func(ctx context.Context) ([]string, error)
}

// Remote returns a value source backed by fetch. name labels warnings.
func Remote(name string, fetch func(ctx context.Context) ([]string, error)) *RemoteValues {
	return &RemoteValues{Name: name, Fetch: fetch}
}

// Kind implements ValueSource.
func (r *RemoteValues) Kind() SourceKind { return SourceRemote }

// Resolve implements ValueSource. On a fetch failure it returns an empty set
// together with a SourceError for the caller to surface as a warning.
func (r *RemoteValues) Resolve(ctx context.Context) ([]string, error) {
	values, err := r.Fetch(ctx)
	if err != nil {
		return []string{}, &SourceError{Source: r.Name, Err: err}
	}
	return values, nil
}

// SourceError wraps a failure to resolve a value source.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("could not resolve %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// ResolveValues resolves src, treating a nil source as empty.
func ResolveValues(ctx context.Context, src ValueSource) ([]string, error) {
	if src == nil {
		return nil, nil
	}
	return src.Resolve(ctx)
}
