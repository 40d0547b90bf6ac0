// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/jeranaias/agentconsole/internal/config"
)

// Options holds the parsed command line.
type Options struct {
	ConfigPath string
	URL        string
	Token      string
	Demo       bool
	Debug      bool
	NoColor    bool
	Version    bool
	Help       bool
}

// ParseArgs parses the process arguments (without the program name).
func ParseArgs(args []string) (*Options, *pflag.FlagSet, error) {
	opts := &Options{}

	flagSet := pflag.NewFlagSet("agentconsole", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&opts.ConfigPath, "config", "", "path to config file (default: ~/.agentconsole/config.toml)")
	flagSet.StringVar(&opts.URL, "url", "", "tasking service URL")
	flagSet.StringVar(&opts.Token, "token", "", "bearer token for the tasking service")
	flagSet.BoolVar(&opts.Demo, "demo", false, "use a built-in in-memory service")
	flagSet.BoolVar(&opts.Debug, "debug", false, "log at debug level")
	flagSet.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	flagSet.BoolVar(&opts.Version, "version", false, "print version and exit")
	flagSet.BoolVarP(&opts.Help, "help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			opts.Help = true
			return opts, flagSet, nil
		}
		return nil, flagSet, &UsageError{Err: err}
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return nil, flagSet, &UsageError{Err: fmt.Errorf("unexpected argument: %s", rest[0])}
	}
	return opts, flagSet, nil
}

// Apply overlays the flags onto cfg. Flags win over file and environment.
func (o *Options) Apply(cfg *config.Config) {
	if o.URL != "" {
		cfg.Server.URL = o.URL
	}
	if o.Token != "" {
		cfg.Server.Token = o.Token
	}
	if o.Debug {
		cfg.Log.Level = "debug"
	}
	if o.NoColor {
		cfg.Console.Color = "never"
	}
}

// PrintHelp writes the usage text.
func PrintHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `agentconsole - interactive console for a remote tasking service.

Usage:
  agentconsole [flags]

Navigate with Interact <agent>, Task <task>, back and exit. Type Help at any
prompt to list what is available there.

Flags:
%s`, flagSet.FlagUsages())
}
