// agentconsole - interactive menu console for a remote agent tasking service.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jeranaias/agentconsole/internal/agents"
	"github.com/jeranaias/agentconsole/internal/cli"
	"github.com/jeranaias/agentconsole/internal/config"
	"github.com/jeranaias/agentconsole/internal/menu"
	"github.com/jeranaias/agentconsole/internal/remote"
	"github.com/jeranaias/agentconsole/internal/remote/memory"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	if err := run(); err != nil {
		cli.DisplayError(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}

func run() error {
	opts, flagSet, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		return err
	}
	if opts.Help {
		cli.PrintHelp(os.Stdout, flagSet)
		return nil
	}
	if opts.Version {
		fmt.Printf("agentconsole %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
		return nil
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	cli.ApplyColorMode(cfg.Console.Color)
	if err := cfg.EnsureDirs(); err != nil {
		return &cli.ConfigError{Err: err}
	}

	logger, closeLog, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	client := newClient(cfg, opts.Demo, logger)
	if err := checkService(ctx, client, cfg.Timeout()); err != nil {
		return err
	}
	printer := cli.NewPrinter(os.Stdout)
	if cli.IsStdoutTTY() {
		printer.SetWidth(cli.GetTerminalWidth())
	}
	root := agents.NewRoot(&agents.Session{
		Client:     client,
		Out:        printer,
		Logger:     logger,
		DataDir:    cfg.Console.DataDir,
		ActiveOnly: cfg.Console.ActiveOnly,
		PipeName:   cfg.Console.DefaultPipeName,
	})
	d := menu.NewDispatcher(root, printer, logger)

	prompt := cli.NewPrompt(cfg.Console.HistoryFile, cfg.Console.HistoryLimit, func(line string) []string {
		return d.Complete(ctx, line)
	})
	defer func() {
		if err := prompt.Close(); err != nil {
			logger.Warn("failed to save history", "error", err)
		}
	}()

	logger.Info("console started", "url", cfg.Server.URL, "demo", opts.Demo)
	return d.Run(ctx, prompt)
}

// loadConfig reads the config file named by --config, or the default one,
// and overlays the flags.
func loadConfig(opts *cli.Options) (*config.Config, error) {
	var cfg *config.Config
	var err error
	path := opts.ConfigPath
	if path != "" {
		cfg, err = config.LoadFromPath(path)
	} else {
		path, _ = config.ConfigPath()
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, &cli.ConfigError{Path: path, Err: err}
	}

	opts.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, &cli.ConfigError{Path: path, Err: err}
	}
	return cfg, nil
}

// openLogger opens the log file. The console owns stdout, so diagnostics
// never go to the terminal.
func openLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	if cfg.Log.File == "" {
		return slog.New(slog.NewTextHandler(io.Discard, opts)), func() {}, nil
	}

	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, opts)), func() { f.Close() }, nil
}

// checkService makes one listing call before the console starts. An
// unreachable service ends the process; any other failure is left for the
// menus to report.
func checkService(ctx context.Context, client remote.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	_, err := client.ListResources(ctx, remote.KindTask, remote.Filter{})
	if errors.Is(err, remote.ErrUnavailable) {
		return err
	}
	return nil
}

func newClient(cfg *config.Config, demo bool, logger *slog.Logger) remote.Client {
	if demo {
		return memory.Demo(time.Now())
	}
	return remote.NewHTTPClient(&remote.HTTPConfig{
		BaseURL:           cfg.Server.URL,
		Token:             cfg.Server.Token,
		Timeout:           cfg.Timeout(),
		RequestsPerSecond: cfg.Server.RequestsPerSecond,
		Burst:             cfg.Server.Burst,
		Logger:            logger,
	})
}
