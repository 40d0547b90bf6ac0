// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for the console.
//
// Configuration is read from ~/.agentconsole/config.toml (or a path given on
// the command line), layered over built-in defaults, then environment
// overrides are applied and the result is validated.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete console configuration.
type Config struct {
	// Server is the tasking service connection
	Server ServerConfig `toml:"server"`

	// Console holds prompt and local file settings
	Console ConsoleConfig `toml:"console"`

	// Log controls the diagnostic log
	Log LogConfig `toml:"log"`
}

// ServerConfig contains the remote service settings.
type ServerConfig struct {
	URL               string  `toml:"url"`
	Token             string  `toml:"token"`
	TimeoutSecs       int     `toml:"timeout_secs"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// ConsoleConfig contains interactive console settings.
type ConsoleConfig struct {
	// DataDir is the local directory offered for Upload and PowerShellImport
	DataDir string `toml:"data_dir"`

	// HistoryFile stores input history between sessions
	HistoryFile string `toml:"history_file"`

	// HistoryLimit caps the number of saved history lines
	HistoryLimit int `toml:"history_limit"`

	// ActiveOnly restricts Interact to agents in the Active state
	ActiveOnly bool `toml:"active_only"`

	// DefaultPipeName is used by Connect when no pipe is given
	DefaultPipeName string `toml:"default_pipe_name"`

	// Color is "auto", "always" or "never"
	Color string `toml:"color"`
}

// LogConfig contains diagnostic log settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values. Paths are relative
// to the config directory until ResolvePaths runs.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:               "http://127.0.0.1:7443",
			TimeoutSecs:       15,
			RequestsPerSecond: 10,
			Burst:             20,
		},
		Console: ConsoleConfig{
			DataDir:         "data",
			HistoryFile:     "history",
			HistoryLimit:    1000,
			ActiveOnly:      true,
			DefaultPipeName: "agentsvc",
			Color:           "auto",
		},
		Log: LogConfig{
			Level: "info",
			File:  "console.log",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the console configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".agentconsole"), nil
}

// ConfigPath returns the path to the default config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o700)
}

// EnsureDirs creates the config directory and every directory the console
// writes into: the data directory and the parents of the history and log
// files.
func (c *Config) EnsureDirs() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	dirs := []string{c.Console.DataDir, filepath.Dir(c.Console.HistoryFile)}
	if c.Log.File != "" {
		dirs = append(dirs, filepath.Dir(c.Log.File))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// ensureSecurePermissions tightens a config file that may hold a token to
// 0600. No-op on Windows, where the mode bits are not meaningful.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode&0o077 != 0 {
		if err := os.Chmod(path, 0o600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads the default config file if it exists, otherwise the defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); statErr != nil {
		cfg := Default()
		return finish(cfg, filepath.Dir(path))
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific TOML file with full
// validation. Relative paths inside it resolve against the file's directory.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return finish(cfg, filepath.Dir(path))
}

// LoadTOML decodes a TOML file over cfg. Keys not in the file keep their
// current values.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// finish applies environment overrides, defaults, path resolution and
// validation.
func finish(cfg *Config, baseDir string) (*Config, error) {
	cfg.ApplyEnvOverrides()
	fillDefaults(cfg)
	cfg.ResolvePaths(baseDir)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in zero values that a file may have blanked.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Server.URL == "" {
		cfg.Server.URL = defaults.Server.URL
	}
	if cfg.Server.TimeoutSecs == 0 {
		cfg.Server.TimeoutSecs = defaults.Server.TimeoutSecs
	}
	if cfg.Server.RequestsPerSecond == 0 {
		cfg.Server.RequestsPerSecond = defaults.Server.RequestsPerSecond
	}
	if cfg.Server.Burst == 0 {
		cfg.Server.Burst = defaults.Server.Burst
	}
	if cfg.Console.DataDir == "" {
		cfg.Console.DataDir = defaults.Console.DataDir
	}
	if cfg.Console.HistoryFile == "" {
		cfg.Console.HistoryFile = defaults.Console.HistoryFile
	}
	if cfg.Console.HistoryLimit == 0 {
		cfg.Console.HistoryLimit = defaults.Console.HistoryLimit
	}
	if cfg.Console.DefaultPipeName == "" {
		cfg.Console.DefaultPipeName = defaults.Console.DefaultPipeName
	}
	if cfg.Console.Color == "" {
		cfg.Console.Color = defaults.Console.Color
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Log.File == "" {
		cfg.Log.File = defaults.Log.File
	}
}

// ResolvePaths makes the local file paths absolute. "~/" expands to the home
// directory; other relative paths are taken relative to baseDir.
func (c *Config) ResolvePaths(baseDir string) {
	c.Console.DataDir = resolvePath(c.Console.DataDir, baseDir)
	c.Console.HistoryFile = resolvePath(c.Console.HistoryFile, baseDir)
	c.Log.File = resolvePath(c.Log.File, baseDir)
}

func resolvePath(path, baseDir string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	if filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSecs) * time.Second
}

// LogLevel parses the configured level. Unknown names fall back to info.
func (c *Config) LogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	u, err := url.Parse(c.Server.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "server.url",
			Message: fmt.Sprintf("invalid URL '%s', must be http(s)://host[:port]", c.Server.URL),
		})
	}

	if c.Server.TimeoutSecs < 1 || c.Server.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{
			Field:   "server.timeout_secs",
			Message: fmt.Sprintf("must be between 1 and 600, got %d", c.Server.TimeoutSecs),
		})
	}

	if c.Server.RequestsPerSecond < 0 {
		errs = append(errs, ValidationError{
			Field:   "server.requests_per_second",
			Message: "must not be negative",
		})
	}

	if c.Server.Burst < 1 {
		errs = append(errs, ValidationError{
			Field:   "server.burst",
			Message: fmt.Sprintf("must be at least 1, got %d", c.Server.Burst),
		})
	}

	if c.Console.HistoryLimit < 0 {
		errs = append(errs, ValidationError{
			Field:   "console.history_limit",
			Message: "must not be negative",
		})
	}

	validColor := map[string]bool{"auto": true, "always": true, "never": true}
	if !validColor[strings.ToLower(c.Console.Color)] {
		errs = append(errs, ValidationError{
			Field:   "console.color",
			Message: fmt.Sprintf("invalid value '%s', must be one of: auto, always, never", c.Console.Color),
		})
	}

	if strings.ContainsAny(c.Console.DefaultPipeName, `\/ `) {
		errs = append(errs, ValidationError{
			Field:   "console.default_pipe_name",
			Message: "must be a bare pipe name",
		})
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//
//   - AGENTCONSOLE_URL: overrides server.url
//   - AGENTCONSOLE_TOKEN: overrides server.token
//   - AGENTCONSOLE_DATA_DIR: overrides console.data_dir
//   - AGENTCONSOLE_LOG_LEVEL: overrides log.level
//   - AGENTCONSOLE_DEBUG: sets log.level to debug when truthy
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("AGENTCONSOLE_URL"); v != "" {
		c.Server.URL = v
	}
	if v := os.Getenv("AGENTCONSOLE_TOKEN"); v != "" {
		c.Server.Token = v
	}
	if v := os.Getenv("AGENTCONSOLE_DATA_DIR"); v != "" {
		c.Console.DataDir = v
	}
	if v := os.Getenv("AGENTCONSOLE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("AGENTCONSOLE_DEBUG"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil && on {
			c.Log.Level = "debug"
		}
	}
}
