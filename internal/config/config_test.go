// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"AGENTCONSOLE_URL", "AGENTCONSOLE_TOKEN", "AGENTCONSOLE_DATA_DIR",
		"AGENTCONSOLE_LOG_LEVEL", "AGENTCONSOLE_DEBUG",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "agentsvc", cfg.Console.DefaultPipeName)
	assert.True(t, cfg.Console.ActiveOnly)
	assert.Equal(t, 15*time.Second, cfg.Timeout())
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())
}

func TestLoadFromPath(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[server]
url = "https://svc.example:9000"
token = "abc"

[console]
data_dir = "payloads"
active_only = false

[log]
level = "debug"
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "https://svc.example:9000", cfg.Server.URL)
	assert.Equal(t, "abc", cfg.Server.Token)
	assert.Equal(t, 15, cfg.Server.TimeoutSecs, "unset keys keep defaults")
	assert.False(t, cfg.Console.ActiveOnly)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "payloads"), cfg.Console.DataDir)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "history"), cfg.Console.HistoryFile)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
}

func TestLoadFromPath_UnknownKey(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[server]\nurll = \"x\"\n")

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.urll")
}

func TestLoadFromPath_Invalid(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[server]\nurl = \"ftp://host\"\nburst = -1\n")

	_, err := LoadFromPath(path)
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	fields := make([]string, len(verrs))
	for i, v := range verrs {
		fields[i] = v.Field
	}
	assert.ElementsMatch(t, []string{"server.url", "server.burst"}, fields)
}

func TestLoadTOML_FixesPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("mode bits not meaningful on windows")
	}
	path := writeConfig(t, "[server]\ntoken = \"secret\"\n")
	require.NoError(t, os.Chmod(path, 0o644))

	require.NoError(t, LoadTOML(Default(), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestApplyEnvOverrides(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "url and token",
			env:  map[string]string{"AGENTCONSOLE_URL": "http://10.0.0.1:80", "AGENTCONSOLE_TOKEN": "t"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "http://10.0.0.1:80", cfg.Server.URL)
				assert.Equal(t, "t", cfg.Server.Token)
			},
		},
		{
			name: "data dir",
			env:  map[string]string{"AGENTCONSOLE_DATA_DIR": "/srv/data"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/srv/data", cfg.Console.DataDir)
			},
		},
		{
			name: "debug wins over level",
			env:  map[string]string{"AGENTCONSOLE_LOG_LEVEL": "warn", "AGENTCONSOLE_DEBUG": "1"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Log.Level)
			},
		},
		{
			name: "debug false ignored",
			env:  map[string]string{"AGENTCONSOLE_DEBUG": "false"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "info", cfg.Log.Level)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg := Default()
			cfg.ApplyEnvOverrides()
			tt.check(t, cfg)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"bad url", func(c *Config) { c.Server.URL = "not a url" }, "server.url"},
		{"zero timeout", func(c *Config) { c.Server.TimeoutSecs = 0 }, "server.timeout_secs"},
		{"negative rate", func(c *Config) { c.Server.RequestsPerSecond = -1 }, "server.requests_per_second"},
		{"bad color", func(c *Config) { c.Console.Color = "rainbow" }, "console.color"},
		{"pipe with path", func(c *Config) { c.Console.DefaultPipeName = `\\.\pipe\x` }, "console.default_pipe_name"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestValidateErrors_Error(t *testing.T) {
	errs := ValidateErrors{
		{Field: "a", Message: "one"},
		{Field: "b", Message: "two"},
	}
	assert.Equal(t, "a: one; b: two", errs.Error())
	assert.Equal(t, "no validation errors", ValidateErrors{}.Error())
}

func TestResolvePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "x"), resolvePath("~/x", "/base"))
	assert.Equal(t, filepath.Join("/base", "x"), resolvePath("x", "/base"))
	assert.Equal(t, "/abs/x", resolvePath("/abs/x", "/base"))
}

func TestEnsureDirs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	base := t.TempDir()
	cfg := Default()
	cfg.Console.DataDir = filepath.Join(base, "data")
	cfg.Console.HistoryFile = filepath.Join(base, "state", "history")
	cfg.Log.File = filepath.Join(base, "logs", "console.log")

	require.NoError(t, cfg.EnsureDirs())
	for _, dir := range []string{
		filepath.Join(home, ".agentconsole"),
		cfg.Console.DataDir,
		filepath.Join(base, "state"),
		filepath.Join(base, "logs"),
	} {
		info, err := os.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir(), dir)
	}

	// Running it again over existing directories is fine.
	require.NoError(t, cfg.EnsureDirs())
}

func TestEnsureDirs_NoLogFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	base := t.TempDir()
	cfg := Default()
	cfg.Console.DataDir = filepath.Join(base, "data")
	cfg.Console.HistoryFile = filepath.Join(base, "history")
	cfg.Log.File = ""

	require.NoError(t, cfg.EnsureDirs())
	_, err := os.Stat(cfg.Console.DataDir)
	require.NoError(t, err)
}

func TestEnsureDirs_Blocked(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	cfg := Default()
	cfg.Console.DataDir = filepath.Join(blocker, "data")
	cfg.Console.HistoryFile = filepath.Join(base, "history")

	err := cfg.EnsureDirs()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating")
}
