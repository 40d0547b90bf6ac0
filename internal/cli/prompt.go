// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"errors"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/agentconsole/internal/util"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// Prompt provides line editing, input history and tab completion. It
// implements menu.LineReader.
type Prompt struct {
	line        *liner.State
	historyFile string
	limit       int
}

// NewPrompt creates a prompt with history loaded from historyFile. complete
// maps the line typed so far to full-line candidates; nil disables
// completion. A limit of 0 keeps history unbounded.
func NewPrompt(historyFile string, limit int, complete func(line string) []string) *Prompt {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	if complete != nil {
		line.SetCompleter(complete)
		line.SetTabCompletionStyle(liner.TabPrints)
	}

	p := &Prompt{
		line:        line,
		historyFile: historyFile,
		limit:       limit,
	}
	p.LoadHistory()
	return p
}

// LoadHistory replaces the in-memory history with the contents of the
// history file.
func (p *Prompt) LoadHistory() {
	if p.historyFile == "" {
		return
	}
	if f, err := os.Open(p.historyFile); err == nil {
		p.line.ClearHistory()
		p.line.ReadHistory(f)
		f.Close()
	}
}

// ReadLine reads a line of input. Ctrl+C abandons the current line and
// returns an empty one; Ctrl+D returns io.EOF.
func (p *Prompt) ReadLine(prompt string) (string, error) {
	input, err := p.line.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	// Add non-empty input to history
	if strings.TrimSpace(input) != "" {
		p.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists command history with owner-only permissions, keeping
// the most recent lines up to the limit.
func (p *Prompt) SaveHistory() error {
	if p.historyFile == "" {
		return nil
	}
	var buf bytes.Buffer
	if _, err := p.line.WriteHistory(&buf); err != nil {
		return err
	}
	return util.AtomicWriteFile(p.historyFile, trimHistory(buf.Bytes(), p.limit), 0o600)
}

// Close saves history and restores the terminal.
func (p *Prompt) Close() error {
	saveErr := p.SaveHistory()
	if err := p.line.Close(); err != nil {
		return err
	}
	return saveErr
}

// trimHistory keeps the last limit lines of a newline-terminated history.
func trimHistory(data []byte, limit int) []byte {
	if limit <= 0 {
		return data
	}
	lines := strings.SplitAfter(string(data), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	if len(lines) <= limit {
		return data
	}
	return []byte(strings.Join(lines[len(lines)-limit:], ""))
}
