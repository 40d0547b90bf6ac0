// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/agentconsole/internal/commands"
	"github.com/jeranaias/agentconsole/internal/remote"
	"github.com/jeranaias/agentconsole/internal/util"
)

// =============================================================================
// PRINTER
// =============================================================================

// Line prefixes, shown regardless of color support.
const (
	prefixInfo  = "[*] "
	prefixWarn  = "[!] "
	prefixError = "[-] "
)

// columnGap separates table columns.
const columnGap = "  "

// minLastColumn is the narrowest the last table column is squeezed to.
const minLastColumn = 10

// Printer renders operator-facing output on a writer. It implements
// menu.Output.
type Printer struct {
	mu    sync.Mutex
	w     io.Writer
	width int
}

// NewPrinter creates a printer writing to w. Tables are not width-limited
// until SetWidth is called.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// SetWidth limits table rows to width columns by truncating the last column.
// Zero disables the limit.
func (p *Printer) SetWidth(width int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.width = width
}

// Info prints an informational line.
func (p *Printer) Info(format string, args ...any) {
	p.line(InfoStyle, prefixInfo, lipgloss.NewStyle(), format, args...)
}

// Highlight prints an emphasized line, used for task output.
func (p *Printer) Highlight(format string, args ...any) {
	p.line(HighlightStyle, prefixInfo, HighlightStyle, format, args...)
}

// Warn prints a warning line.
func (p *Printer) Warn(format string, args ...any) {
	p.line(WarningStyle, prefixWarn, WarningStyle, format, args...)
}

// Error prints an error line.
func (p *Printer) Error(format string, args ...any) {
	p.line(ErrorStyle, prefixError, lipgloss.NewStyle(), format, args...)
}

func (p *Printer) line(prefixStyle lipgloss.Style, prefix string, textStyle lipgloss.Style, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, l := range strings.Split(msg, "\n") {
		fmt.Fprintln(p.w, RenderConditional(prefixStyle, prefix)+RenderConditional(textStyle, l))
	}
}

// Table prints rows in aligned columns. With nil headers the first column is
// rendered as a key column, which is how key/value views are drawn.
func (p *Printer) Table(headers []string, rows [][]string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	widths := fitWidths(columnWidths(headers, rows), p.width)

	if len(headers) > 0 {
		fmt.Fprintln(p.w, RenderConditional(HeaderStyle, formatRow(headers, widths)))
		under := make([]string, len(headers))
		for i, h := range headers {
			under[i] = strings.Repeat("-", util.StringWidth(h))
		}
		fmt.Fprintln(p.w, RenderConditional(DimStyle, formatRow(under, widths)))
	}

	for _, row := range rows {
		if len(headers) == 0 && len(row) > 0 {
			key := util.PadRight(row[0], widths[0])
			rest := formatRow(row[1:], widths[1:])
			fmt.Fprintln(p.w, strings.TrimRight(RenderConditional(LabelStyle, key)+columnGap+rest, " "))
			continue
		}
		fmt.Fprintln(p.w, formatRow(row, widths))
	}
}

// Report prints err according to its class. User errors are printed as
// errors (usage errors with the literal usage line); remote and value source
// failures are printed as warnings since the console keeps its last state.
func (p *Printer) Report(err error) {
	if err == nil {
		return
	}

	var usageErr *commands.UsageError
	var sourceErr *commands.SourceError

	switch {
	case errors.As(err, &usageErr):
		if usageErr.Reason != "" {
			p.Error("%s", usageErr.Reason)
		}
		p.Info("Usage: %s", usageErr.Usage)
	case errors.As(err, &sourceErr):
		p.Warn("%s", sourceErr.Error())
	case remote.IsRemote(err):
		p.Warn("%s", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		p.Warn("Interrupted: %v", err)
	default:
		p.Error("%s", err.Error())
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func columnWidths(headers []string, rows [][]string) []int {
	n := len(headers)
	for _, row := range rows {
		n = max(n, len(row))
	}
	widths := make([]int, n)
	for i, h := range headers {
		widths[i] = util.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], util.StringWidth(cell))
		}
	}
	return widths
}

// fitWidths narrows the last column so a row fits in limit columns.
func fitWidths(widths []int, limit int) []int {
	n := len(widths)
	if limit <= 0 || n == 0 {
		return widths
	}
	used := len(columnGap) * (n - 1)
	for _, w := range widths[:n-1] {
		used += w
	}
	if avail := max(limit-used, minLastColumn); widths[n-1] > avail {
		widths[n-1] = avail
	}
	return widths
}

// formatRow pads each cell to its column width, truncating cells wider than
// it. Trailing padding is dropped.
func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		if i < len(widths) {
			parts[i] = util.PadRight(util.TruncateWidth(cell, widths[i]), widths[i])
		} else {
			parts[i] = cell
		}
	}
	return strings.TrimRight(strings.Join(parts, columnGap), " ")
}
