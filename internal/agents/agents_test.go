// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agents

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/agentconsole/internal/menu"
	"github.com/jeranaias/agentconsole/internal/remote"
	"github.com/jeranaias/agentconsole/internal/remote/memory"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

type table struct {
	headers []string
	rows    [][]string
}

type recordOutput struct {
	lines  []string
	errs   []error
	tables []table
}

func (o *recordOutput) Info(format string, args ...any) {
	o.lines = append(o.lines, "info: "+fmt.Sprintf(format, args...))
}

func (o *recordOutput) Highlight(format string, args ...any) {
	o.lines = append(o.lines, "highlight: "+fmt.Sprintf(format, args...))
}

func (o *recordOutput) Warn(format string, args ...any) {
	o.lines = append(o.lines, "warn: "+fmt.Sprintf(format, args...))
}

func (o *recordOutput) Error(format string, args ...any) {
	o.lines = append(o.lines, "error: "+fmt.Sprintf(format, args...))
}

func (o *recordOutput) Table(headers []string, rows [][]string) {
	o.tables = append(o.tables, table{headers: headers, rows: rows})
}

func (o *recordOutput) Report(err error) {
	o.errs = append(o.errs, err)
}

func (o *recordOutput) reset() {
	o.lines, o.errs, o.tables = nil, nil, nil
}

func (o *recordOutput) lastErr() error {
	if len(o.errs) == 0 {
		return nil
	}
	return o.errs[len(o.errs)-1]
}

func (o *recordOutput) lastTable() table {
	if len(o.tables) == 0 {
		return table{}
	}
	return o.tables[len(o.tables)-1]
}

type fixture struct {
	client *memory.Client
	out    *recordOutput
	s      *Session
	d      *menu.Dispatcher
	agent  *remote.Agent
	tasks  map[string]*remote.Task
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c := memory.New()
	f := &fixture{client: c, out: &recordOutput{}, tasks: make(map[string]*remote.Task)}

	for _, task := range memory.StandardTasks() {
		added := c.AddTask(task)
		f.tasks[added.Name] = added
	}
	f.agent = c.AddAgent(remote.Agent{
		Name: "FOO", CommType: "HTTP", Hostname: "HOST1", IPAddress: "10.0.0.5",
		UserDomainName: "LAB", UserName: "op", Status: remote.AgentActive,
		Delay: 5, JitterPercent: 10, ConnectAttempts: 100,
	})

	f.s = &Session{
		Client:  c,
		Out:     f.out,
		DataDir: "/data",
		Files: fstest.MapFS{
			"payload.bin": {Data: []byte("hello")},
			"lib.ps1":     {Data: []byte("function Foo { 1 }\n")},
		},
		ActiveOnly: true,
	}
	f.d = menu.NewDispatcher(NewRoot(f.s), f.out, nil)
	f.d.Start(context.Background())
	return f
}

// interact enters the FOO agent and clears the recorded state.
func (f *fixture) interact(t *testing.T) *Interact {
	t.Helper()
	f.d.Dispatch(context.Background(), "Interact foo")
	require.Empty(t, f.out.errs)
	require.Equal(t, 2, f.d.Stack().Len())
	i, ok := f.d.Current().(*Interact)
	require.True(t, ok)
	f.client.ResetCalls()
	f.out.reset()
	return i
}

func (f *fixture) lastSubmitted(t *testing.T) remote.TaskingSpec {
	t.Helper()
	specs := f.client.Submitted()
	require.NotEmpty(t, specs)
	return specs[len(specs)-1]
}

// taskingNames extracts the tasking names from History header lines.
func taskingNames(lines []string) []string {
	var names []string
	for _, l := range lines {
		if idx := strings.Index(l, "Tasking: "); idx >= 0 && strings.HasPrefix(l, "info: [") {
			names = append(names, l[idx+len("Tasking: "):])
		}
	}
	return names
}

// row finds the key/value row with the given key.
func row(tb table, key string) ([]string, bool) {
	for _, r := range tb.rows {
		if len(r) > 0 && r[0] == key {
			return r, true
		}
	}
	return nil, false
}
