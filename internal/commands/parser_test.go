// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// =============================================================================
// TOKENIZER TESTS
// =============================================================================

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"whitespace only", "   \t ", nil},
		{"single word", "Show", []string{"Show"}},
		{"collapses spaces", "Set   Delay\t10", []string{"Set", "Delay", "10"}},
		{"quoted path", `Set Path "C:\Program Files"`, []string{"Set", "Path", `C:\Program Files`}},
		{"single quotes are literal", `cd 'My Documents'`, []string{"cd", "'My", "Documents'"}},
		{"apostrophe", `Shell echo it's done`, []string{"Shell", "echo", "it's", "done"}},
		{"escaped quote", `Shell "echo \"hi\""`, []string{"Shell", `echo "hi"`}},
		{"escaped backslash", `ls "C:\\"`, []string{"ls", `C:\`}},
		{"empty quoted token", `Set Value ""`, []string{"Set", "Value", ""}},
		{"adjacent quoted span", `ab"cd ef"gh`, []string{"abcd efgh"}},
		{"unquoted backslash literal", `ls C:\temp\x`, []string{"ls", `C:\temp\x`}},
		{"apostrophe inside quotes", `Shell "it's"`, []string{"Shell", "it's"}},
		{"backslash before apostrophe", `Shell "a\'b"`, []string{"Shell", `a\'b`}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Tokenize(tc.input)
			if err != nil {
				t.Fatalf("Tokenize(%q) error: %v", tc.input, err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tc.input, diff)
			}
		})
	}
}

func TestTokenizeUnmatchedQuote(t *testing.T) {
	inputs := []string{
		`Set Path "C:\Program Files`,
		`cd "abc`,
		`Shell "unterminated \"`,
	}

	for _, input := range inputs {
		_, err := Tokenize(input)
		if !errors.Is(err, ErrMalformedInput) {
			t.Errorf("Tokenize(%q) error = %v, want ErrMalformedInput", input, err)
		}
		var mErr *MalformedInputError
		if !errors.As(err, &mErr) || mErr.Input != input {
			t.Errorf("Tokenize(%q) should report the offending input, got %v", input, err)
		}
	}
}

func TestJoinLineRoundTrip(t *testing.T) {
	tokens := []string{"Set", "two words", `C:\Program Files`, `say "hi"`, "", "plain", "it's", "'quoted words'"}

	line := JoinLine(tokens...)
	got, err := Tokenize(line)
	if err != nil {
		t.Fatalf("Tokenize(%q) error: %v", line, err)
	}
	if diff := cmp.Diff(tokens, got); diff != "" {
		t.Errorf("round trip of %q mismatch (-want +got):\n%s", line, diff)
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"", `""`},
		{"two words", `"two words"`},
		{`a"b`, `"a\"b"`},
		{`C:\`, `"C:\\"`},
		{"it's", "it's"},
		{"it's done", `"it's done"`},
	}

	for _, tc := range tests {
		if got := Quote(tc.input); got != tc.want {
			t.Errorf("Quote(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

// =============================================================================
// HELPER TESTS
// =============================================================================

func TestFirstToken(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Show", "Show"},
		{"  Set Delay 5", "Set"},
		{`Upload "C:\Pro`, "Upload"},
		{"", ""},
	}

	for _, tc := range tests {
		if got := FirstToken(tc.input); got != tc.want {
			t.Errorf("FirstToken(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestPartialArg(t *testing.T) {
	tests := []struct {
		input       string
		wantDone    []string
		wantPartial string
	}{
		{"", nil, ""},
		{"Se", []string{}, "Se"},
		{"Set ", []string{"Set"}, ""},
		{"Set De", []string{"Set"}, "De"},
		{"Set Delay ", []string{"Set", "Delay"}, ""},
		{`Upload "C:\Pro`, []string{"Upload"}, `C:\Pro`},
		{`Upload "My Docs`, []string{"Upload"}, "My Docs"},
		{`Upload "My Docs" `, []string{"Upload", "My Docs"}, ""},
		{`Shell it's `, []string{"Shell", "it's"}, ""},
	}

	for _, tc := range tests {
		done, partial := PartialArg(tc.input)
		if diff := cmp.Diff(tc.wantDone, done); diff != "" {
			t.Errorf("PartialArg(%q) done mismatch (-want +got):\n%s", tc.input, diff)
		}
		if partial != tc.wantPartial {
			t.Errorf("PartialArg(%q) partial = %q, want %q", tc.input, partial, tc.wantPartial)
		}
	}
}
