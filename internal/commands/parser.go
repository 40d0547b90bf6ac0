// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"
	"unicode"
)

// =============================================================================
// TOKENIZER
// =============================================================================

// Tokenize splits a console line into argument tokens.
//
// Unquoted whitespace separates tokens. A "..." span is part of a single
// token with the delimiters stripped, so `Set Path "C:\Program Files"` yields
// three tokens. Single quotes are ordinary characters, so `it's` needs no
// escaping. Inside quotes a backslash escapes a double quote or another
// backslash; any other backslash is kept literally. An empty quoted span ("")
// produces an empty token. An unterminated quote is reported as a
// MalformedInputError rather than silently truncated.
func Tokenize(input string) ([]string, error) {
	var tokens []string
	var current strings.Builder
	quoted := false
	inToken := false

	runes := []rune(input)
	for i := 0; i < len(runes); i++ {
		char := runes[i]

		switch {
		case quoted && char == '"':
			quoted = false

		case quoted && char == '\\' && i+1 < len(runes):
			next := runes[i+1]
			if next == '"' || next == '\\' {
				current.WriteRune(next)
				i++
			} else {
				current.WriteRune(char)
			}

		case quoted:
			current.WriteRune(char)

		case char == '"':
			quoted = true
			inToken = true

		case unicode.IsSpace(char):
			if inToken {
				tokens = append(tokens, current.String())
				current.Reset()
				inToken = false
			}

		default:
			current.WriteRune(char)
			inToken = true
		}
	}

	if quoted {
		return nil, &MalformedInputError{
			Input:  input,
			Reason: `unmatched " quote`,
		}
	}

	if inToken {
		tokens = append(tokens, current.String())
	}

	return tokens, nil
}

// Quote renders a single token so that Tokenize reads it back unchanged.
// Tokens without whitespace, double quotes or backslashes are returned as-is.
func Quote(token string) string {
	if token != "" && !strings.ContainsFunc(token, needsQuoting) {
		return token
	}

	var b strings.Builder
	b.WriteByte('"')
	for _, r := range token {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

// JoinLine builds a console line from tokens, quoting where needed.
func JoinLine(tokens ...string) string {
	quoted := make([]string, len(tokens))
	for i, t := range tokens {
		quoted[i] = Quote(t)
	}
	return strings.Join(quoted, " ")
}

func needsQuoting(r rune) bool {
	return unicode.IsSpace(r) || r == '"' || r == '\\'
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// FirstToken returns the leading word of a line without tokenizing the rest.
// Used by completion where the remainder may still contain an open quote.
func FirstToken(input string) string {
	input = strings.TrimLeftFunc(input, unicode.IsSpace)
	end := strings.IndexFunc(input, unicode.IsSpace)
	if end == -1 {
		return input
	}
	return input[:end]
}

// PartialArg splits an in-progress line into the completed tokens and the
// token currently being typed. A trailing space means a new token is starting.
func PartialArg(input string) (done []string, partial string) {
	tokens, err := Tokenize(input)
	if err != nil {
		// Still inside a quote: complete against the open token.
		tokens, _ = Tokenize(input + `"`)
	}
	if len(tokens) == 0 {
		return nil, ""
	}
	if strings.HasSuffix(input, " ") && !inQuote(input) {
		return tokens, ""
	}
	return tokens[:len(tokens)-1], tokens[len(tokens)-1]
}

// inQuote reports whether input ends inside an open "..." span.
func inQuote(input string) bool {
	quoted := false
	runes := []rune(input)
	for i := 0; i < len(runes); i++ {
		switch {
		case quoted && runes[i] == '\\':
			i++
		case runes[i] == '"':
			quoted = !quoted
		}
	}
	return quoted
}
