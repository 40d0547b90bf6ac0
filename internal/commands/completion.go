// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// =============================================================================
// COMPLETION
// =============================================================================

// Completion is one tab-completion candidate.
type Completion struct {
	// Value replaces the partial token
	Value string

	// Description is shown next to the value when listing candidates
	Description string

	// Score ranks candidates; higher is better
	Score int
}

// CompleteFromList returns the values that start with partial, ranked.
func CompleteFromList(values []string, partial string) []Completion {
	var completions []Completion

	partial = strings.ToLower(partial)

	for _, value := range values {
		if strings.HasPrefix(strings.ToLower(value), partial) {
			completions = append(completions, Completion{
				Value: value,
				Score: calculateScore(value, partial),
			})
		}
	}

	sortCompletions(completions)
	return completions
}

// CompleteParameter resolves the value source of params[index] now and
// completes partial against it. Resolution failures yield no candidates;
// the error is returned so the caller can log it.
func CompleteParameter(ctx context.Context, params []Parameter, index int, partial string) ([]Completion, error) {
	p, ok := parameterAt(params, index)
	if !ok || p.Values == nil {
		return nil, nil
	}
	values, err := p.Values.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return CompleteFromList(values, partial), nil
}

// parameterAt maps an argument index to its parameter, accounting for a
// trailing Rest parameter.
func parameterAt(params []Parameter, index int) (Parameter, bool) {
	if index < 0 || len(params) == 0 {
		return Parameter{}, false
	}
	if index < len(params) {
		return params[index], true
	}
	last := params[len(params)-1]
	if last.Rest {
		return last, true
	}
	return Parameter{}, false
}

// Suggest returns up to n candidates closest to input, best first.
func Suggest(input string, candidates []string, n int) []string {
	if input == "" || len(candidates) == 0 {
		return nil
	}

	ranks := fuzzy.RankFindFold(input, candidates)
	sort.Sort(ranks)

	var out []string
	for _, r := range ranks {
		if len(out) == n {
			break
		}
		out = append(out, r.Target)
	}

	// Fall back to prefix matches for inputs longer than the candidate.
	if len(out) == 0 {
		first := string([]rune(input)[:1])
		for _, c := range CompleteFromList(candidates, first) {
			if len(out) == n {
				break
			}
			out = append(out, c.Value)
		}
	}
	return out
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// calculateScore calculates a match score for completion ranking.
// Higher score = better match.
func calculateScore(value, partial string) int {
	value = strings.ToLower(value)
	partial = strings.ToLower(partial)

	score := 100

	// Exact match
	if value == partial {
		return score + 100
	}

	// Prefix match bonus
	if strings.HasPrefix(value, partial) {
		score += 50
		// Bonus for shorter completions
		score += 20 - len(value)
	}

	// Length penalty
	score -= len(value) / 2

	return score
}

// sortCompletions sorts completions by score (descending), then alphabetically.
func sortCompletions(completions []Completion) {
	sort.SliceStable(completions, func(i, j int) bool {
		if completions[i].Score != completions[j].Score {
			return completions[i].Score > completions[j].Score
		}
		return completions[i].Value < completions[j].Value
	})
}
