package stock

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// SuggestionLimit caps how many close matches are offered.
	SuggestionLimit = 3
	// SuggestionCutoff is the minimum similarity ratio for a candidate.
	SuggestionCutoff = 0.6
)

// SuggestionError wraps ErrUnknownProduct with close-matching catalog
// names so the caller can offer a correction.
type SuggestionError struct {
	Input       string
	Suggestions []string
}

func (e *SuggestionError) Error() string {
	return fmt.Sprintf("stock: unknown product %q (did you mean %s?)",
		e.Input, strings.Join(e.Suggestions, ", "))
}

func (e *SuggestionError) Unwrap() error { return ErrUnknownProduct }

// Closest returns up to limit candidate names whose similarity to input
// is at least cutoff, best first. Ties break alphabetically so the
// result is deterministic.
func Closest(input string, names []string, limit int, cutoff float64) []string {
	input = Normalize(input)
	if input == "" || limit <= 0 {
		return nil
	}

	type scored struct {
		name  string
		score float64
	}
	candidates := make([]scored, 0, len(names))
	for _, name := range names {
		s := similarity(input, Normalize(name))
		if s >= cutoff {
			candidates = append(candidates, scored{name: name, score: s})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].name < candidates[j].name
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.name
	}
	return out
}

// similarity is 1 - levenshtein/maxlen, in [0,1].
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := len(a), len(b)
	if la == 0 || lb == 0 {
		return 0
	}
	longest := la
	if lb > longest {
		longest = lb
	}
	return 1 - float64(levenshtein(a, b))/float64(longest)
}

func levenshtein(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
