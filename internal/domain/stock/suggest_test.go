package stock

import (
	"errors"
	"testing"
)

var catalog = []string{"rice", "beans", "pasta", "oil"}

func TestClosestFindsNearMiss(t *testing.T) {
	got := Closest("rixe", catalog, SuggestionLimit, SuggestionCutoff)
	if len(got) == 0 || got[0] != "rice" {
		t.Fatalf("expected rice first, got %v", got)
	}
}

func TestClosestIsCaseInsensitive(t *testing.T) {
	got := Closest("  RICE ", catalog, SuggestionLimit, SuggestionCutoff)
	if len(got) == 0 || got[0] != "rice" {
		t.Fatalf("expected rice, got %v", got)
	}
}

func TestClosestCutoffFiltersFarInputs(t *testing.T) {
	if got := Closest("zzzzzzz", catalog, SuggestionLimit, SuggestionCutoff); len(got) != 0 {
		t.Fatalf("expected no suggestions, got %v", got)
	}
}

func TestClosestHonorsLimit(t *testing.T) {
	names := []string{"cola", "colb", "colc", "cold"}
	got := Closest("col", names, 3, SuggestionCutoff)
	if len(got) != 3 {
		t.Fatalf("expected 3 suggestions, got %v", got)
	}
}

func TestClosestDeterministicTieBreak(t *testing.T) {
	names := []string{"beta", "betb"}
	first := Closest("bet", names, 2, 0.5)
	for i := 0; i < 10; i++ {
		if got := Closest("bet", names, 2, 0.5); len(got) != 2 || got[0] != first[0] || got[1] != first[1] {
			t.Fatalf("ordering unstable: %v vs %v", got, first)
		}
	}
	if first[0] != "beta" {
		t.Fatalf("expected alphabetical tie break, got %v", first)
	}
}

func TestClosestEmptyInput(t *testing.T) {
	if got := Closest("", catalog, SuggestionLimit, SuggestionCutoff); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestSuggestionErrorMatchesUnknownProduct(t *testing.T) {
	err := error(&SuggestionError{Input: "rixe", Suggestions: []string{"rice"}})
	if !errors.Is(err, ErrUnknownProduct) {
		t.Fatalf("SuggestionError should match ErrUnknownProduct")
	}
	var sv *SuggestionError
	if !errors.As(err, &sv) || len(sv.Suggestions) != 1 {
		t.Fatalf("lost suggestions through error chain: %v", err)
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"rice", "rice", 0},
		{"rixe", "rice", 1},
		{"", "oil", 3},
		{"pasta", "paste", 1},
		{"beans", "oil", 5},
	}
	for _, c := range cases {
		if got := levenshtein(c.a, c.b); got != c.want {
			t.Fatalf("levenshtein(%q,%q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}
