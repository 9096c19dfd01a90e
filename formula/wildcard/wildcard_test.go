package wildcard

import (
	"strings"
	"testing"
)

func TestSearch(t *testing.T) {
	tests := []struct {
		Text    string
		Pattern string
		Want    int
	}{
		{Text: "abc", Pattern: "", Want: 0},
		{Text: "", Pattern: "", Want: 0},
		{Text: "abc", Pattern: "abcd", Want: -1},
		{Text: "zabcd", Pattern: "AbCd", Want: 1},
		{Text: "hello world", Pattern: "o w", Want: 4},
		{Text: "hello world", Pattern: "w*d", Want: 6},
		{Text: "hello world", Pattern: "l?o", Want: 2},
		{Text: "hello world", Pattern: "*", Want: 0},
		{Text: "hello world", Pattern: "x*", Want: -1},
		{Text: "what?", Pattern: "~?", Want: 4},
		{Text: "a*b", Pattern: "~*", Want: 1},
		{Text: "a~b", Pattern: "~~", Want: 1},
		{Text: "abc", Pattern: "bc~", Want: 1},
		{Text: "xxabab", Pattern: "a?a", Want: 2},
		{Text: "ÉTÉ", Pattern: "té", Want: 1},
	}
	for _, c := range tests {
		got := Search(c.Text, c.Pattern)
		if got != c.Want {
			t.Errorf("search(%q, %q): offset mismatched! want %d, got %d", c.Text, c.Pattern, c.Want, got)
		}
	}
}

func TestSearchPatternLength(t *testing.T) {
	text := strings.Repeat("a", 1000)
	if got := Search(text, strings.Repeat("a", MaxPatternLength)); got != 0 {
		t.Errorf("pattern of %d characters should match at 0, got %d", MaxPatternLength, got)
	}
	if got := Search(text, strings.Repeat("a", MaxPatternLength+1)); got != -1 {
		t.Errorf("pattern of %d characters should never match, got %d", MaxPatternLength+1, got)
	}
	if Matches(strings.Repeat("*", MaxPatternLength+1), "abc") {
		t.Errorf("too long pattern should never match")
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		Pattern string
		Text    string
		Want    bool
	}{
		{Pattern: "a?", Text: "ab", Want: true},
		{Pattern: "a?", Text: "abc", Want: false},
		{Pattern: "a*", Text: "abc", Want: true},
		{Pattern: "*c", Text: "abc", Want: true},
		{Pattern: "*b", Text: "abc", Want: false},
		{Pattern: "A*C", Text: "abc", Want: true},
		{Pattern: "", Text: "", Want: true},
		{Pattern: "", Text: "a", Want: false},
		{Pattern: "*", Text: "", Want: true},
		{Pattern: "a~*", Text: "a*", Want: true},
		{Pattern: "a~*", Text: "ab", Want: false},
		{Pattern: "a~", Text: "a", Want: true},
		{Pattern: "~a", Text: "~a", Want: true},
		{Pattern: "*a*b*c*", Text: "xaxbxcx", Want: true},
		{Pattern: "??", Text: "é", Want: false},
	}
	for _, c := range tests {
		got := Matches(c.Pattern, c.Text)
		if got != c.Want {
			t.Errorf("matches(%q, %q): result mismatched! want %t, got %t", c.Pattern, c.Text, c.Want, got)
		}
	}
}
