// Package similarity scores how alike two free-text descriptions are.
package similarity

import "strings"

type bigram [2]rune

// Score returns the Dice coefficient over character bigrams of a and b,
// a number in [0,1]. Inputs are compared lower-cased and trimmed.
//
// An empty input scores 0 even against another empty input; that check runs
// before the equality short-circuit. Strings that are equal after
// normalization score 1 regardless of length.
func Score(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	ra := []rune(normalize(a))
	rb := []rune(normalize(b))

	if string(ra) == string(rb) {
		return 1
	}
	if len(ra) < 2 || len(rb) < 2 {
		return 0
	}

	remaining := make(map[bigram]int, len(ra)-1)
	for i := 0; i < len(ra)-1; i++ {
		remaining[bigram{ra[i], ra[i+1]}]++
	}

	matches := 0
	for i := 0; i < len(rb)-1; i++ {
		bg := bigram{rb[i], rb[i+1]}
		if remaining[bg] > 0 {
			remaining[bg]--
			matches++
		}
	}

	return float64(2*matches) / float64(len(ra)+len(rb)-2)
}

// ScoreOptional scores two optional descriptions, treating nil as empty.
func ScoreOptional(a, b *string) float64 {
	return Score(deref(a), deref(b))
}

func normalize(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
