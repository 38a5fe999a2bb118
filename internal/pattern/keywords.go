package pattern

import (
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// KeywordBonus is added once per input word that overlaps a historical word.
	KeywordBonus = 0.3
	// minOverlapWordLength is the shortest input word that earns a keyword bonus.
	minOverlapWordLength = 3
	// minPatternWordLength is the shortest word reported as a category keyword.
	minPatternWordLength = 4
	// TopKeywordCount is how many keywords a category pattern reports.
	TopKeywordCount = 5
)

// keywordOverlap returns KeywordBonus for every input word of three or more
// characters that contains, or is contained in, some historical word. The
// total is not capped; callers clamp the combined score.
func keywordOverlap(input, historical string) float64 {
	historicalWords := strings.Fields(historical)

	bonus := 0.0
	for _, word := range strings.Fields(input) {
		if utf8.RuneCountInString(word) < minOverlapWordLength {
			continue
		}
		for _, hw := range historicalWords {
			if strings.Contains(hw, word) || strings.Contains(word, hw) {
				bonus += KeywordBonus
				break
			}
		}
	}
	return bonus
}

// TopKeywords counts words longer than three characters across descriptions
// and returns the n most frequent, first-seen first on ties.
func TopKeywords(descriptions []string, n int) []string {
	text := strings.ToLower(strings.Join(descriptions, " "))

	counts := make(map[string]int)
	var order []string
	for _, word := range strings.Fields(text) {
		if utf8.RuneCountInString(word) < minPatternWordLength {
			continue
		}
		if _, seen := counts[word]; !seen {
			order = append(order, word)
		}
		counts[word]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > n {
		order = order[:n]
	}
	if order == nil {
		return []string{}
	}
	return order
}
