package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordOverlap(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		historical string
		want       float64
	}{
		{name: "two shared words", input: "coffee shop downtown", historical: "downtown coffee", want: 0.6},
		{name: "input word inside historical word", input: "star", historical: "starbucks reserve", want: 0.3},
		{name: "historical word inside input word", input: "starbucks", historical: "star", want: 0.3},
		{name: "short words ignored", input: "at to", historical: "at to", want: 0},
		{name: "bonus is per input word and uncapped", input: "star star star star", historical: "starbucks", want: 1.2},
		{name: "no overlap", input: "rent", historical: "parking garage", want: 0},
		{name: "empty historical", input: "rent", historical: "", want: 0},
		{name: "extra whitespace does not create empty words", input: "rent", historical: "parking  garage", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, keywordOverlap(tt.input, tt.historical), 1e-9)
		})
	}
}

func TestTopKeywords(t *testing.T) {
	tests := []struct {
		name         string
		descriptions []string
		n            int
		want         []string
	}{
		{
			name:         "frequency then first seen",
			descriptions: []string{"Whole Foods Market", "Whole Foods", "Trader Joes market"},
			n:            5,
			want:         []string{"whole", "foods", "market", "trader", "joes"},
		},
		{
			name:         "short words dropped",
			descriptions: []string{"the gas bill", "gas and water bill"},
			n:            5,
			want:         []string{"bill", "water"},
		},
		{
			name:         "capped at n",
			descriptions: []string{"alpha bravo charlie delta echoes foxtrot"},
			n:            3,
			want:         []string{"alpha", "bravo", "charlie"},
		},
		{
			name:         "nothing qualifies",
			descriptions: []string{"a bc def"},
			n:            5,
			want:         []string{},
		},
		{
			name: "no descriptions",
			n:    5,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TopKeywords(tt.descriptions, tt.n))
		})
	}
}
