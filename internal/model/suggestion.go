package model

// CategorySuggestion is the best-guess category for a description.
// CategoryID is nil when nothing in the history scored high enough.
type CategorySuggestion struct {
	CategoryID   *int    `json:"suggestion"`
	CategoryName string  `json:"category_name,omitempty"`
	Confidence   float64 `json:"confidence"`
	MatchCount   int     `json:"match_count"`
}

// CategoryPattern summarizes how an owner describes transactions in one category.
type CategoryPattern struct {
	CategoryName     string   `json:"category_name"`
	TopKeywords      []string `json:"top_keywords"`
	CategoryID       int      `json:"category_id"`
	TransactionCount int      `json:"transaction_count"`
}
