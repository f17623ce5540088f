package model

import "time"

// RuleSource indicates how a categorization rule entered the store.
type RuleSource string

const (
	// RuleSourceSeed indicates a rule installed by the default rule set.
	RuleSourceSeed RuleSource = "SEED"
	// RuleSourceManual indicates a rule added via CLI command.
	RuleSourceManual RuleSource = "MANUAL"
	// RuleSourceFeedback indicates a rule learned from a user correction.
	RuleSourceFeedback RuleSource = "FEEDBACK"
)

// Rule weights by source. Feedback rules must outrank everything else so a
// corrected description keeps its corrected category on re-categorization.
const (
	WeightSeed     = 0
	WeightManual   = 50
	WeightFeedback = 100
)

// Rule associates a keyword pattern with a category. Patterns are matched
// case-insensitively as substrings of the expense description.
type Rule struct {
	CreatedAt time.Time  `json:"created_at"`
	Pattern   string     `json:"pattern"`
	Category  string     `json:"category"`
	Source    RuleSource `json:"source"`
	Weight    int        `json:"weight"`
	UseCount  int        `json:"use_count"`
	ID        int        `json:"id"`
}
