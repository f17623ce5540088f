package rules

import "github.com/pocketpilot/ppp/internal/model"

// defaultKeywords maps each seed category to its keyword patterns.
var defaultKeywords = map[string][]string{
	"Food":          {"starbucks", "cafe", "restaurant", "ubereats", "zomato", "dominos", "mcdonald"},
	"Transport":     {"uber", "ola", "metro", "bus", "taxi", "fuel", "petrol"},
	"Groceries":     {"bigbasket", "grocery", "supermarket", "reliance", "dmart"},
	"Bills":         {"electricity", "water", "bill", "netflix", "spotify", "subscription"},
	"Rent":          {"rent"},
	"Salary":        {"salary", "payroll", "direct deposit"},
	"Entertainment": {"movie", "concert", "theatre"},
}

// DefaultRules returns the seed rule set installed into a fresh store.
func DefaultRules() []model.Rule {
	var out []model.Rule
	for _, category := range seedCategories() {
		for _, kw := range defaultKeywords[category] {
			out = append(out, model.Rule{
				Pattern:  kw,
				Category: category,
				Source:   model.RuleSourceSeed,
				Weight:   model.WeightSeed,
			})
		}
	}
	return out
}

// seedCategories returns the seed category names in a stable order so rule
// IDs are reproducible across runs.
func seedCategories() []string {
	return []string{"Food", "Transport", "Groceries", "Bills", "Rent", "Salary", "Entertainment"}
}
