// Package rules implements the ordered keyword rule store used for
// expense categorization.
package rules

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pocketpilot/ppp/internal/common"
	"github.com/pocketpilot/ppp/internal/model"
)

// Store holds the keyword-to-category rules consulted by the categorizer.
//
// Lookup is case-insensitive substring matching. When several rules match
// the same description, the winner is chosen deterministically: highest
// weight first, then longest pattern, then most recently added. Mutations
// swap in a fresh rule slice under the lock, so a concurrent Lookup always
// observes either the old rule set or the new one, never a partial update.
type Store struct {
	mu     sync.RWMutex
	rules  []model.Rule
	nextID int
}

// NewStore creates a store preloaded with the given rules. Rules with the
// same pattern collapse to the last one given.
func NewStore(seed []model.Rule) *Store {
	s := &Store{nextID: 1}
	for _, r := range seed {
		pattern := normalize(r.Pattern)
		if pattern == "" {
			continue
		}
		r.Pattern = pattern
		r.ID = s.nextID
		s.nextID++
		if r.CreatedAt.IsZero() {
			r.CreatedAt = time.Now()
		}
		s.rules = replacePattern(s.rules, r)
	}
	return s
}

// AddRule inserts a rule mapping pattern to category. An existing rule with
// the same pattern is replaced. The stored rule is returned.
func (s *Store) AddRule(pattern, category string, source model.RuleSource) (model.Rule, error) {
	pattern = normalize(pattern)
	if pattern == "" {
		return model.Rule{}, fmt.Errorf("rule pattern cannot be empty")
	}
	if strings.TrimSpace(category) == "" {
		return model.Rule{}, fmt.Errorf("rule category cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rule := model.Rule{
		ID:        s.nextID,
		Pattern:   pattern,
		Category:  category,
		Source:    source,
		Weight:    weightFor(source),
		CreatedAt: time.Now(),
	}
	s.nextID++
	s.rules = replacePattern(s.rules, rule)

	return rule, nil
}

// RemoveRule deletes the rule with the given pattern.
func (s *Store) RemoveRule(pattern string) error {
	pattern = normalize(pattern)
	if pattern == "" {
		return fmt.Errorf("rule pattern cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.Rule, 0, len(s.rules))
	found := false
	for _, r := range s.rules {
		if r.Pattern == pattern {
			found = true
			continue
		}
		next = append(next, r)
	}
	if !found {
		return fmt.Errorf("rule %q: %w", pattern, common.ErrNotFound)
	}
	s.rules = next

	return nil
}

// Lookup finds the best matching rule for a description. The boolean is
// false when no rule matches; that is a normal outcome, not an error.
func (s *Store) Lookup(description string) (model.Rule, bool) {
	text := strings.ToLower(description)
	if text == "" {
		return model.Rule{}, false
	}

	s.mu.RLock()
	rules := s.rules
	s.mu.RUnlock()

	var best model.Rule
	found := false
	for _, r := range rules {
		if !strings.Contains(text, r.Pattern) {
			continue
		}
		if !found || betterMatch(r, best) {
			best = r
			found = true
		}
	}

	return best, found
}

// Rules returns a copy of all rules, ordered by ID.
func (s *Store) Rules() []model.Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Rule, len(s.rules))
	copy(out, s.rules)
	sortByID(out)
	return out
}

// Len returns the number of rules in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rules)
}

// betterMatch reports whether a should win over b: higher weight first,
// then longer pattern, then newer rule.
func betterMatch(a, b model.Rule) bool {
	if a.Weight != b.Weight {
		return a.Weight > b.Weight
	}
	if len(a.Pattern) != len(b.Pattern) {
		return len(a.Pattern) > len(b.Pattern)
	}
	return a.ID > b.ID
}

// replacePattern appends rule to a fresh slice, dropping any rule that
// shares its pattern. The input slice is never mutated.
func replacePattern(rules []model.Rule, rule model.Rule) []model.Rule {
	next := make([]model.Rule, 0, len(rules)+1)
	for _, r := range rules {
		if r.Pattern == rule.Pattern {
			continue
		}
		next = append(next, r)
	}
	return append(next, rule)
}

func weightFor(source model.RuleSource) int {
	switch source {
	case model.RuleSourceFeedback:
		return model.WeightFeedback
	case model.RuleSourceManual:
		return model.WeightManual
	default:
		return model.WeightSeed
	}
}

func normalize(pattern string) string {
	return strings.ToLower(strings.TrimSpace(pattern))
}

func sortByID(rules []model.Rule) {
	for i := 0; i < len(rules)-1; i++ {
		for j := 0; j < len(rules)-i-1; j++ {
			if rules[j].ID > rules[j+1].ID {
				rules[j], rules[j+1] = rules[j+1], rules[j]
			}
		}
	}
}
