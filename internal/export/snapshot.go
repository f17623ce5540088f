// Package export serializes expenses, rules, and budgets to flat JSON and
// CSV records that reload without loss.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pocketpilot/ppp/internal/model"
)

// Snapshot bundles everything the application persists.
type Snapshot struct {
	Expenses []model.Expense `json:"expenses"`
	Rules    []model.Rule    `json:"rules"`
	Budgets  []model.Budget  `json:"budgets"`
}

// WriteJSON writes a snapshot as indented JSON.
func WriteJSON(w io.Writer, snapshot *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// ReadJSON reads a snapshot written by WriteJSON.
func ReadJSON(r io.Reader) (*Snapshot, error) {
	var snapshot Snapshot
	if err := json.NewDecoder(r).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snapshot, nil
}
