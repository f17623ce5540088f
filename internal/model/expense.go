// Package model defines the core domain types for the ppp application.
package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Uncategorized is the sentinel category assigned when no rule matches.
// It is a normal outcome of categorization, never an error.
const Uncategorized = "Uncategorized"

// Expense represents a single spending record from any source.
type Expense struct {
	Date     time.Time       `json:"date"`
	ID       string          `json:"id"`
	Merchant string          `json:"merchant"`
	Note     string          `json:"note,omitempty"`
	Category string          `json:"category"` // empty until categorized
	Hash     string          `json:"hash"`
	Amount   decimal.Decimal `json:"amount"`
}

// NewExpense creates an expense with a fresh ID and dedupe hash.
func NewExpense(date time.Time, amount decimal.Decimal, merchant, note string) Expense {
	e := Expense{
		ID:       uuid.NewString(),
		Date:     date,
		Amount:   amount,
		Merchant: merchant,
		Note:     note,
	}
	e.Hash = e.GenerateHash()
	return e
}

// Description returns the text the rule store matches against.
func (e *Expense) Description() string {
	return strings.TrimSpace(strings.TrimSpace(e.Merchant) + " " + strings.TrimSpace(e.Note))
}

// GenerateHash creates a stable hash for duplicate detection.
func (e *Expense) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s",
		e.Date.Format("2006-01-02"),
		e.Amount.StringFixed(2),
		strings.ToLower(strings.TrimSpace(e.Merchant)))
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// Month returns the calendar month the expense falls in.
func (e *Expense) Month() Month {
	return MonthOf(e.Date)
}
