package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pocketpilot/ppp/internal/model"
)

// Dates are written in RFC 3339 and amounts as exact decimal strings so a
// write-then-read cycle reproduces every field bit-for-bit.

// WriteExpensesCSV writes expenses as flat CSV records.
func WriteExpensesCSV(w io.Writer, expenses []model.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "date", "amount", "merchant", "note", "category", "hash"}); err != nil {
		return fmt.Errorf("failed to write expense header: %w", err)
	}
	for _, e := range expenses {
		record := []string{
			e.ID,
			e.Date.Format(time.RFC3339),
			e.Amount.String(),
			e.Merchant,
			e.Note,
			e.Category,
			e.Hash,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write expense %s: %w", e.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadExpensesCSV reads expenses written by WriteExpensesCSV.
func ReadExpensesCSV(r io.Reader) ([]model.Expense, error) {
	records, err := readRecords(r, 7, "expenses")
	if err != nil {
		return nil, err
	}

	var out []model.Expense
	for i, rec := range records {
		date, err := time.Parse(time.RFC3339, rec[1])
		if err != nil {
			return nil, fmt.Errorf("expense record %d: invalid date: %w", i+1, err)
		}
		amount, err := decimal.NewFromString(rec[2])
		if err != nil {
			return nil, fmt.Errorf("expense record %d: invalid amount: %w", i+1, err)
		}
		out = append(out, model.Expense{
			ID:       rec[0],
			Date:     date,
			Amount:   amount,
			Merchant: rec[3],
			Note:     rec[4],
			Category: rec[5],
			Hash:     rec[6],
		})
	}
	return out, nil
}

// WriteRulesCSV writes rules as flat CSV records.
func WriteRulesCSV(w io.Writer, rules []model.Rule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"pattern", "category", "source", "weight", "created_at"}); err != nil {
		return fmt.Errorf("failed to write rule header: %w", err)
	}
	for _, r := range rules {
		record := []string{
			r.Pattern,
			r.Category,
			string(r.Source),
			fmt.Sprintf("%d", r.Weight),
			r.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write rule %q: %w", r.Pattern, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadRulesCSV reads rules written by WriteRulesCSV.
func ReadRulesCSV(r io.Reader) ([]model.Rule, error) {
	records, err := readRecords(r, 5, "rules")
	if err != nil {
		return nil, err
	}

	var out []model.Rule
	for i, rec := range records {
		var weight int
		if _, err := fmt.Sscanf(rec[3], "%d", &weight); err != nil {
			return nil, fmt.Errorf("rule record %d: invalid weight: %w", i+1, err)
		}
		createdAt, err := time.Parse(time.RFC3339, rec[4])
		if err != nil {
			return nil, fmt.Errorf("rule record %d: invalid created_at: %w", i+1, err)
		}
		out = append(out, model.Rule{
			Pattern:   rec[0],
			Category:  rec[1],
			Source:    model.RuleSource(rec[2]),
			Weight:    weight,
			CreatedAt: createdAt,
		})
	}
	return out, nil
}

// WriteBudgetsCSV writes budgets as flat CSV records.
func WriteBudgetsCSV(w io.Writer, budgets []model.Budget) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"category", "limit", "updated_at"}); err != nil {
		return fmt.Errorf("failed to write budget header: %w", err)
	}
	for _, b := range budgets {
		record := []string{
			b.Category,
			b.Limit.String(),
			b.UpdatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write budget %q: %w", b.Category, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadBudgetsCSV reads budgets written by WriteBudgetsCSV.
func ReadBudgetsCSV(r io.Reader) ([]model.Budget, error) {
	records, err := readRecords(r, 3, "budgets")
	if err != nil {
		return nil, err
	}

	var out []model.Budget
	for i, rec := range records {
		limit, err := decimal.NewFromString(rec[1])
		if err != nil {
			return nil, fmt.Errorf("budget record %d: invalid limit: %w", i+1, err)
		}
		updatedAt, err := time.Parse(time.RFC3339, rec[2])
		if err != nil {
			return nil, fmt.Errorf("budget record %d: invalid updated_at: %w", i+1, err)
		}
		out = append(out, model.Budget{
			Category:  rec[0],
			Limit:     limit,
			UpdatedAt: updatedAt,
		})
	}
	return out, nil
}

// readRecords consumes the header and returns the remaining rows, checking
// field counts.
func readRecords(r io.Reader, fields int, kind string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields

	all, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s csv: %w", kind, err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("%s csv is empty", kind)
	}
	return all[1:], nil
}
