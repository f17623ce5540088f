// Package importer reads expense records from CSV exports.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pocketpilot/ppp/internal/model"
)

// Header aliases accepted for each field, tried in order.
var (
	dateColumns     = []string{"date", "transaction_date", "posted"}
	amountColumns   = []string{"amount", "value"}
	merchantColumns = []string{"merchant", "description", "payee", "name"}
	noteColumns     = []string{"note", "memo"}
)

// dateLayouts accepted for the date column.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
}

// RowError reports a row the importer rejected rather than guessed at.
type RowError struct {
	Err  error
	Line int
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Result holds the outcome of a CSV parse: the valid expenses plus one
// RowError per rejected row.
type Result struct {
	Expenses []model.Expense
	Rejected []RowError
}

// ErrMissingColumns indicates the CSV header lacks a date or amount column.
var ErrMissingColumns = errors.New("csv is missing a date or amount column")

// Parse reads CSV data and converts each row into an expense. Rows with a
// missing or unparseable date or amount are collected as RowErrors; the
// rest of the file still imports.
func Parse(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if firstIndex(index, dateColumns) < 0 || firstIndex(index, amountColumns) < 0 {
		return nil, ErrMissingColumns
	}

	result := &Result{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Rejected = append(result.Rejected, RowError{Line: line, Err: err})
			continue
		}

		expense, err := parseRow(record, index)
		if err != nil {
			result.Rejected = append(result.Rejected, RowError{Line: line, Err: err})
			continue
		}
		result.Expenses = append(result.Expenses, expense)
	}

	return result, nil
}

func parseRow(record []string, index map[string]int) (model.Expense, error) {
	dateText := cell(record, index, dateColumns)
	if dateText == "" {
		return model.Expense{}, fmt.Errorf("missing date")
	}
	date, err := parseDate(dateText)
	if err != nil {
		return model.Expense{}, err
	}

	amountText := cell(record, index, amountColumns)
	if amountText == "" {
		return model.Expense{}, fmt.Errorf("missing amount")
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(amountText, ",", ""))
	if err != nil {
		return model.Expense{}, fmt.Errorf("invalid amount %q: %w", amountText, err)
	}

	merchant := cell(record, index, merchantColumns)
	if merchant == "" {
		return model.Expense{}, fmt.Errorf("missing merchant")
	}

	return model.NewExpense(date, amount, merchant, cell(record, index, noteColumns)), nil
}

func parseDate(text string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", text)
}

// cell returns the first non-empty value among the aliased columns.
func cell(record []string, index map[string]int, names []string) string {
	for _, name := range names {
		i, ok := index[name]
		if !ok || i >= len(record) {
			continue
		}
		if v := strings.TrimSpace(record[i]); v != "" {
			return v
		}
	}
	return ""
}

func firstIndex(index map[string]int, names []string) int {
	for _, name := range names {
		if i, ok := index[name]; ok {
			return i
		}
	}
	return -1
}
