// Package ofx converts OFX/QFX bank statements into expense records.
package ofx

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/pocketpilot/ppp/internal/model"
)

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

var (
	// SGML-style files carry no closing tag, so it is optional here.
	severityPattern = regexp.MustCompile(`(?im)<SEVERITY>(Info|Warn|Error)(</SEVERITY>)?[ \t]*$`)
	openTagPattern  = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocess fixes common formatting issues in OFX files: mixed-case
// SEVERITY values and SGML-style tags missing their closing bracket.
func (p *Parser) preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityPattern.ReplaceAllStringFunc(content, strings.ToUpper)
	content = openTagPattern.ReplaceAllString(content, "$1>")
	return content
}

// ParseFile parses an OFX/QFX file into expenses. Credits (deposits,
// refunds) are skipped; only money leaving the account becomes an expense.
func (p *Parser) ParseFile(reader io.Reader) ([]model.Expense, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var expenses []model.Expense

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			for _, tx := range stmt.BankTranList.Transactions {
				if e, ok := p.convert(tx); ok {
					expenses = append(expenses, e)
				}
			}
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			for _, tx := range stmt.BankTranList.Transactions {
				if e, ok := p.convert(tx); ok {
					expenses = append(expenses, e)
				}
			}
		}
	}

	return expenses, nil
}

// convert maps an OFX transaction to an expense. OFX uses negative amounts
// for debits; the expense carries the positive spend.
func (p *Parser) convert(tx ofxgo.Transaction) (model.Expense, bool) {
	amount, err := decimal.NewFromString(tx.TrnAmt.String())
	if err != nil {
		return model.Expense{}, false
	}
	if !amount.IsNegative() {
		return model.Expense{}, false
	}

	expense := model.NewExpense(
		tx.DtPosted.Time,
		amount.Neg(),
		merchantName(tx),
		string(tx.Memo),
	)
	return expense, true
}

// merchantName extracts the cleanest merchant text available.
func merchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := strings.TrimSpace(string(tx.Name))
	if name == "" || isGeneric(name) {
		if memo := strings.TrimSpace(string(tx.Memo)); memo != "" {
			name = memo
		}
	}

	for _, prefix := range []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
	} {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = strings.TrimSpace(name[len(prefix):])
			break
		}
	}

	return name
}

// isGeneric reports whether a transaction name carries no merchant signal.
func isGeneric(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}
