// Package ofx imports OFX/QFX bank and credit card statements as expenses.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/Veraticus/spendsense/internal/categorize"
	"github.com/Veraticus/spendsense/internal/common"
	"github.com/Veraticus/spendsense/internal/model"
	"github.com/aclindsa/ofxgo"
)

var (
	severityFix = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// SGML files sometimes drop the closing bracket of a bare opening tag.
	unclosedTag = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	postedDate  = regexp.MustCompile(`^\d{2}/\d{2}\s+`)
)

var purchasePrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"MC PURCHASE ",
	"DEBIT PURCHASE ",
}

var genericNames = map[string]bool{
	"DEBIT":           true,
	"CREDIT":          true,
	"PURCHASE":        true,
	"PAYMENT":         true,
	"POS TRANSACTION": true,
	"CARD PURCHASE":   true,
}

// Categorizer guesses a category for an imported transaction.
type Categorizer interface {
	Categorize(description, merchant string, amount float64, at time.Time) model.Suggestion
}

// Result is the outcome of parsing one statement file.
type Result struct {
	Expenses []model.Expense
	Accounts []string
	Credits  int
}

// Parser converts statement debits into expenses.
type Parser struct {
	categorizer Categorizer
}

// NewParser creates a parser. A nil categorizer uses the default rules.
func NewParser(c Categorizer) *Parser {
	if c == nil {
		c = categorize.New(categorize.Options{})
	}
	return &Parser{categorizer: c}
}

// Parse reads a statement and returns its debits as categorized expenses.
// Credits such as deposits and refunds are counted but not imported.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (*Result, error) {
	resp, err := parseResponse(r)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	seenAccounts := make(map[string]bool)
	add := func(account string, list *ofxgo.TransactionList) error {
		if account != "" && !seenAccounts[account] {
			seenAccounts[account] = true
			result.Accounts = append(result.Accounts, account)
		}
		if list == nil {
			return nil
		}
		for _, tx := range list.Transactions {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("ofx import interrupted: %w", err)
			}
			e, ok := p.convert(tx, account)
			if !ok {
				result.Credits++
				continue
			}
			result.Expenses = append(result.Expenses, e)
		}
		return nil
	}

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			if err := add(string(stmt.BankAcctFrom.AcctID), stmt.BankTranList); err != nil {
				return nil, err
			}
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			if err := add(string(stmt.CCAcctFrom.AcctID), stmt.BankTranList); err != nil {
				return nil, err
			}
		}
	}

	slog.Info("Parsed OFX file",
		"expenses", len(result.Expenses),
		"credits_skipped", result.Credits,
		"accounts", len(result.Accounts))
	return result, nil
}

// Accounts lists the account ids in a statement.
func (p *Parser) Accounts(r io.Reader) ([]string, error) {
	resp, err := parseResponse(r)
	if err != nil {
		return nil, err
	}

	var accounts []string
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankAcctFrom.AcctID != "" {
			accounts = append(accounts, string(stmt.BankAcctFrom.AcctID))
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.CCAcctFrom.AcctID != "" {
			accounts = append(accounts, string(stmt.CCAcctFrom.AcctID))
		}
	}
	return accounts, nil
}

func parseResponse(r io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

// preprocess repairs formatting quirks that ofxgo rejects.
func preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityFix.ReplaceAllStringFunc(content, strings.ToUpper)
	return unclosedTag.ReplaceAllString(content, "$1>")
}

// convert turns a debit into an expense. Credits report false.
func (p *Parser) convert(tx ofxgo.Transaction, account string) (model.Expense, bool) {
	amount, _ := tx.TrnAmt.Float64()
	if amount >= 0 {
		return model.Expense{}, false
	}
	amount = -amount

	posted := tx.DtPosted.Time
	description := common.CollapseSpaces(string(tx.Name))
	if description == "" {
		description = common.CollapseSpaces(string(tx.Memo))
	}
	merchant := common.StripReference(merchantName(tx))

	e := model.Expense{
		CreatedAt:   posted,
		Date:        model.NewDate(posted),
		Description: description,
		Amount:      amount,
		Merchant:    merchant,
		Source:      model.SourceOFX,
		Notes:       importNote(tx, account),
	}
	p.categorizer.Categorize(description, merchant, amount, posted).Apply(&e)
	return e, true
}

func importNote(tx ofxgo.Transaction, account string) string {
	note := fmt.Sprintf("Imported from OFX (%s", tx.TrnType)
	if len(account) > 4 {
		note += ", account ..." + account[len(account)-4:]
	}
	if tx.CheckNum != "" {
		note += ", check " + string(tx.CheckNum)
	}
	return note + ")"
}

// merchantName prefers PAYEE, falls back to NAME (or MEMO when NAME is
// generic) and strips card-network prefixes.
func merchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && genericNames[strings.ToUpper(name)] {
		name = strings.TrimSpace(string(tx.Memo))
	}

	upper := strings.ToUpper(name)
	for _, prefix := range purchasePrefixes {
		if strings.HasPrefix(upper, prefix) {
			name = name[len(prefix):]
			break
		}
	}
	return strings.TrimSpace(postedDate.ReplaceAllString(name, ""))
}
