// Package ofx reads bank and credit card statements in OFX/QFX format and
// turns their debits into expense entries.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/Veraticus/salary-ledger/internal/ledger"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// Opening tags at end of line that lost their closing bracket.
	tagFixRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Debit is money that left an account, with a positive Amount.
type Debit struct {
	Posted    time.Time
	Name      string
	AccountID string
	Amount    decimal.Decimal
}

// Parser implements OFX/QFX statement parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// ParseDebits parses a statement and returns its debits in file order.
// Credits and zero-amount entries are skipped.
func (p *Parser) ParseDebits(ctx context.Context, reader io.Reader) ([]Debit, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var debits []Debit
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			debits = append(debits, p.collectDebits(stmt.BankTranList, string(stmt.BankAcctFrom.AcctID))...)
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			debits = append(debits, p.collectDebits(stmt.BankTranList, string(stmt.CCAcctFrom.AcctID))...)
		}
	}

	slog.Info("Parsed OFX file",
		"debits", len(debits),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return debits, nil
}

func (p *Parser) collectDebits(list *ofxgo.TransactionList, accountID string) []Debit {
	if list == nil {
		return nil
	}

	var debits []Debit
	for _, tx := range list.Transactions {
		// TrnAmt is a big.Rat; OFX signs debits negative.
		amount, err := decimal.NewFromString(tx.TrnAmt.FloatString(4))
		if err != nil {
			slog.Warn("Skipping OFX transaction with unreadable amount",
				"fitid", string(tx.FiTID),
				"error", err)
			continue
		}
		if !amount.IsNegative() {
			continue
		}

		debits = append(debits, Debit{
			Posted:    tx.DtPosted.Time,
			Name:      p.extractMerchantName(tx),
			AccountID: accountID,
			Amount:    amount.Neg(),
		})
	}
	return debits
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	// PAYEE is usually cleaner than NAME.
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// "MM/DD " date stamps.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}

// Seed appends each debit to l as an expense entry. Amounts keep their
// exact value; rounding happens only when the ledger formats them.
func Seed(l *ledger.Ledger, debits []Debit) {
	for _, d := range debits {
		l.AppendExpense(d.Name, d.Amount.String())
	}
}
