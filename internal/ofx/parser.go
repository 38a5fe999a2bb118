// Package ofx turns OFX/QFX bank and credit card statements into transactions.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// idNamespace scopes the deterministic ids derived from FITIDs.
var idNamespace = uuid.MustParse("6f1c2a4e-93d5-4b8a-9c61-0d7e52f3a8b4")

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Close SGML tags that end a line without their bracket
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX/QFX file into transactions owned by ownerID.
// Ids are derived from the account and FITID, so parsing the same statement
// twice yields the same ids.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader, ownerID string) ([]model.Transaction, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, fmt.Errorf("owner is required")
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var transactions []model.Transaction
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		bankStmts++
		transactions = append(transactions,
			p.convertList(stmt.BankTranList.Transactions, ownerID, string(stmt.BankAcctFrom.AcctID))...)
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		ccStmts++
		transactions = append(transactions,
			p.convertList(stmt.BankTranList.Transactions, ownerID, string(stmt.CCAcctFrom.AcctID))...)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Info("Parsed OFX file",
		"total_transactions", len(transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

func (p *Parser) convertList(list []ofxgo.Transaction, ownerID, accountID string) []model.Transaction {
	transactions := make([]model.Transaction, 0, len(list))
	for _, ofxTx := range list {
		transactions = append(transactions, p.convertTransaction(ofxTx, ownerID, accountID))
	}
	return transactions
}

// convertTransaction converts an OFX transaction to our model.
// OFX signs debits negative; the stored amount is unsigned and the sign
// becomes the transaction type.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, ownerID, accountID string) model.Transaction {
	amount := decimal.RequireFromString(ofxTx.TrnAmt.FloatString(2))

	txType := model.TypeIncome
	if amount.IsNegative() {
		txType = model.TypeExpense
		amount = amount.Neg()
	}

	tx := model.Transaction{
		ID:      transactionID(ownerID, accountID, string(ofxTx.FiTID)),
		OwnerID: ownerID,
		Date:    ofxTx.DtPosted.Time,
		Amount:  amount,
		Type:    txType,
	}

	if name := p.extractMerchantName(ofxTx); name != "" {
		tx.Description = &name
	}

	return tx
}

func transactionID(ownerID, accountID, fitID string) string {
	return uuid.NewSHA1(idNamespace, []byte(ownerID+"/"+accountID+"/"+fitID)).String()
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	// Prefer PAYEE if available (cleaner merchant name)
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := string(tx.Name)

	// MEMO sometimes has better merchant info
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

	// Clean up date patterns like "MM/DD" at the beginning
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

// isGenericDescription checks if a transaction name is too generic.
func isGenericDescription(name string) bool {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}
