package ofx

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/salary-ledger/internal/ledger"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sample OFX data for testing.
const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-125.00
<FITID>2024012001
<NAME>Whole Foods Market
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240122120000[0:GMT]
<TRNAMT>2400.00
<FITID>2024012201
<NAME>PAYROLL DEPOSIT
</STMTTRN>
<STMTTRN>
<TRNTYPE>CHECK
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>-500.00
<FITID>2024012501
<CHECKNUM>1234
<NAME>CHECK #1234
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const sampleCreditCardOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2024011001
<NAME>AMAZON.COM*RT4Y7HG2
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-15.00
<FITID>CC2024011501
<NAME>NETFLIX.COM
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestParseDebits(t *testing.T) {
	tests := []struct {
		name          string
		ofxData       string
		expectedCount int
		expectedError bool
	}{
		{
			name:          "bank statement skips credits",
			ofxData:       sampleBankOFX,
			expectedCount: 3,
		},
		{
			name:          "credit card statement",
			ofxData:       sampleCreditCardOFX,
			expectedCount: 2,
		},
		{
			name:          "invalid OFX data",
			ofxData:       "not valid OFX",
			expectedError: true,
		},
		{
			name:          "empty OFX",
			ofxData:       "",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			debits, err := NewParser().ParseDebits(context.Background(), strings.NewReader(tt.ofxData))

			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, debits, tt.expectedCount)
		})
	}
}

func TestParseDebits_BankValues(t *testing.T) {
	debits, err := NewParser().ParseDebits(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	require.Len(t, debits, 3)

	assert.Equal(t, "STARBUCKS STORE #1234", debits[0].Name)
	assert.True(t, debits[0].Amount.Equal(decimal.RequireFromString("25.50")))
	assert.Equal(t, "1234567890", debits[0].AccountID)
	assert.Equal(t, 2024, debits[0].Posted.Year())
	assert.Equal(t, time.January, debits[0].Posted.Month())
	assert.Equal(t, 15, debits[0].Posted.Day())

	assert.Equal(t, "Whole Foods Market", debits[1].Name)
	assert.True(t, debits[1].Amount.Equal(decimal.NewFromInt(125)))

	assert.Equal(t, "CHECK #1234", debits[2].Name)
	assert.True(t, debits[2].Amount.Equal(decimal.NewFromInt(500)))
}

func TestParseDebits_CreditCardValues(t *testing.T) {
	debits, err := NewParser().ParseDebits(context.Background(), strings.NewReader(sampleCreditCardOFX))
	require.NoError(t, err)
	require.Len(t, debits, 2)

	assert.Equal(t, "AMAZON.COM*RT4Y7HG2", debits[0].Name)
	assert.True(t, debits[0].Amount.Equal(decimal.RequireFromString("45.99")))
	assert.Equal(t, "4111111111111111", debits[0].AccountID)

	assert.Equal(t, "NETFLIX.COM", debits[1].Name)
	assert.True(t, debits[1].Amount.Equal(decimal.NewFromInt(15)))
}

func TestParseDebits_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewParser().ParseDebits(ctx, strings.NewReader(sampleBankOFX))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractMerchantName(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name     string
		tx       ofxgo.Transaction
		expected string
	}{
		{
			name:     "remove POS prefix",
			tx:       ofxgo.Transaction{Name: "POS PURCHASE STARBUCKS"},
			expected: "STARBUCKS",
		},
		{
			name:     "remove DEBIT CARD prefix",
			tx:       ofxgo.Transaction{Name: "DEBIT CARD PURCHASE WHOLE FOODS"},
			expected: "WHOLE FOODS",
		},
		{
			name:     "strip date stamp",
			tx:       ofxgo.Transaction{Name: "03/14 CORNER BAKERY"},
			expected: "CORNER BAKERY",
		},
		{
			name:     "generic name falls back to memo",
			tx:       ofxgo.Transaction{Name: "PURCHASE", Memo: "LOCAL HARDWARE"},
			expected: "LOCAL HARDWARE",
		},
		{
			name:     "payee wins",
			tx:       ofxgo.Transaction{Name: "ACH DEBIT 8812", Payee: &ofxgo.Payee{Name: "City Utilities"}},
			expected: "City Utilities",
		},
		{
			name:     "trim whitespace",
			tx:       ofxgo.Transaction{Name: "  AMAZON.COM  "},
			expected: "AMAZON.COM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parser.extractMerchantName(tt.tx))
		})
	}
}

func TestSeed(t *testing.T) {
	debits, err := NewParser().ParseDebits(context.Background(), strings.NewReader(sampleCreditCardOFX))
	require.NoError(t, err)

	l := ledger.New(nil)
	l.SetSalaryText("100")
	Seed(l, debits)

	assert.Equal(t, []ledger.ExpenseEntry{
		{Name: "AMAZON.COM*RT4Y7HG2", Amount: "45.99"},
		{Name: "NETFLIX.COM", Amount: "15"},
	}, l.Expenses())
	assert.True(t, l.Remaining().Equal(decimal.RequireFromString("39.01")))
}

func TestSeed_KeepsExactAmounts(t *testing.T) {
	tests := []struct {
		name       string
		amount     string
		wantAmount string
		wantTotal  string
	}{
		{name: "sub-cent", amount: "12.345", wantAmount: "12.345", wantTotal: "12.345"},
		{name: "half cent", amount: "0.005", wantAmount: "0.005", wantTotal: "0.005"},
		{name: "whole", amount: "40", wantAmount: "40", wantTotal: "40"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ledger.New(nil)
			Seed(l, []Debit{{Name: "Fee", Amount: decimal.RequireFromString(tt.amount)}})

			require.Equal(t, 1, l.Len())
			assert.Equal(t, tt.wantAmount, l.Expenses()[0].Amount)
			assert.True(t, l.TotalExpenses().Equal(decimal.RequireFromString(tt.wantTotal)))
		})
	}
}
