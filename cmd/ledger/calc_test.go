package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/salary-ledger/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statementOFX = `OFXHEADER:100
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
<CURDEF>EUR
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
<NAME>Boulangerie Paul
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240122120000[0:GMT]
<TRNAMT>2400.00
<FITID>2024012201
<NAME>PAYROLL DEPOSIT
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>-74.50
<FITID>2024012501
<NAME>Electricite de France
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>5000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

// executeCommand runs the CLI with args and returns stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	// Keep a user's real config out of the test.
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestCalc_TextOutput(t *testing.T) {
	out, _, err := executeCommand(t, "calc",
		"--salary", "200",
		"--expense", "Loyer=100",
		"--expense", "Courses=20",
		"--expense", "=",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "Salary Ledger")
	assert.Contains(t, out, "Loyer")
	assert.Contains(t, out, "100,00\u00a0€")
	assert.Contains(t, out, "120,00\u00a0€")
	assert.Contains(t, out, "80,00\u00a0€")
	assert.Contains(t, out, unnamedExpense)
	assert.Contains(t, out, withinBudget)
}

func TestCalc_BudgetStatus(t *testing.T) {
	tests := []struct {
		name    string
		salary  string
		want    string
		notWant string
	}{
		{name: "within budget", salary: "100", want: withinBudget, notWant: overBudget},
		{name: "exactly spent", salary: "20", want: withinBudget, notWant: overBudget},
		{name: "over budget", salary: "10", want: overBudget, notWant: withinBudget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := executeCommand(t, "calc", "--salary", tt.salary, "--expense", "Food=20")
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
			assert.NotContains(t, out, tt.notWant)
		})
	}
}

func TestCalc_JSONOutput(t *testing.T) {
	out, _, err := executeCommand(t, "calc",
		"--salary", "50",
		"-e", "Rent=200",
		"--format", "json",
	)
	require.NoError(t, err)

	var result struct {
		Locale    string `json:"locale"`
		Currency  string `json:"currency"`
		Balance   string `json:"balance"`
		Salary    string `json:"salary"`
		Total     string `json:"total"`
		Remaining string `json:"remaining"`
		Expenses  []struct {
			Name   string `json:"name"`
			Amount string `json:"amount"`
		} `json:"expenses"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	assert.Equal(t, "fr-FR", result.Locale)
	assert.Equal(t, "EUR", result.Currency)
	assert.Equal(t, "-150,00\u00a0€", result.Balance)
	assert.Equal(t, "50", result.Salary)
	assert.Equal(t, "200", result.Total)
	assert.Equal(t, "-150", result.Remaining)
	require.Len(t, result.Expenses, 1)
	assert.Equal(t, "Rent", result.Expenses[0].Name)
	assert.Equal(t, "200", result.Expenses[0].Amount)
}

func TestCalc_NoExpenses(t *testing.T) {
	out, _, err := executeCommand(t, "calc", "--format", "json")
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "0,00\u00a0€", result["balance"])
	assert.Len(t, result["expenses"], 1, "a ledger always keeps one entry")
}

func TestCalc_LocaleFlags(t *testing.T) {
	tests := []struct {
		name string
		want string
		args []string
	}{
		{
			name: "en-US",
			args: []string{"--locale", "en-US"},
			want: "$80.00",
		},
		{
			name: "de-DE",
			args: []string{"--locale", "de-DE"},
			want: "80,00\u00a0€",
		},
		{
			name: "currency override",
			args: []string{"--locale", "en-GB", "--currency", "USD"},
			want: "$80.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"calc", "--salary", "100", "--expense", "Food=20"}, tt.args...)
			out, _, err := executeCommand(t, args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestCalc_InvalidInput(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		args    []string
	}{
		{
			name:    "salary not a number",
			args:    []string{"--salary", "12abc"},
			wantErr: common.ErrInvalidAmount,
		},
		{
			name:    "salary with exponent",
			args:    []string{"--salary", "1e3"},
			wantErr: common.ErrInvalidAmount,
		},
		{
			name:    "expense without separator",
			args:    []string{"--expense", "Rent"},
			wantErr: common.ErrInvalidExpense,
		},
		{
			name:    "expense amount not a number",
			args:    []string{"--expense", "Rent=lots"},
			wantErr: common.ErrInvalidAmount,
		},
		{
			name:    "unknown format",
			args:    []string{"--format", "yaml"},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "unknown currency",
			args:    []string{"--currency", "XYZ1"},
			wantErr: common.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCommand(t, append([]string{"calc"}, tt.args...)...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NotEmpty(t, common.UserMessage(err))
		})
	}
}

func TestCalc_SeedsFromOFX(t *testing.T) {
	path := writeFile(t, "january.ofx", statementOFX)

	out, _, err := executeCommand(t, "calc",
		"--salary", "1000",
		"--ofx", path,
		"--expense", "Loyer=700",
		"--format", "json",
	)
	require.NoError(t, err)

	var result struct {
		Remaining string `json:"remaining"`
		Expenses  []struct {
			Name   string `json:"name"`
			Amount string `json:"amount"`
		} `json:"expenses"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	require.Len(t, result.Expenses, 3, "credits are skipped and the blank entry is reused")
	assert.Equal(t, "25.5", result.Expenses[0].Amount)
	assert.Equal(t, "74.5", result.Expenses[1].Amount)
	assert.Equal(t, "Loyer", result.Expenses[2].Name)
	assert.Equal(t, "200", result.Remaining)
}

func TestCalc_MissingOFXFile(t *testing.T) {
	_, stderr, err := executeCommand(t, "calc", "--ofx", filepath.Join(t.TempDir(), "missing.ofx"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, common.UserMessage(err), "Cannot open statement")
	assert.Contains(t, stderr, "level=ERROR")
	assert.Contains(t, stderr, `msg="Failed to open statement"`)
}

func TestCalc_MalformedOFXFile(t *testing.T) {
	path := writeFile(t, "broken.ofx", "this is not a statement")

	_, stderr, err := executeCommand(t, "calc", "--ofx", path)
	require.Error(t, err)
	assert.Contains(t, common.UserMessage(err), "Cannot read statement")
	assert.Contains(t, stderr, `msg="Failed to parse statement"`)
}

func TestCalc_ConfigFileAndEnv(t *testing.T) {
	cfg := writeFile(t, "config.yaml", "currency:\n  locale: en-US\nlogging:\n  level: debug\n  format: json\n")

	out, stderr, err := executeCommand(t, "--config", cfg, "calc", "--salary", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "$10.00")
	assert.Contains(t, stderr, `"msg":"Calculated balance"`)
	assert.Contains(t, stderr, `"msg":"Configuration loaded"`)
	assert.Contains(t, stderr, `"theme":"default"`)

	t.Setenv("LEDGER_CURRENCY_LOCALE", "ja-JP")
	out, _, err = executeCommand(t, "--config", cfg, "calc", "--salary", "1234")
	require.NoError(t, err)
	assert.Contains(t, out, "¥1,234")
}

func TestCalc_InvalidConfig(t *testing.T) {
	cfg := writeFile(t, "config.yaml", "logging:\n  level: loud\n")

	_, _, err := executeCommand(t, "--config", cfg, "calc")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
	assert.Equal(t, "Invalid configuration", common.UserMessage(err))
}

func TestCalc_LogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "ledger.log")
	t.Setenv("LEDGER_LOGGING_FILE", logPath)

	_, stderr, err := executeCommand(t, "calc", "--salary", "10")
	require.NoError(t, err)
	assert.Empty(t, stderr)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Calculated balance")
}

func TestParseExpenseFlag(t *testing.T) {
	tests := []struct {
		wantErr    error
		name       string
		raw        string
		wantName   string
		wantAmount string
	}{
		{name: "simple", raw: "Rent=700", wantName: "Rent", wantAmount: "700"},
		{name: "trims spaces", raw: " Rent = 700.50 ", wantName: "Rent", wantAmount: "700.50"},
		{name: "name with equals", raw: "a=b=12", wantName: "a=b", wantAmount: "12"},
		{name: "empty amount", raw: "Rent=", wantName: "Rent", wantAmount: ""},
		{name: "empty name", raw: "=5", wantName: "", wantAmount: "5"},
		{name: "no separator", raw: "Rent", wantErr: common.ErrInvalidExpense},
		{name: "bad amount", raw: "Rent=NaN", wantErr: common.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := parseExpenseFlag(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, entry.Name)
			assert.Equal(t, tt.wantAmount, entry.Amount)
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "ledger dev\n", out)
}
