package ofx

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/spendsense/internal/model"
	"github.com/aclindsa/ofxgo"
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
<TRNTYPE>CHECK
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>-500.00
<FITID>2024012501
<CHECKNUM>1234
<NAME>CHECK #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240128120000[0:GMT]
<TRNAMT>2500.00
<FITID>2024012801
<NAME>PAYROLL DEPOSIT
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

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		ofxData      string
		wantExpenses int
		wantCredits  int
		wantErr      bool
	}{
		{
			name:         "bank statement skips the deposit",
			ofxData:      sampleBankOFX,
			wantExpenses: 3,
			wantCredits:  1,
		},
		{
			name:         "credit card statement",
			ofxData:      sampleCreditCardOFX,
			wantExpenses: 2,
		},
		{
			name:    "invalid OFX data",
			ofxData: "not valid OFX",
			wantErr: true,
		},
		{
			name:    "empty OFX",
			ofxData: "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewParser(nil).Parse(context.Background(), strings.NewReader(tt.ofxData))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, result.Expenses, tt.wantExpenses)
			assert.Equal(t, tt.wantCredits, result.Credits)
		})
	}
}

func TestParse_BankExpenses(t *testing.T) {
	result, err := NewParser(nil).Parse(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	require.Len(t, result.Expenses, 3)
	assert.Equal(t, []string{"1234567890"}, result.Accounts)

	coffee := result.Expenses[0]
	assert.Equal(t, "STARBUCKS STORE #1234", coffee.Description)
	assert.Equal(t, "STARBUCKS STORE", coffee.Merchant)
	assert.InDelta(t, 25.50, coffee.Amount, 0.001)
	assert.Equal(t, "2024-01-15", coffee.Date.String())
	assert.Equal(t, model.SourceOFX, coffee.Source)
	assert.Equal(t, model.CategoryFood, coffee.Category)
	assert.True(t, coffee.AISuggested)
	assert.Contains(t, coffee.Notes, "account ...7890")

	groceries := result.Expenses[1]
	assert.Equal(t, "Whole Foods Market", groceries.Merchant)
	assert.InDelta(t, 125.00, groceries.Amount, 0.001)

	check := result.Expenses[2]
	assert.InDelta(t, 500.00, check.Amount, 0.001)
	assert.Contains(t, check.Notes, "check 1234")
	for _, e := range result.Expenses {
		assert.NoError(t, e.Validate())
	}
}

func TestParse_CreditCardExpenses(t *testing.T) {
	result, err := NewParser(nil).Parse(context.Background(), strings.NewReader(sampleCreditCardOFX))
	require.NoError(t, err)
	require.Len(t, result.Expenses, 2)
	assert.Equal(t, []string{"4111111111111111"}, result.Accounts)

	amazon := result.Expenses[0]
	assert.Equal(t, "AMAZON.COM*RT4Y7HG2", amazon.Description)
	assert.Equal(t, "AMAZON.COM", amazon.Merchant)
	assert.Equal(t, model.CategoryShopping, amazon.Category)
	assert.InDelta(t, 45.99, amazon.Amount, 0.001)

	netflix := result.Expenses[1]
	assert.Equal(t, model.CategoryEntertainment, netflix.Category)
	assert.InDelta(t, 15.00, netflix.Amount, 0.001)
}

type stubCategorizer struct {
	calls int
}

func (s *stubCategorizer) Categorize(_, _ string, _ float64, _ time.Time) model.Suggestion {
	s.calls++
	return model.Suggestion{Category: model.CategoryBusiness, Confidence: 77}
}

func TestParse_UsesCategorizer(t *testing.T) {
	stub := &stubCategorizer{}
	result, err := NewParser(stub).Parse(context.Background(), strings.NewReader(sampleCreditCardOFX))
	require.NoError(t, err)

	assert.Equal(t, 2, stub.calls)
	for _, e := range result.Expenses {
		assert.Equal(t, model.CategoryBusiness, e.Category)
		assert.Equal(t, 77, e.Confidence)
	}
}

func TestParse_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewParser(nil).Parse(ctx, strings.NewReader(sampleBankOFX))
	require.ErrorIs(t, err, context.Canceled)
}

func TestMerchantName(t *testing.T) {
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
			name:     "remove posting date",
			tx:       ofxgo.Transaction{Name: "PURCHASE AUTHORIZED ON 01/14 SHELL OIL"},
			expected: "SHELL OIL",
		},
		{
			name:     "generic name falls back to memo",
			tx:       ofxgo.Transaction{Name: "DEBIT", Memo: "CHEVRON 0042"},
			expected: "CHEVRON 0042",
		},
		{
			name:     "payee wins",
			tx:       ofxgo.Transaction{Name: "ACH DEBIT 123", Payee: &ofxgo.Payee{Name: "City Water"}},
			expected: "City Water",
		},
		{
			name:     "trim whitespace",
			tx:       ofxgo.Transaction{Name: "  AMAZON.COM  "},
			expected: "AMAZON.COM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, merchantName(tt.tx))
		})
	}
}

func TestPreprocess(t *testing.T) {
	in := "\n\n<STATUS>\n<CODE\n<SEVERITY>Info</SEVERITY>"
	out := preprocess(in)
	assert.True(t, strings.HasPrefix(out, "<STATUS>"))
	assert.Contains(t, out, "<CODE>")
	assert.Contains(t, out, "<SEVERITY>INFO</SEVERITY>")
}

func TestAccounts(t *testing.T) {
	accounts, err := NewParser(nil).Accounts(strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	assert.Equal(t, []string{"1234567890"}, accounts)

	accounts, err = NewParser(nil).Accounts(strings.NewReader(sampleCreditCardOFX))
	require.NoError(t, err)
	assert.Equal(t, []string{"4111111111111111"}, accounts)
}
