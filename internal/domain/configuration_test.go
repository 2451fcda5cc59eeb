package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsDefaults(t *testing.T) {
	cfg := &Configuration{}
	s := cfg.Settings()
	assert.Equal(t, DefaultEngineSettings(), s)
	assert.Equal(t, "GBP", cfg.CurrencyCode())
}

func TestSettingsReliefMonthFollowsStartMonth(t *testing.T) {
	start := 0
	cfg := &Configuration{FiscalYearStartMonth: &start, Currency: "USD"}
	s := cfg.Settings()
	assert.Equal(t, 0, s.FiscalYearStartMonth)
	assert.Equal(t, 0, s.TaxReliefMonth)
	assert.Equal(t, "USD", cfg.CurrencyCode())

	relief := 9
	cfg.TaxReliefMonth = &relief
	assert.Equal(t, 9, cfg.Settings().TaxReliefMonth)
}

func TestAccountIncomesJoinsMetadata(t *testing.T) {
	cfg := &Configuration{Accounts: []Account{{
		ID:   7,
		Name: "Current account",
		Incomes: []IncomeDefinition{
			{Salary: decimal.NewFromInt(6000000), TaxCode: "1257L"},
			{Salary: decimal.NewFromInt(100000), TaxCode: "BR", AccountName: "Side job"},
		},
	}}}

	acct, ok := cfg.FindAccount(7)
	require.True(t, ok)
	incomes := acct.AccountIncomes()
	require.Len(t, incomes, 2)
	assert.Equal(t, 7, incomes[0].AccountID)
	assert.Equal(t, "Current account", incomes[0].AccountName)
	assert.Equal(t, "Side job", incomes[1].AccountName)
	// the source document is untouched
	assert.Zero(t, cfg.Accounts[0].Incomes[0].AccountID)

	_, ok = cfg.FindAccount(8)
	assert.False(t, ok)
}

func TestAccountBillsIncluded(t *testing.T) {
	off, on := false, true
	assert.True(t, Account{}.BillsIncluded())
	assert.True(t, Account{IncludeBills: &on}.BillsIncluded())
	assert.False(t, Account{IncludeBills: &off}.BillsIncluded())
}

func TestRowSetForAccount(t *testing.T) {
	rows := RowSet{
		RecordedIncome:     []RecordedIncomeRow{{AccountID: 1}, {AccountID: 2}, {AccountID: 1}},
		CreditCardPayments: []CreditCardPaymentRow{{CardID: 5, AccountID: 2}},
		CreditCardAverages: []CreditCardAverageRow{{CardID: 5, AccountID: 2}, {CardID: 6, AccountID: 1}},
		Bills:              []BillsRow{{AccountID: 2}},
	}
	scoped := rows.ForAccount(1)
	assert.Len(t, scoped.RecordedIncome, 2)
	assert.Empty(t, scoped.CreditCardPayments)
	assert.Len(t, scoped.CreditCardAverages, 1)
	assert.Len(t, scoped.Bills, 1)
	assert.Len(t, rows.RecordedIncome, 3)
}

func TestIncomeDefinitionActiveEnd(t *testing.T) {
	limit := time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC)
	open := IncomeDefinition{}
	assert.Equal(t, limit, open.ActiveEnd(limit))

	ended := IncomeDefinition{EndDate: time.Date(2022, 9, 30, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, ended.EndDate, ended.ActiveEnd(limit))
}

func TestExplicitValueAmount(t *testing.T) {
	expr := "=100*3"
	blank := "  "
	target := 4

	assert.Equal(t, Formula{Expression: expr}, ExplicitValueRow{Formula: &expr}.Amount())
	assert.Equal(t, Literal{Value: decimal.NewFromInt(9)}, ExplicitValueRow{Value: decimal.NewFromInt(9), Formula: &blank}.Amount())

	row := ExplicitValueRow{AccountID: 3, TransferTargetAccountID: &target}
	assert.True(t, row.IsTransferTo(4))
	assert.False(t, row.IsTransferTo(3))
	assert.Equal(t, "Account 3", row.SourceName())
	row.AccountName = "Savings"
	assert.Equal(t, "Savings", row.SourceName())
}

func TestForecastTotal(t *testing.T) {
	f := AccountForecast{
		ComputedStartValue: decimal.NewFromInt(100),
		ComputedValues: []ComputedValue{
			{Value: decimal.NewFromInt(50)},
			{Value: decimal.NewFromInt(-30)},
		},
	}
	assert.Equal(t, "120", f.Total().String())
}
