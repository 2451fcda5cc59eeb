package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Amount is the value source of an explicit value row: Literal or Formula.
type Amount interface {
	isAmount()
}

// Literal is a fixed amount in minor units.
type Literal struct {
	Value decimal.Decimal
}

// Formula is an expression resolved by an external evaluator.
type Formula struct {
	Expression string
}

func (Literal) isAmount() {}
func (Formula) isAmount() {}

// ExplicitValueRow is a one-off manual adjustment to an account. When
// TransferTargetAccountID is set the row moves money to that account.
type ExplicitValueRow struct {
	ID                      int             `yaml:"id" json:"id" toml:"id"`
	AccountID               int             `yaml:"account_id" json:"account_id" toml:"account_id"`
	AccountName             string          `yaml:"account_name,omitempty" json:"account_name,omitempty" toml:"account_name,omitempty"`
	Year                    int             `yaml:"year" json:"year" toml:"year"`
	Month                   int             `yaml:"month" json:"month" toml:"month"`
	Name                    string          `yaml:"name" json:"name" toml:"name"`
	Value                   decimal.Decimal `yaml:"value" json:"value" toml:"value"`
	Formula                 *string         `yaml:"formula,omitempty" json:"formula,omitempty" toml:"formula,omitempty"`
	TransferTargetAccountID *int            `yaml:"transfer_target_account_id,omitempty" json:"transfer_target_account_id,omitempty" toml:"transfer_target_account_id,omitempty"`
}

// Amount returns the row's value source.
func (r ExplicitValueRow) Amount() Amount {
	if r.Formula != nil && strings.TrimSpace(*r.Formula) != "" {
		return Formula{Expression: *r.Formula}
	}
	return Literal{Value: r.Value}
}

// IsTransferTo reports whether the row transfers money into accountID.
func (r ExplicitValueRow) IsTransferTo(accountID int) bool {
	return r.TransferTargetAccountID != nil && *r.TransferTargetAccountID == accountID
}

// SourceName names the account the row belongs to.
func (r ExplicitValueRow) SourceName() string {
	if r.AccountName != "" {
		return r.AccountName
	}
	return fmt.Sprintf("Account %d", r.AccountID)
}

// BillsRow is the aggregated bills total of an account for one month.
type BillsRow struct {
	AccountID int             `yaml:"account_id" json:"account_id" toml:"account_id"`
	Date      time.Time       `yaml:"date" json:"date" toml:"date"`
	Sum       decimal.Decimal `yaml:"sum" json:"sum" toml:"sum"`
}

// CreditCardPaymentRow is a recorded payment of a card for one month.
type CreditCardPaymentRow struct {
	CardID    int             `yaml:"card_id" json:"card_id" toml:"card_id"`
	AccountID int             `yaml:"account_id" json:"account_id" toml:"account_id"`
	Year      int             `yaml:"year" json:"year" toml:"year"`
	Month     int             `yaml:"month" json:"month" toml:"month"`
	Value     decimal.Decimal `yaml:"value" json:"value" toml:"value"`
}

// CreditCardAverageRow is the flat predicted monthly payment of a card.
type CreditCardAverageRow struct {
	CardID    int             `yaml:"card_id" json:"card_id" toml:"card_id"`
	AccountID int             `yaml:"account_id" json:"account_id" toml:"account_id"`
	Value     decimal.Decimal `yaml:"value" json:"value" toml:"value"`
}

// LatestActualValue is a verified balance snapshot of an account.
type LatestActualValue struct {
	AccountID int             `yaml:"account_id" json:"account_id" toml:"account_id"`
	Date      time.Time       `yaml:"date" json:"date" toml:"date"`
	Value     decimal.Decimal `yaml:"value" json:"value" toml:"value"`
}

// RowSet is the full in-memory input of one computation. Recorded income and
// credit card tables are expected to be scoped to the account already; the
// remaining tables are filtered by the engine.
type RowSet struct {
	Parameters         []ParameterRow
	RecordedIncome     []RecordedIncomeRow
	ExplicitValues     []ExplicitValueRow
	Bills              []BillsRow
	LatestActualValues []LatestActualValue
	CreditCardPayments []CreditCardPaymentRow
	CreditCardAverages []CreditCardAverageRow
}

// ForAccount returns a copy of the row set with the account-scoped tables
// narrowed to accountID. Shared tables are not copied.
func (rs RowSet) ForAccount(accountID int) RowSet {
	scoped := rs
	scoped.RecordedIncome = nil
	for _, r := range rs.RecordedIncome {
		if r.AccountID == accountID {
			scoped.RecordedIncome = append(scoped.RecordedIncome, r)
		}
	}
	scoped.CreditCardPayments = nil
	for _, r := range rs.CreditCardPayments {
		if r.AccountID == accountID {
			scoped.CreditCardPayments = append(scoped.CreditCardPayments, r)
		}
	}
	scoped.CreditCardAverages = nil
	for _, r := range rs.CreditCardAverages {
		if r.AccountID == accountID {
			scoped.CreditCardAverages = append(scoped.CreditCardAverages, r)
		}
	}
	return scoped
}
