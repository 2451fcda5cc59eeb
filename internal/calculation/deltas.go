package calculation

import (
	"fmt"
	"sort"
	"time"

	"github.com/rpgo/cashflow-forecast/internal/domain"
	"github.com/rpgo/cashflow-forecast/pkg/dateutil"
	money "github.com/rpgo/cashflow-forecast/pkg/decimal"
	"github.com/shopspring/decimal"
)

// Delta is a single dated change to an account balance.
type Delta struct {
	dateutil.MonthKey
	Date       time.Time
	Key        string
	Name       string
	Value      decimal.Decimal
	IsVerified bool
	IsTransfer bool
}

// FormulaEvaluator resolves the expression of a formula-valued row.
type FormulaEvaluator interface {
	Evaluate(expression string) (decimal.Decimal, error)
}

// ResolvedValue is an explicit value row with its amount resolved.
type ResolvedValue struct {
	Row   domain.ExplicitValueRow
	Date  time.Time
	Value decimal.Decimal
}

// ResolveExplicitValues resolves the amount of every explicit value row. A
// formula that cannot be evaluated contributes nothing and is logged; a row
// whose month is out of range is an input error.
func ResolveExplicitValues(cal dateutil.Calendar, rows []domain.ExplicitValueRow, evaluator FormulaEvaluator, logger Logger) ([]ResolvedValue, error) {
	if logger == nil {
		logger = NopLogger{}
	}
	out := make([]ResolvedValue, 0, len(rows))
	for _, r := range rows {
		date, err := cal.DateOf(r.Year, r.Month)
		if err != nil {
			return nil, &domain.InputError{
				Row:   fmt.Sprintf("explicit value %d", r.ID),
				Field: "month",
				Value: fmt.Sprint(r.Month),
				Err:   domain.ErrInvalidMonth,
			}
		}

		var value decimal.Decimal
		switch a := r.Amount().(type) {
		case domain.Literal:
			value = a.Value
		case domain.Formula:
			if evaluator == nil {
				logger.Debugf("explicit value %d: no formula evaluator, %q ignored", r.ID, a.Expression)
				continue
			}
			v, err := evaluator.Evaluate(a.Expression)
			if err != nil {
				logger.Debugf("explicit value %d: formula %q unresolved: %v", r.ID, a.Expression, err)
				continue
			}
			value = v
		}
		out = append(out, ResolvedValue{Row: r, Date: date, Value: value})
	}
	return out, nil
}

// ReduceTransfers turns explicit values targeting accountID into incoming
// deltas named after the source account. The row value is the source
// account's delta, so it is negated for the target.
func ReduceTransfers(cal dateutil.Calendar, values []ResolvedValue, accountID int, now time.Time) []Delta {
	var out []Delta
	for _, v := range values {
		if !v.Row.IsTransferTo(accountID) {
			continue
		}
		key := dateutil.MonthKey{Year: v.Row.Year, Month: v.Row.Month}
		out = append(out, Delta{
			MonthKey:   key,
			Date:       v.Date,
			Key:        valueKey(accountID, "transfer", v.Row.ID, key),
			Name:       v.Row.SourceName(),
			Value:      v.Value.Neg(),
			IsVerified: !v.Date.After(now),
			IsTransfer: true,
		})
	}
	return out
}

// ReduceOwnValues returns the explicit values recorded on accountID itself.
// Rows that transfer to another account still reduce the source balance.
func ReduceOwnValues(values []ResolvedValue, accountID int) []Delta {
	var out []Delta
	for _, v := range values {
		if v.Row.AccountID != accountID {
			continue
		}
		key := dateutil.MonthKey{Year: v.Row.Year, Month: v.Row.Month}
		out = append(out, Delta{
			MonthKey:   key,
			Date:       v.Date,
			Key:        valueKey(accountID, "explicit", v.Row.ID, key),
			Name:       v.Row.Name,
			Value:      v.Value,
			IsVerified: true,
			IsTransfer: v.Row.TransferTargetAccountID != nil,
		})
	}
	return out
}

// ReduceBills emits the monthly bills totals of accountID.
func ReduceBills(cal dateutil.Calendar, bills []domain.BillsRow, accountID int, now time.Time) []Delta {
	var out []Delta
	for i, b := range bills {
		if b.AccountID != accountID {
			continue
		}
		key := cal.KeyOf(b.Date)
		out = append(out, Delta{
			MonthKey:   key,
			Date:       dateutil.EndOfMonth(b.Date),
			Key:        valueKey(accountID, "bills", key, i),
			Name:       NameBills,
			Value:      b.Sum,
			IsVerified: !b.Date.After(now),
		})
	}
	return out
}

// CreditCardWindow bounds the credit card reduction.
type CreditCardWindow struct {
	// First month considered
	Start time.Time
	// First month without recorded data; averages apply from here
	ProjectionStart time.Time
	// Last month considered
	End time.Time
}

// ReduceCreditCardPayments emits one delta per card per month of the window.
// A recorded payment wins over the card's average; months before the
// projection start without a recorded payment emit nothing.
func ReduceCreditCardPayments(cal dateutil.Calendar, payments []domain.CreditCardPaymentRow, averages []domain.CreditCardAverageRow, accountID int, window CreditCardWindow) []Delta {
	type cardMonth struct {
		card int
		key  dateutil.MonthKey
	}

	cards := make(map[int]bool)
	recorded := make(map[cardMonth]decimal.Decimal)
	for _, p := range payments {
		cm := cardMonth{card: p.CardID, key: dateutil.MonthKey{Year: p.Year, Month: p.Month}}
		recorded[cm] = recorded[cm].Add(p.Value)
		cards[p.CardID] = true
	}
	avg := make(map[int]decimal.Decimal)
	for _, a := range averages {
		avg[a.CardID] = a.Value
		cards[a.CardID] = true
	}

	ids := make([]int, 0, len(cards))
	for id := range cards {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	projectionIndex := cal.Index(cal.KeyOf(window.ProjectionStart))
	months := cal.Months(window.Start, window.End)

	var out []Delta
	for _, id := range ids {
		name := fmt.Sprintf("%s%d", CreditCardPrefix, id)
		for _, key := range months {
			d := Delta{
				MonthKey: key,
				Date:     cal.EndOf(key),
				Key:      valueKey(accountID, "credit-card", id, key),
				Name:     name,
			}
			if v, ok := recorded[cardMonth{card: id, key: key}]; ok {
				d.Value = v
				d.IsVerified = true
				out = append(out, d)
				continue
			}
			a, ok := avg[id]
			if !ok || cal.Index(key) < projectionIndex {
				continue
			}
			d.Value = a
			out = append(out, d)
		}
	}
	return out
}

// PredictedCardPayments maps each card to its rounded average payment.
func PredictedCardPayments(averages []domain.CreditCardAverageRow) map[int]decimal.Decimal {
	out := make(map[int]decimal.Decimal, len(averages))
	for _, a := range averages {
		out[a.CardID] = money.RoundMinor(a.Value)
	}
	return out
}
