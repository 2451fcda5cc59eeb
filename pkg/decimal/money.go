package decimal

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var (
	twelve = decimal.NewFromInt(12)
	half   = decimal.New(5, -1)
)

// Money represents a monetary amount held in minor units (pence, cents).
type Money struct {
	decimal.Decimal
}

// NewMoney creates a new Money instance from an integer number of minor units
func NewMoney(minor int64) Money {
	return Money{decimal.NewFromInt(minor)}
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// NewMoneyFromString creates a new Money instance from a string
func NewMoneyFromString(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

// Round rounds the amount to the nearest minor unit
func (m Money) Round() Money {
	return Money{RoundMinor(m.Decimal)}
}

// Monthly converts an annual amount to monthly without rounding
func (m Money) Monthly() Money {
	return Money{m.Decimal.Div(twelve)}
}

// Add adds another Money amount
func (m Money) Add(other Money) Money {
	return Money{m.Decimal.Add(other.Decimal)}
}

// Sub subtracts another Money amount
func (m Money) Sub(other Money) Money {
	return Money{m.Decimal.Sub(other.Decimal)}
}

// Mul multiplies by a decimal factor
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{m.Decimal.Mul(factor)}
}

// Format renders the amount in the given ISO currency, e.g. "£1,234.56".
func (m Money) Format(currency string) string {
	return money.New(RoundMinor(m.Decimal).IntPart(), currency).Display()
}

// String returns the amount rounded to whole minor units
func (m Money) String() string {
	return m.Decimal.StringFixed(0)
}

// Zero returns a zero Money amount
func Zero() Money {
	return Money{decimal.Zero}
}

// RoundMinor rounds to the nearest minor unit with halves going up, so
// -2.5 rounds to -2.
func RoundMinor(d decimal.Decimal) decimal.Decimal {
	return d.Add(half).Floor()
}

// MonthlyMinor prorates an annual amount to one month and rounds it to the
// nearest minor unit.
func MonthlyMinor(annual decimal.Decimal) decimal.Decimal {
	return RoundMinor(annual.Div(twelve))
}

// NonNegative clamps negative amounts to zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Headroom returns max(0, min(value, ceiling) - floor).
func Headroom(value, floor, ceiling decimal.Decimal) decimal.Decimal {
	return NonNegative(decimal.Min(value, ceiling).Sub(floor))
}

// FormatMinor renders a minor-unit decimal in the given currency.
func FormatMinor(d decimal.Decimal, currency string) string {
	return NewMoneyFromDecimal(d).Format(currency)
}
