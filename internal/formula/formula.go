// Package formula evaluates the arithmetic expressions attached to explicit
// value rows.
package formula

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/PaesslerAG/gval"
	money "github.com/rpgo/cashflow-forecast/pkg/decimal"
	"github.com/shopspring/decimal"
)

// ErrEmptyExpression is returned for blank expressions.
var ErrEmptyExpression = errors.New("empty expression")

// Evaluator evaluates spreadsheet-style arithmetic. A leading "=" is
// ignored; named variables resolve from Variables.
type Evaluator struct {
	Variables map[string]any
	language  gval.Language
}

// NewEvaluator creates an evaluator over gval's arithmetic language.
func NewEvaluator(vars map[string]any) *Evaluator {
	return &Evaluator{
		Variables: vars,
		language:  gval.Arithmetic(),
	}
}

// Evaluate returns the expression's value rounded to whole minor units.
func (e *Evaluator) Evaluate(expression string) (decimal.Decimal, error) {
	expr := strings.TrimSpace(expression)
	expr = strings.TrimSpace(strings.TrimPrefix(expr, "="))
	if expr == "" {
		return decimal.Zero, ErrEmptyExpression
	}

	vars := e.Variables
	if vars == nil {
		vars = map[string]any{}
	}
	result, err := e.language.Evaluate(expr, vars)
	if err != nil {
		return decimal.Zero, fmt.Errorf("evaluate %q: %w", expression, err)
	}
	d, err := toDecimal(expression, result)
	if err != nil {
		return decimal.Zero, err
	}
	return money.RoundMinor(d), nil
}

func toDecimal(expression string, v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero, fmt.Errorf("evaluate %q: result %v is not finite", expression, n)
		}
		return decimal.NewFromFloat(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case decimal.Decimal:
		return n, nil
	default:
		return decimal.Zero, fmt.Errorf("evaluate %q: result %v (%T) is not a number", expression, v, v)
	}
}
