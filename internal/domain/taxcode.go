package domain

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TaxCode is a parsed personal-allowance code: either FlatRate or Allowance.
type TaxCode interface {
	// AnnualAllowance is the tax-free amount per year in minor units.
	AnnualAllowance() decimal.Decimal
	String() string
	isTaxCode()
}

// FlatRate codes (0T, BR, D0, ...) carry no tax-free allowance.
type FlatRate struct {
	Code string
}

func (FlatRate) AnnualAllowance() decimal.Decimal { return decimal.Zero }
func (f FlatRate) String() string                 { return f.Code }
func (FlatRate) isTaxCode()                       {}

// Allowance codes encode an annual tax-free amount, e.g. 1257L = 12,570.
// K codes encode a negative allowance.
type Allowance struct {
	Code   string
	Annual decimal.Decimal
}

func (a Allowance) AnnualAllowance() decimal.Decimal { return a.Annual }
func (a Allowance) String() string                   { return a.Code }
func (Allowance) isTaxCode()                         {}

var (
	flatRateCodes = map[string]bool{"0T": true, "OT": true, "BR": true, "D0": true, "D1": true}
	allowanceCode = regexp.MustCompile(`^(K)?(\d+)([LMNT])?$`)
	emergencyTail = regexp.MustCompile(`\s*(W1|M1|X)$`)

	// one allowance digit is worth ten major units
	allowanceDigitValue = decimal.NewFromInt(1000)
)

// ParseTaxCode parses an allowance code once, at the input boundary.
func ParseTaxCode(raw string) (TaxCode, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	code = emergencyTail.ReplaceAllString(code, "")
	if len(code) > 1 && (code[0] == 'S' || code[0] == 'C') {
		code = code[1:]
	}
	if flatRateCodes[code] {
		return FlatRate{Code: code}, nil
	}
	m := allowanceCode.FindStringSubmatch(code)
	if m == nil || (m[1] == "" && m[3] == "") {
		return nil, &InputError{Row: "income definition", Field: "tax_code", Value: raw, Err: ErrInvalidTaxCode}
	}
	digits, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return nil, &InputError{Row: "income definition", Field: "tax_code", Value: raw, Err: ErrInvalidTaxCode}
	}
	annual := decimal.NewFromInt(digits).Mul(allowanceDigitValue)
	if m[1] == "K" {
		annual = annual.Neg()
	}
	return Allowance{Code: code, Annual: annual}, nil
}
