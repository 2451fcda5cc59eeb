package calculation

import (
	"time"

	"github.com/rpgo/cashflow-forecast/internal/domain"
	"github.com/rpgo/cashflow-forecast/pkg/dateutil"
	money "github.com/rpgo/cashflow-forecast/pkg/decimal"
	"github.com/shopspring/decimal"
)

// BoundaryInput carries everything the year-start value is built from.
type BoundaryInput struct {
	// Latest verified snapshot, nil when the account has none
	Snapshot *domain.LatestActualValue
	Year     int

	PreviousIncome  []IncomeMonth
	PredictedIncome []PredictedIncomeMonth
	// Own explicit values, transfers in, bills, credit cards and tax relief
	Deltas [][]Delta
}

// YearStartCalculator computes the balance at the start of a financial year.
type YearStartCalculator struct {
	Calendar dateutil.Calendar
}

// Calculate returns the snapshot value plus every contribution dated strictly
// after the snapshot month and before the target year. An account without a
// snapshot has nothing to project from and starts at zero.
func (c YearStartCalculator) Calculate(in BoundaryInput) decimal.Decimal {
	if in.Snapshot == nil {
		return decimal.Zero
	}
	total := in.Snapshot.Value
	snapIndex := c.Calendar.Index(c.Calendar.KeyOf(in.Snapshot.Date))
	counts := func(k dateutil.MonthKey) bool {
		return k.Year < in.Year && c.Calendar.Index(k) > snapIndex
	}

	for _, m := range in.PreviousIncome {
		if counts(m.MonthKey) {
			total = total.Add(m.Total())
		}
	}
	for _, m := range in.PredictedIncome {
		if counts(m.MonthKey) {
			total = total.Add(m.Total())
		}
	}
	for _, group := range in.Deltas {
		for _, d := range group {
			if counts(d.MonthKey) {
				total = total.Add(d.Value)
			}
		}
	}
	return money.RoundMinor(total)
}

// LatestSnapshot returns the account's most recent actual value, or nil.
func LatestSnapshot(values []domain.LatestActualValue, accountID int) *domain.LatestActualValue {
	var latest *domain.LatestActualValue
	for i := range values {
		v := &values[i]
		if v.AccountID != accountID {
			continue
		}
		if latest == nil || v.Date.After(latest.Date) {
			latest = v
		}
	}
	if latest == nil {
		return nil
	}
	cp := *latest
	return &cp
}

// RelevantYears returns the financial years whose parameters a projection of
// year reads: the inclusive range spanning year, the year of predictFrom and
// the oldest recorded income up to year. Recorded income after year is
// ignored.
func RelevantYears(cal dateutil.Calendar, year int, predictFrom time.Time, recorded []domain.RecordedIncomeRow) []int {
	predictYear := cal.YearOf(predictFrom)
	from := min(year, predictYear)
	to := max(year, predictYear)
	for _, r := range recorded {
		if y := monthKeyOfRow(cal, r).Year; y <= year && y < from {
			from = y
		}
	}
	years := make([]int, 0, to-from+1)
	for y := from; y <= to; y++ {
		years = append(years, y)
	}
	return years
}

// ParameterYears is RelevantYears with the year before year always included,
// as tax relief for year is earned against it.
func ParameterYears(cal dateutil.Calendar, year int, predictFrom time.Time, recorded []domain.RecordedIncomeRow) []int {
	years := RelevantYears(cal, year, predictFrom, recorded)
	if years[0] > year-1 {
		years = append([]int{year - 1}, years...)
	}
	return years
}
