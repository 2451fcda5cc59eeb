package calculation

import (
	"testing"
	"time"

	"github.com/rpgo/cashflow-forecast/internal/domain"
	"github.com/rpgo/cashflow-forecast/pkg/dateutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYearStartValueFromSnapshot(t *testing.T) {
	calc := YearStartCalculator{Calendar: aprilCalendar(t)}
	in := BoundaryInput{
		Snapshot: &domain.LatestActualValue{AccountID: 1, Date: date(2021, 5, 31), Value: dec("154420")},
		Year:     2022,
		PreviousIncome: []IncomeMonth{
			{MonthKey: dateutil.MonthKey{Year: 2021, Month: 5}, Value: dec("550000"), Deductions: []Deduction{{Name: "Income tax", Value: dec("-130500")}}},
			{MonthKey: dateutil.MonthKey{Year: 2021, Month: 6}, Value: dec("708333"), Deductions: []Deduction{{Name: "Income tax", Value: dec("-150000")}}},
		},
	}

	assert.Equal(t, "1132253", calc.Calculate(in).String())
}

func TestYearStartValueExcludesSnapshotMonth(t *testing.T) {
	calc := YearStartCalculator{Calendar: aprilCalendar(t)}
	snapshot := &domain.LatestActualValue{Date: date(2021, 5, 31), Value: dec("1000")}

	tests := []struct {
		name     string
		key      dateutil.MonthKey
		expected string
	}{
		{"Before snapshot", dateutil.MonthKey{Year: 2021, Month: 3}, "1000"},
		{"Snapshot month", dateutil.MonthKey{Year: 2021, Month: 4}, "1000"},
		{"Month after snapshot", dateutil.MonthKey{Year: 2021, Month: 5}, "1100"},
		{"Last month before target", dateutil.MonthKey{Year: 2021, Month: 2}, "1100"},
		{"Target year", dateutil.MonthKey{Year: 2022, Month: 3}, "1000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := BoundaryInput{
				Snapshot: snapshot,
				Year:     2022,
				Deltas:   [][]Delta{{{MonthKey: tt.key, Value: dec("100")}}},
			}
			assert.Equal(t, tt.expected, calc.Calculate(in).String())
		})
	}
}

// Without a snapshot there is nothing to project from, whatever happened
// before the target year.
func TestYearStartValueWithoutSnapshot(t *testing.T) {
	calc := YearStartCalculator{Calendar: aprilCalendar(t)}
	in := BoundaryInput{
		Year: 2022,
		PreviousIncome: []IncomeMonth{
			{MonthKey: dateutil.MonthKey{Year: 2021, Month: 5}, Value: dec("550000")},
		},
		PredictedIncome: []PredictedIncomeMonth{
			{MonthKey: dateutil.MonthKey{Year: 2021, Month: 10}, Gross: dec("1000"), Deductions: PredictedDeductions{Tax: dec("-200")}},
			{MonthKey: dateutil.MonthKey{Year: 2022, Month: 3}, Gross: dec("1000")},
		},
		Deltas: [][]Delta{
			{{MonthKey: dateutil.MonthKey{Year: 2019, Month: 7}, Value: dec("-50")}},
		},
	}
	assert.True(t, calc.Calculate(in).IsZero(), "got %s", calc.Calculate(in))
}

func TestYearStartValueRoundsHalfUp(t *testing.T) {
	calc := YearStartCalculator{Calendar: aprilCalendar(t)}
	snapshot := &domain.LatestActualValue{Date: date(2021, 3, 31), Value: dec("0")}

	tests := []struct {
		delta    string
		expected string
	}{
		{"10.5", "11"},
		{"-10.5", "-10"},
		{"-10.6", "-11"},
	}
	for _, tt := range tests {
		in := BoundaryInput{
			Snapshot: snapshot,
			Year:     2022,
			Deltas:   [][]Delta{{{MonthKey: dateutil.MonthKey{Year: 2021, Month: 5}, Value: dec(tt.delta)}}},
		}
		assert.Equal(t, tt.expected, calc.Calculate(in).String(), "delta %s", tt.delta)
	}
}

func TestRelevantYears(t *testing.T) {
	cal := aprilCalendar(t)
	recorded := func(years ...int) []domain.RecordedIncomeRow {
		var rows []domain.RecordedIncomeRow
		for _, y := range years {
			rows = append(rows, domain.RecordedIncomeRow{Year: y, Month: 5})
		}
		return rows
	}

	tests := []struct {
		name        string
		year        int
		predictFrom string
		recorded    []domain.RecordedIncomeRow
		expected    []int
	}{
		{"Prediction starts in the previous year", 2021, "2021-03-01", nil, []int{2020, 2021}},
		{"Prediction starts in the year", 2021, "2021-04-01", nil, []int{2021}},
		{"Several years ahead", 2025, "2021-02-01", nil, []int{2020, 2021, 2022, 2023, 2024, 2025}},
		{"Prediction starts after the year", 2021, "2023-04-01", nil, []int{2021, 2022, 2023}},
		{"Recorded income after the year is ignored", 2018, "2018-06-01", recorded(2020, 2020, 2022), []int{2018}},
		{"Oldest recorded income", 2023, "2023-05-01", recorded(2020, 2020, 2022), []int{2020, 2021, 2022, 2023}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, err := time.Parse("2006-01-02", tt.predictFrom)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, RelevantYears(cal, tt.year, from, tt.recorded))
		})
	}
}

func TestParameterYearsIncludePreviousYear(t *testing.T) {
	cal := aprilCalendar(t)
	assert.Equal(t, []int{2020, 2021}, ParameterYears(cal, 2021, date(2021, 4, 1), nil))
	assert.Equal(t, []int{2020, 2021}, ParameterYears(cal, 2021, date(2021, 3, 1), nil))
	assert.Equal(t, []int{2020, 2021, 2022, 2023}, ParameterYears(cal, 2021, date(2023, 4, 1), nil))
}

func TestLatestSnapshot(t *testing.T) {
	values := []domain.LatestActualValue{
		{AccountID: 1, Date: date(2021, 3, 31), Value: dec("1")},
		{AccountID: 1, Date: date(2021, 5, 31), Value: dec("2")},
		{AccountID: 2, Date: date(2022, 5, 31), Value: dec("3")},
	}
	latest := LatestSnapshot(values, 1)
	require.NotNil(t, latest)
	assert.Equal(t, "2", latest.Value.String())
	assert.Nil(t, LatestSnapshot(values, 9))
}

func TestProjectionStart(t *testing.T) {
	now := date(2022, 1, 15)
	assert.Equal(t, date(2022, 1, 1), ProjectionStart(nil, now))
	assert.Equal(t, date(2021, 6, 1), ProjectionStart(&domain.LatestActualValue{Date: date(2021, 5, 31)}, now))
	assert.Equal(t, date(2022, 1, 1), ProjectionStart(&domain.LatestActualValue{Date: date(2022, 3, 31)}, now))
}
