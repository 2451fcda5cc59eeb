package calculation

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/rpgo/cashflow-forecast/internal/domain"
	"github.com/rpgo/cashflow-forecast/pkg/dateutil"
	money "github.com/rpgo/cashflow-forecast/pkg/decimal"
	"golang.org/x/sync/errgroup"
)

// ForecastEngine orchestrates the per-account year projection
type ForecastEngine struct {
	Calendar  dateutil.Calendar
	Settings  domain.EngineSettings
	Evaluator FormulaEvaluator
	Logger    Logger

	salarySacrifice *regexp.Regexp
	taxDeductible   *regexp.Regexp
}

// NewForecastEngine creates a forecast engine. The evaluator may be nil, in
// which case formula-valued rows contribute nothing.
func NewForecastEngine(settings domain.EngineSettings, evaluator FormulaEvaluator) (*ForecastEngine, error) {
	cal, err := dateutil.NewCalendar(settings.FiscalYearStartMonth)
	if err != nil {
		return nil, &domain.InputError{
			Row:   "settings",
			Field: "fiscal_year_start_month",
			Value: fmt.Sprint(settings.FiscalYearStartMonth),
			Err:   domain.ErrInvalidMonth,
		}
	}
	if err := dateutil.ValidateMonth(settings.TaxReliefMonth); err != nil {
		return nil, &domain.InputError{
			Row:   "settings",
			Field: "tax_relief_month",
			Value: fmt.Sprint(settings.TaxReliefMonth),
			Err:   domain.ErrInvalidMonth,
		}
	}
	salarySacrifice, err := regexp.Compile(settings.SalarySacrificePattern)
	if err != nil {
		return nil, fmt.Errorf("salary sacrifice pattern: %w", err)
	}
	taxDeductible, err := regexp.Compile(settings.TaxDeductiblePattern)
	if err != nil {
		return nil, fmt.Errorf("tax deductible pattern: %w", err)
	}

	return &ForecastEngine{
		Calendar:        cal,
		Settings:        settings,
		Evaluator:       evaluator,
		Logger:          NopLogger{},
		salarySacrifice: salarySacrifice,
		taxDeductible:   taxDeductible,
	}, nil
}

// SetLogger sets the logger for the forecast engine. If nil is provided, a no-op logger is used.
func (fe *ForecastEngine) SetLogger(l Logger) {
	if l == nil {
		fe.Logger = NopLogger{}
		return
	}
	fe.Logger = l
}

// ForecastRequest identifies the account and year to project.
type ForecastRequest struct {
	AccountID   int
	AccountName string
	Year        int
	Now         time.Time
	Incomes     []domain.IncomeDefinition
	// Recorded income and credit card tables must be scoped to the account
	Rows domain.RowSet
}

// ProjectionStart returns the first month without verified data: the month
// after the snapshot, or the start of now's month when there is no snapshot
// or it lies in the future.
func ProjectionStart(snapshot *domain.LatestActualValue, now time.Time) time.Time {
	if snapshot == nil || snapshot.Date.After(now) {
		return dateutil.StartOfMonth(now)
	}
	return dateutil.AddMonths(dateutil.StartOfMonth(snapshot.Date), 1)
}

// ForecastAccount computes the year-start balance and the discrete events of
// the target year for one account. It is a pure function of its input.
func (fe *ForecastEngine) ForecastAccount(req ForecastRequest) (*domain.AccountForecast, error) {
	cal := fe.Calendar
	rows := req.Rows
	params := domain.NewParameterTable(rows.Parameters)

	snapshot := LatestSnapshot(rows.LatestActualValues, req.AccountID)
	projectionStart := ProjectionStart(snapshot, req.Now)
	yearEnd := cal.EndOfYear(req.Year)
	if snapshot == nil {
		fe.Logger.Debugf("account %d: no actual value, projecting from %s", req.AccountID, projectionStart.Format("2006-01-02"))
	}
	for _, y := range ParameterYears(cal, req.Year, projectionStart, rows.RecordedIncome) {
		if len(req.Incomes) > 0 && !params.Has(y, domain.ParamTaxBasicRate) {
			fe.Logger.Debugf("account %d: no statutory parameters for financial year %d", req.AccountID, y)
		}
	}

	previous := AggregatePreviousIncome(cal, rows.RecordedIncome)
	predicted, err := NewIncomeProjector(cal, params, fe.Logger).
		Project(req.Incomes, rows.RecordedIncome, projectionStart, yearEnd)
	if err != nil {
		return nil, fmt.Errorf("account %d: %w", req.AccountID, err)
	}

	resolved, err := ResolveExplicitValues(cal, rows.ExplicitValues, fe.Evaluator, fe.Logger)
	if err != nil {
		return nil, fmt.Errorf("account %d: %w", req.AccountID, err)
	}

	transfers := ReduceTransfers(cal, resolved, req.AccountID, req.Now)
	own := ReduceOwnValues(resolved, req.AccountID)
	bills := ReduceBills(cal, rows.Bills, req.AccountID, req.Now)
	cards := ReduceCreditCardPayments(cal, rows.CreditCardPayments, rows.CreditCardAverages, req.AccountID, CreditCardWindow{
		Start:           dateutil.MinDate(cal.StartOfYear(req.Year), projectionStart),
		ProjectionStart: projectionStart,
		End:             yearEnd,
	})

	var snapKey *dateutil.MonthKey
	if snapshot != nil {
		k := cal.KeyOf(snapshot.Date)
		snapKey = &k
	}
	relief := &TaxReliefCalculator{
		Calendar:        cal,
		Parameters:      params,
		SalarySacrifice: fe.salarySacrifice,
		TaxDeductible:   fe.taxDeductible,
		Logger:          fe.Logger,
	}
	reliefs, err := relief.ReliefDeltas(req.AccountID, req.Year, fe.Settings.TaxReliefMonth, snapKey, ReliefInput{
		Incomes:        req.Incomes,
		RecordedIncome: rows.RecordedIncome,
		ExplicitValues: resolved,
	})
	if err != nil {
		return nil, fmt.Errorf("account %d: %w", req.AccountID, err)
	}

	start := YearStartCalculator{Calendar: cal}.Calculate(BoundaryInput{
		Snapshot:        snapshot,
		Year:            req.Year,
		PreviousIncome:  previous,
		PredictedIncome: predicted,
		Deltas:          [][]Delta{own, transfers, bills, cards, reliefs},
	})

	values := make([]domain.ComputedValue, 0)
	values = append(values, previousIncomeValues(req.AccountID, req.Year, previous)...)
	values = append(values, predictedIncomeValues(req.AccountID, req.Year, predicted)...)
	for _, group := range [][]Delta{transfers, bills, cards, reliefs} {
		values = append(values, deltaValues(req.Year, group)...)
	}
	sort.SliceStable(values, func(i, j int) bool {
		return cal.Index(dateutil.MonthKey{Year: req.Year, Month: values[i].Month}) <
			cal.Index(dateutil.MonthKey{Year: req.Year, Month: values[j].Month})
	})

	fe.Logger.Debugf("account %d year %d: start value %s, %d computed values",
		req.AccountID, req.Year, start.StringFixed(0), len(values))

	return &domain.AccountForecast{
		AccountID:                   req.AccountID,
		AccountName:                 req.AccountName,
		Year:                        req.Year,
		ComputedStartValue:          start,
		ComputedValues:              values,
		PredictedCreditCardPayments: PredictedCardPayments(rows.CreditCardAverages),
	}, nil
}

// ForecastAccounts projects every account concurrently. Account-scoped tables
// are narrowed per account and bills are dropped for accounts that exclude
// them; results keep the order of accounts.
func (fe *ForecastEngine) ForecastAccounts(ctx context.Context, rows domain.RowSet, accounts []domain.Account, year int, now time.Time) ([]domain.AccountForecast, error) {
	results := make([]domain.AccountForecast, len(accounts))
	g, ctx := errgroup.WithContext(ctx)
	for i, account := range accounts {
		i, account := i, account
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			scoped := rows.ForAccount(account.ID)
			if !account.BillsIncluded() {
				scoped.Bills = nil
			}
			f, err := fe.ForecastAccount(ForecastRequest{
				AccountID:   account.ID,
				AccountName: account.Name,
				Year:        year,
				Now:         now,
				Incomes:     account.AccountIncomes(),
				Rows:        scoped,
			})
			if err != nil {
				return err
			}
			results[i] = *f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// MonthlyDeductions projects the first month of year for a single income
// definition, regardless of its active range.
func (fe *ForecastEngine) MonthlyDeductions(params domain.ParameterTable, def domain.IncomeDefinition, year int) (domain.DeductionBreakdown, error) {
	code, err := domain.ParseTaxCode(def.TaxCode)
	if err != nil {
		return domain.DeductionBreakdown{}, err
	}
	key := dateutil.MonthKey{Year: year, Month: fe.Calendar.StartMonth}
	m := NewIncomeProjector(fe.Calendar, params, fe.Logger).MonthFor(def, code, key)
	return domain.DeductionBreakdown{
		Year:        year,
		Month:       key.Month,
		Gross:       m.Gross,
		Pension:     m.Deductions.Pension.Neg(),
		Tax:         m.Deductions.Tax.Neg(),
		NI:          m.Deductions.NI.Neg(),
		StudentLoan: m.Deductions.StudentLoan.Neg(),
		Net:         m.Total(),
	}, nil
}

func previousIncomeValues(accountID, year int, months []IncomeMonth) []domain.ComputedValue {
	var out []domain.ComputedValue
	for _, m := range months {
		if m.Year != year {
			continue
		}
		out = append(out, domain.ComputedValue{
			Key:        valueKey(accountID, "income", "recorded", m.MonthKey, NameSalary),
			Month:      m.Month,
			Name:       NameSalary,
			Value:      money.RoundMinor(m.Value),
			IsVerified: true,
		})
		for _, d := range m.Deductions {
			out = append(out, domain.ComputedValue{
				Key:        valueKey(accountID, "deduction", "recorded", m.MonthKey, d.Name),
				Month:      m.Month,
				Name:       d.Name,
				Value:      money.RoundMinor(d.Value),
				IsVerified: true,
			})
		}
	}
	return out
}

func predictedIncomeValues(accountID, year int, months []PredictedIncomeMonth) []domain.ComputedValue {
	var out []domain.ComputedValue
	for _, m := range months {
		if m.Year != year {
			continue
		}
		out = append(out, domain.ComputedValue{
			Key:   valueKey(accountID, "income", "predicted", m.MonthKey, NameSalary),
			Month: m.Month,
			Name:  NameSalary,
			Value: money.RoundMinor(m.Gross),
		})
		for _, d := range m.Deductions.Entries() {
			out = append(out, domain.ComputedValue{
				Key:   valueKey(accountID, "deduction", "predicted", m.MonthKey, d.Name),
				Month: m.Month,
				Name:  d.Name,
				Value: money.RoundMinor(d.Value),
			})
		}
	}
	return out
}

func deltaValues(year int, deltas []Delta) []domain.ComputedValue {
	var out []domain.ComputedValue
	for _, d := range deltas {
		if d.Year != year {
			continue
		}
		out = append(out, domain.ComputedValue{
			Key:        d.Key,
			Month:      d.Month,
			Name:       d.Name,
			Value:      money.RoundMinor(d.Value),
			IsVerified: d.IsVerified,
			IsTransfer: d.IsTransfer,
		})
	}
	return out
}
