package dateutil

import (
	"errors"
	"fmt"
	"time"
)

// ErrMonthOutOfRange is returned when a 0-based month falls outside 0-11.
var ErrMonthOutOfRange = errors.New("month out of range")

// MonthKey identifies one month of a financial year. Month is the 0-based
// calendar month, Year is the financial year the month belongs to.
type MonthKey struct {
	Year  int `json:"year" yaml:"year"`
	Month int `json:"month" yaml:"month"`
}

// String renders the key as year/month for logs and keys.
func (k MonthKey) String() string {
	return fmt.Sprintf("%d/%d", k.Year, k.Month)
}

// Calendar buckets dates into financial years beginning at StartMonth.
type Calendar struct {
	StartMonth int
}

// NewCalendar creates a calendar whose financial year starts at the given
// 0-based calendar month.
func NewCalendar(startMonth int) (Calendar, error) {
	if err := ValidateMonth(startMonth); err != nil {
		return Calendar{}, fmt.Errorf("fiscal year start month: %w", err)
	}
	return Calendar{StartMonth: startMonth}, nil
}

// ValidateMonth checks that a 0-based month lies within 0-11.
func ValidateMonth(month int) error {
	if month < 0 || month > 11 {
		return fmt.Errorf("%w: %d", ErrMonthOutOfRange, month)
	}
	return nil
}

// YearOf returns the financial year containing date.
func (c Calendar) YearOf(date time.Time) int {
	if int(date.Month())-1 < c.StartMonth {
		return date.Year() - 1
	}
	return date.Year()
}

// MonthOf returns the 0-based calendar month of date.
func (c Calendar) MonthOf(date time.Time) int {
	return int(date.Month()) - 1
}

// KeyOf returns the financial (year, month) pair of date.
func (c Calendar) KeyOf(date time.Time) MonthKey {
	return MonthKey{Year: c.YearOf(date), Month: c.MonthOf(date)}
}

// DateOf is the inverse of YearOf/MonthOf: it returns the last day of the
// given month of the given financial year.
func (c Calendar) DateOf(year, month int) (time.Time, error) {
	if err := ValidateMonth(month); err != nil {
		return time.Time{}, err
	}
	return c.EndOf(MonthKey{Year: year, Month: month}), nil
}

// EndOf returns the last day of the month identified by k. The key must carry
// a valid month, as produced by KeyOf or KeyAt.
func (c Calendar) EndOf(k MonthKey) time.Time {
	calendarYear := k.Year
	if k.Month < c.StartMonth {
		calendarYear++
	}
	return EndOfMonth(time.Date(calendarYear, time.Month(k.Month+1), 1, 0, 0, 0, 0, time.UTC))
}

// StartOf returns the first day of the month identified by k.
func (c Calendar) StartOf(k MonthKey) time.Time {
	return StartOfMonth(c.EndOf(k))
}

// Index maps a key onto a monotonically increasing month counter, so that
// keys can be ordered and compared across financial years.
func (c Calendar) Index(k MonthKey) int {
	return k.Year*12 + (k.Month-c.StartMonth+12)%12
}

// KeyAt is the inverse of Index.
func (c Calendar) KeyAt(index int) MonthKey {
	year := index / 12
	offset := index % 12
	if offset < 0 {
		year--
		offset += 12
	}
	return MonthKey{Year: year, Month: (offset + c.StartMonth) % 12}
}

// StartOfYear returns the first day of the financial year.
func (c Calendar) StartOfYear(year int) time.Time {
	return time.Date(year, time.Month(c.StartMonth+1), 1, 0, 0, 0, 0, time.UTC)
}

// EndOfYear returns the last day of the financial year.
func (c Calendar) EndOfYear(year int) time.Time {
	return c.StartOfYear(year+1).AddDate(0, 0, -1)
}

// Months lists every month from the month of from to the month of to,
// inclusive. It returns nil when to precedes from.
func (c Calendar) Months(from, to time.Time) []MonthKey {
	first := c.Index(c.KeyOf(from))
	last := c.Index(c.KeyOf(to))
	if last < first {
		return nil
	}
	keys := make([]MonthKey, 0, last-first+1)
	for i := first; i <= last; i++ {
		keys = append(keys, c.KeyAt(i))
	}
	return keys
}

// StartOfMonth returns midnight on the first day of the month of date.
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// EndOfMonth returns midnight on the last day of the month of date.
func EndOfMonth(date time.Time) time.Time {
	return StartOfMonth(date).AddDate(0, 1, -1)
}

// AddMonths adds a specified number of months to a date
func AddMonths(date time.Time, months int) time.Time {
	return date.AddDate(0, months, 0)
}

// MaxDate returns the later of two dates.
func MaxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

// MinDate returns the earlier of two dates.
func MinDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
