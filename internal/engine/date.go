package engine

import (
	"fmt"
	"time"

	dErrors "filingcontrol/pkg/domain-errors"
)

// Date is a civil calendar date with no time-of-day and no timezone.
// All deadline arithmetic uses civil dates so the monitoring job's execution
// timezone can never shift a due date by a day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a civil date, clamping the day to the month's length
// (Feb 30 becomes Feb 28/29). It never rolls into the next month.
func NewDate(year int, month time.Month, day int) Date {
	if max := daysInMonth(year, month); day > max {
		day = max
	}
	if day < 1 {
		day = 1
	}
	return Date{Year: year, Month: month, Day: day}
}

// DateOf truncates a timestamp to its civil date in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, dErrors.New(dErrors.CodeValidation, "date must be formatted as YYYY-MM-DD")
	}
	return DateOf(t), nil
}

// Time anchors the date at UTC midnight. Used only for day arithmetic and
// store round-trips; never exposed with a time component.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool { return o.Before(d) }

// IsZero reports whether d is the zero date.
func (d Date) IsZero() bool { return d == Date{} }

// DaysUntil returns the number of civil days from d to o.
// Negative when o is in the past relative to d.
func (d Date) DaysUntil(o Date) int {
	return int(o.Time().Sub(d.Time()) / (24 * time.Hour))
}

// AddMonths advances the date by n calendar months, clamping the day to the
// resulting month's length. Unlike time.Time.AddDate, Jan 31 + 1 month is
// Feb 28 (or 29), never Mar 3.
func (d Date) AddMonths(n int) Date {
	total := int(d.Month) - 1 + n
	year := d.Year + total/12
	month := time.Month(total%12 + 1)
	if total < 0 {
		// Go integer division truncates toward zero; normalize.
		year = d.Year + (total-11)/12
		month = time.Month((total%12+12)%12 + 1)
	}
	return NewDate(year, month, d.Day)
}

// MarshalJSON encodes the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return dErrors.New(dErrors.CodeValidation, "date must be a JSON string")
	}
	parsed, err := ParseDate(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the following month is the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
