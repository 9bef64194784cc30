package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextAnnual(t *testing.T) {
	tests := []struct {
		name  string
		month time.Month
		day   int
		asOf  Date
		want  Date
	}{
		{
			name:  "upcoming date stays in current year",
			month: time.April, day: 15,
			asOf: NewDate(2026, time.February, 1),
			want: NewDate(2026, time.April, 15),
		},
		{
			name:  "same day counts as current occurrence",
			month: time.April, day: 15,
			asOf: NewDate(2026, time.April, 15),
			want: NewDate(2026, time.April, 15),
		},
		{
			name:  "passed date rolls to next year",
			month: time.April, day: 15,
			asOf: NewDate(2026, time.April, 16),
			want: NewDate(2027, time.April, 15),
		},
		{
			name:  "Feb 29 clamps in non-leap target year",
			month: time.February, day: 29,
			asOf: NewDate(2026, time.January, 1),
			want: NewDate(2026, time.February, 28),
		},
		{
			name:  "Feb 29 kept in leap target year",
			month: time.February, day: 29,
			asOf: NewDate(2028, time.January, 1),
			want: NewDate(2028, time.February, 29),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextAnnual(tt.month, tt.day, tt.asOf))
		})
	}
}

func TestNextFiscalDeadline(t *testing.T) {
	calendarYear := FiscalAnchor{FiscalYearEndMonth: time.December}

	t.Run("calendar year entity files April 15", func(t *testing.T) {
		// FY ended Dec 31 2025; 4 months after, day 15 → April 15 2026.
		got := nextFiscalDeadline(calendarYear, 4, 15, NewDate(2026, time.February, 1))
		assert.Equal(t, NewDate(2026, time.April, 15), got)
	})

	t.Run("passed deadline rolls to next fiscal year", func(t *testing.T) {
		got := nextFiscalDeadline(calendarYear, 4, 15, NewDate(2026, time.May, 1))
		assert.Equal(t, NewDate(2027, time.April, 15), got)
	})

	t.Run("deadline on asOf itself applies", func(t *testing.T) {
		got := nextFiscalDeadline(calendarYear, 4, 15, NewDate(2026, time.April, 15))
		assert.Equal(t, NewDate(2026, time.April, 15), got)
	})

	t.Run("june fiscal year end", func(t *testing.T) {
		juneFY := FiscalAnchor{FiscalYearEndMonth: time.June}
		// FY ended June 30 2026; 4 months after → October 15 2026.
		got := nextFiscalDeadline(juneFY, 4, 15, NewDate(2026, time.August, 1))
		assert.Equal(t, NewDate(2026, time.October, 15), got)
	})

	t.Run("offset landing in short month clamps day", func(t *testing.T) {
		// FY ends October; 4 months after is February. Day 30 must clamp
		// to Feb 28 in a non-leap year, never error.
		octFY := FiscalAnchor{FiscalYearEndMonth: time.October}
		got := nextFiscalDeadline(octFY, 4, 30, NewDate(2026, time.January, 1))
		assert.Equal(t, NewDate(2026, time.February, 28), got)
	})

	t.Run("zero anchor defaults to calendar year", func(t *testing.T) {
		got := nextFiscalDeadline(FiscalAnchor{}, 4, 15, NewDate(2026, time.February, 1))
		assert.Equal(t, NewDate(2026, time.April, 15), got)
	})
}

func TestComputeDeadlines_CoversAllObligations(t *testing.T) {
	anchor := FiscalAnchor{FiscalYearEndMonth: time.December}
	asOf := NewDate(2026, time.February, 10)
	triggered := TriggeredObligations(highRiskProfile)

	deadlines := ComputeDeadlines(triggered, anchor, asOf)
	require.Len(t, deadlines, len(triggered))

	byKey := map[string]Deadline{}
	for _, d := range deadlines {
		byKey[d.ObligationKey] = d
		assert.False(t, d.DueDate.Before(asOf), "due date %s for %s precedes asOf", d.DueDate, d.ObligationKey)
		assert.NotEmpty(t, d.Basis)
	}

	// Form 5472 due the 15th day of the 4th month after Dec 31.
	assert.Equal(t, NewDate(2026, time.April, 15), byKey[KeyForm5472].DueDate)
	// FBAR fixed April 15.
	assert.Equal(t, NewDate(2026, time.April, 15), byKey[KeyFBAR].DueDate)
	// BOI rolls to next Jan 1 (Jan 1 2026 already passed).
	assert.Equal(t, NewDate(2027, time.January, 1), byKey[KeyBOIReport].DueDate)
}

func TestDate_AddMonths(t *testing.T) {
	tests := []struct {
		name string
		in   Date
		n    int
		want Date
	}{
		{"simple advance", NewDate(2026, time.January, 10), 2, NewDate(2026, time.March, 10)},
		{"year wrap", NewDate(2026, time.November, 10), 3, NewDate(2027, time.February, 10)},
		{"clamps to short month", NewDate(2026, time.January, 31), 1, NewDate(2026, time.February, 28)},
		{"clamps to leap February", NewDate(2028, time.January, 31), 1, NewDate(2028, time.February, 29)},
		{"negative offset", NewDate(2026, time.January, 15), -2, NewDate(2025, time.November, 15)},
		{"negative offset across year with clamp", NewDate(2026, time.March, 31), -1, NewDate(2026, time.February, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.AddMonths(tt.n))
		})
	}
}

func TestDate_DaysUntil(t *testing.T) {
	d := NewDate(2026, time.March, 1)

	assert.Equal(t, 30, d.DaysUntil(NewDate(2026, time.March, 31)))
	assert.Equal(t, 0, d.DaysUntil(d))
	assert.Equal(t, -1, d.DaysUntil(NewDate(2026, time.February, 28)))
	// Across a leap-year February.
	assert.Equal(t, 29, NewDate(2028, time.February, 1).DaysUntil(NewDate(2028, time.March, 1)))
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := NewDate(2026, time.April, 15)

	data, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2026-04-15"`, string(data))

	var back Date
	require.NoError(t, back.UnmarshalJSON(data))
	assert.Equal(t, d, back)
}

func TestParseDate_RejectsMalformed(t *testing.T) {
	for _, input := range []string{"", "2026/04/15", "15-04-2026", "2026-13-01", "not-a-date"} {
		_, err := ParseDate(input)
		assert.Error(t, err, "input %q", input)
	}
}
