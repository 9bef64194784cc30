package engine

import "time"

// ComputeDeadlines resolves each obligation's deadline rule into a concrete
// due date at or after asOf.
//
// Fixed-date rules take the next occurrence of their calendar date, rolling
// to the following year once the date has passed. Fiscal rules anchor on the
// entity's fiscal year end and add the configured month offset, clamping the
// day of month (an offset landing on a non-existent Feb 29 rounds down to
// Feb 28, never errors).
//
// All arithmetic is calendar-aware civil-date math; no time-of-day, no
// timezone.
func ComputeDeadlines(obligations []Obligation, anchor FiscalAnchor, asOf Date) []Deadline {
	deadlines := make([]Deadline, 0, len(obligations))
	for _, o := range obligations {
		due := nextDueDate(o.Deadline, anchor, asOf)
		deadlines = append(deadlines, Deadline{
			ObligationKey: o.Key,
			Form:          o.Form,
			DueDate:       due,
			Basis:         o.Deadline.Basis,
		})
	}
	return deadlines
}

func nextDueDate(rule DeadlineRule, anchor FiscalAnchor, asOf Date) Date {
	switch rule.Kind {
	case DeadlineFixedAnnual:
		return nextAnnual(rule.Month, rule.Day, asOf)
	case DeadlineFiscalOffset:
		return nextFiscalDeadline(anchor, rule.MonthsAfterFYEnd, rule.DayOfMonth, asOf)
	}
	// Unknown kinds cannot occur for catalog entries; fall back to the
	// reference date rather than inventing a deadline.
	return asOf
}

// nextAnnual returns the next occurrence of month/day strictly at or after
// asOf. Day is clamped per target year (Feb 29 in a non-leap year becomes
// Feb 28).
func nextAnnual(month time.Month, day int, asOf Date) Date {
	candidate := NewDate(asOf.Year, month, day)
	if candidate.Before(asOf) {
		candidate = NewDate(asOf.Year+1, month, day)
	}
	return candidate
}

// nextFiscalDeadline computes the deadline for the fiscal year ending in the
// current (or previous) year: the last day of the fiscal year end month plus
// the month offset, on the given day of month.
func nextFiscalDeadline(anchor FiscalAnchor, monthsAfter, day int, asOf Date) Date {
	endMonth := anchor.EndMonth()

	// Fiscal year end on or before asOf: try this year's first, step back
	// if it hasn't happened yet.
	fyEnd := NewDate(asOf.Year, endMonth, daysInMonth(asOf.Year, endMonth))
	if fyEnd.After(asOf) {
		fyEnd = NewDate(asOf.Year-1, endMonth, daysInMonth(asOf.Year-1, endMonth))
	}

	deadline := deadlineAfterFYEnd(fyEnd, monthsAfter, day)
	if deadline.Before(asOf) {
		// Deadline for the elapsed fiscal year has passed; compute against
		// the next fiscal year end.
		fyEnd = NewDate(fyEnd.Year+1, endMonth, daysInMonth(fyEnd.Year+1, endMonth))
		deadline = deadlineAfterFYEnd(fyEnd, monthsAfter, day)
	}
	return deadline
}

func deadlineAfterFYEnd(fyEnd Date, monthsAfter, day int) Date {
	shifted := fyEnd.AddMonths(monthsAfter)
	// NewDate clamps day to the target month's length.
	return NewDate(shifted.Year, shifted.Month, day)
}
