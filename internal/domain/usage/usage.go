// Package usage models embedding token usage reports.
package usage

import "fmt"

// Period is the aggregation granularity.
type Period string

// Aggregation period constants.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// ParsePeriod validates a period name. Empty means PeriodMonth.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "":
		return PeriodMonth, nil
	case PeriodDay, PeriodMonth:
		return Period(s), nil
	}
	return "", fmt.Errorf("unknown usage period %q", s)
}

// Budget is the token budget state of one period. Limit 0 means unlimited,
// in which case Remaining is -1.
type Budget struct {
	Limit     int64
	Remaining int64
	ResetsAt  int64 // unix millis
}

// Exhausted reports whether a limited budget has nothing left.
func (b Budget) Exhausted() bool {
	return b.Limit > 0 && b.Remaining <= 0
}

// Report is embedding token usage for one period.
type Report struct {
	period      Period
	periodStart int64
	periodEnd   int64
	tokens      int64
	budget      Budget
}

// NewReport creates a usage report. start and end are unix millis.
func NewReport(period Period, start, end, tokens int64, b Budget) Report {
	return Report{
		period:      period,
		periodStart: start,
		periodEnd:   end,
		tokens:      tokens,
		budget:      b,
	}
}

// Period returns the aggregation granularity.
func (r *Report) Period() Period { return r.period }

// PeriodStart returns the period start timestamp (unix millis).
func (r *Report) PeriodStart() int64 { return r.periodStart }

// PeriodEnd returns the period end timestamp (unix millis).
func (r *Report) PeriodEnd() int64 { return r.periodEnd }

// Tokens returns tokens consumed in the period.
func (r *Report) Tokens() int64 { return r.tokens }

// Budget returns the budget status.
func (r *Report) Budget() Budget { return r.budget }
