package usage

import (
	"context"
	"time"

	domusage "github.com/kailas-cloud/resumerank/internal/domain/usage"
)

// Service handles usage reporting.
type Service struct {
	br  BudgetReader
	now func() time.Time
}

// New creates a Service. br can be nil (unlimited mode).
func New(br BudgetReader) *Service {
	return &Service{br: br, now: time.Now}
}

// WithClock overrides the time source used for period boundaries.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// GetReport builds a usage report for the given period.
func (s *Service) GetReport(_ context.Context, period domusage.Period) domusage.Report {
	now := s.now().UTC()

	var start, end time.Time
	if period == domusage.PeriodDay {
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 0, 1)
	} else {
		period = domusage.PeriodMonth
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0)
	}

	b := domusage.Budget{Remaining: -1, ResetsAt: end.UnixMilli()}
	var used int64
	if s.br != nil {
		snap := s.br.Snapshot()
		if period == domusage.PeriodDay {
			b.Limit, b.Remaining, used = snap.DailyLimit, snap.DailyRemaining, snap.DailyUsed
		} else {
			b.Limit, b.Remaining, used = snap.MonthlyLimit, snap.MonthlyRemaining, snap.MonthlyUsed
		}
	}

	return domusage.NewReport(period, start.UnixMilli(), end.UnixMilli(), used, b)
}
