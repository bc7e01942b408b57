package usage

import (
	"context"
	"time"

	domusage "github.com/kailas-cloud/resumatch/internal/domain/usage"
)

// Service handles usage reporting.
type Service struct {
	br  BudgetReader
	now func() time.Time
}

// New creates a Service. br can be nil (unlimited mode, nothing tracked).
func New(br BudgetReader) *Service {
	return &Service{br: br, now: time.Now}
}

// GetReport builds a usage report for the given period.
func (s *Service) GetReport(_ context.Context, period domusage.Period) domusage.Report {
	start, end := period.Bounds(s.now())
	if s.br == nil {
		return domusage.NewReport(period, start, end, "", 0, 0)
	}

	c := s.br.Snapshot()
	used, limit := c.DailyUsed, c.DailyLimit
	if period == domusage.PeriodMonth {
		used, limit = c.MonthlyUsed, c.MonthlyLimit
	}
	return domusage.NewReport(period, start, end, c.Provider, used, limit)
}
