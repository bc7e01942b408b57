package usage

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/resumatch/internal/domain"
)

// Period is the aggregation granularity.
type Period string

// Aggregation period constants.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// ParsePeriod validates a period name. An empty name means PeriodDay.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", PeriodDay:
		return PeriodDay, nil
	case PeriodMonth:
		return PeriodMonth, nil
	default:
		return "", fmt.Errorf("period must be %q or %q, got %q: %w", PeriodDay, PeriodMonth, s, domain.ErrInvalidRequest)
	}
}

// Bounds returns the UTC window of the period containing t.
func (p Period) Bounds(t time.Time) (start, end time.Time) {
	t = t.UTC()
	if p == PeriodMonth {
		start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0)
	}
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// Counters are the raw token counters of one provider.
type Counters struct {
	Provider     string
	DailyUsed    int64
	DailyLimit   int64
	MonthlyUsed  int64
	MonthlyLimit int64
}

// Report is the embedding token usage for one period.
type Report struct {
	period      Period
	periodStart time.Time
	periodEnd   time.Time
	provider    string
	used        int64
	limit       int64
}

// NewReport creates a usage report. limit 0 means unlimited.
func NewReport(period Period, start, end time.Time, provider string, used, limit int64) Report {
	return Report{
		period:      period,
		periodStart: start,
		periodEnd:   end,
		provider:    provider,
		used:        used,
		limit:       limit,
	}
}

// Period returns the aggregation granularity.
func (r Report) Period() Period { return r.period }

// PeriodStart returns the start of the window.
func (r Report) PeriodStart() time.Time { return r.periodStart }

// PeriodEnd returns the end of the window, which is also when the budget resets.
func (r Report) PeriodEnd() time.Time { return r.periodEnd }

// Provider returns the embedding provider name.
func (r Report) Provider() string { return r.provider }

// TokensUsed returns tokens consumed in the period.
func (r Report) TokensUsed() int64 { return r.used }

// TokensLimit returns the token cap (0 = unlimited).
func (r Report) TokensLimit() int64 { return r.limit }

// TokensRemaining returns tokens left, or -1 when unlimited.
func (r Report) TokensRemaining() int64 {
	if r.limit == 0 {
		return -1
	}
	if r.used >= r.limit {
		return 0
	}
	return r.limit - r.used
}

// IsExhausted reports whether the budget is spent.
func (r Report) IsExhausted() bool { return r.limit > 0 && r.used >= r.limit }
