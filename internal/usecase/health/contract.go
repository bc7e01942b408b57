package health

import "context"

// EncoderChecker checks sentence encoder availability.
type EncoderChecker interface {
	HealthCheck(ctx context.Context) error
}

// BudgetReader reports remaining embedding tokens (-1 = unlimited).
type BudgetReader interface {
	RemainingDaily() int64
	RemainingMonthly() int64
}
