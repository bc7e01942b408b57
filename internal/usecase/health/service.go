package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates scoring works but a limit is close or reached.
	Degraded Status = "degraded"
	// Unhealthy indicates scoring cannot succeed.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckExhausted indicates a spent token budget.
	CheckExhausted CheckResult = "exhausted"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks. Every score needs the encoder, so an
// encoder failure makes the service unhealthy rather than degraded.
type Service struct {
	encoder EncoderChecker
	budget  BudgetReader
}

// New creates a Service. budget can be nil.
func New(encoder EncoderChecker, budget BudgetReader) *Service {
	return &Service{encoder: encoder, budget: budget}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if s.encoder == nil || s.encoder.HealthCheck(ctx) != nil {
		checks["encoder"] = CheckError
		status = Unhealthy
	} else {
		checks["encoder"] = CheckOK
	}

	if s.budget != nil {
		if s.budget.RemainingDaily() == 0 || s.budget.RemainingMonthly() == 0 {
			checks["budget"] = CheckExhausted
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks["budget"] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
