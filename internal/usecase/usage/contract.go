package usage

import domusage "github.com/kailas-cloud/resumatch/internal/domain/usage"

// BudgetReader provides read-only access to token budget state.
type BudgetReader interface {
	Snapshot() domusage.Counters
}
