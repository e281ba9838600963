package usage

import "github.com/kailas-cloud/resumerank/internal/usecase/embedding"

// BudgetReader provides read-only access to token budget state.
type BudgetReader interface {
	Snapshot() embedding.BudgetSnapshot
}
