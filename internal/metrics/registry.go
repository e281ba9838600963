package metrics

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// Collectors returns every collector of the service.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		EmbeddingRequestsTotal,
		EmbeddingRequestDuration,
		EmbeddingTokensTotal,
		EmbeddingErrorsTotal,
		EmbeddingBudgetTokensRemaining,
		EmbeddingCacheTotal,
		EmbeddingInvalidVectorsTotal,
		CircuitBreakerState,
		RankingRunsTotal,
		RankingRunDuration,
		RankingDocumentsTotal,
		IngestedDocumentsTotal,
		ExportsTotal,
		httpRequestDuration,
		httpRequestsTotal,
		httpInFlight,
	}
}

// Register adds all collectors to the default registry. Later calls return the first result.
func Register() error {
	registerOnce.Do(func() {
		registerErr = RegisterTo(prometheus.DefaultRegisterer)
	})
	return registerErr
}

// RegisterTo adds all collectors to reg.
func RegisterTo(reg prometheus.Registerer) error {
	for _, c := range Collectors() {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("register collector: %w", err)
		}
	}
	return nil
}
