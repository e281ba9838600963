package health

import (
	"context"
	"sync"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates that runs still work but an auxiliary component fails.
	Degraded Status = "degraded"
	// Unhealthy indicates that ranking runs cannot succeed.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckOpen indicates a tripped circuit breaker.
	CheckOpen CheckResult = "open"
)

// DefaultTimeout bounds each component check.
const DefaultTimeout = 3 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db        DBPinger
	embedding EmbeddingChecker
	circuit   CircuitReporter
	timeout   time.Duration
}

// New creates a Service. Both db (in-memory mode) and embedding can be nil.
func New(db DBPinger, embedding EmbeddingChecker) *Service {
	return &Service{db: db, embedding: embedding, timeout: DefaultTimeout}
}

// WithCircuit adds the embedding circuit breaker state to the report.
func (s *Service) WithCircuit(c CircuitReporter) *Service {
	s.circuit = c
	return s
}

// WithTimeout overrides the per-check timeout.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check runs the component checks concurrently. The database is auxiliary
// (run persistence and caching), the embedding provider is required.
func (s *Service) Check(ctx context.Context) Report {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		checks = make(map[string]CheckResult)
	)
	probe := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			res := CheckOK
			if err := fn(cctx); err != nil {
				res = CheckError
			}
			mu.Lock()
			checks[name] = res
			mu.Unlock()
		}()
	}

	if s.db != nil {
		probe("database", s.db.Ping)
	}
	if s.embedding != nil {
		probe("embedding", s.embedding.HealthCheck)
	}
	wg.Wait()

	if s.circuit != nil {
		if s.circuit.IsCircuitOpen() {
			checks["embedding_circuit"] = CheckOpen
		} else {
			checks["embedding_circuit"] = CheckOK
		}
	}

	status := Healthy
	for name, v := range checks {
		if v == CheckOK {
			continue
		}
		if name == "embedding" {
			status = Unhealthy
			break
		}
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
