package resumerank

import (
	"context"

	healthuc "github.com/kailas-cloud/resumerank/internal/usecase/health"
)

// HealthStatus is the aggregated health of the client.
type HealthStatus string

const (
	// HealthOK means every component responds.
	HealthOK HealthStatus = HealthStatus(healthuc.Healthy)
	// HealthDegraded means runs work but the store does not respond.
	HealthDegraded HealthStatus = HealthStatus(healthuc.Degraded)
	// HealthError means the embedder does not respond.
	HealthError HealthStatus = HealthStatus(healthuc.Unhealthy)
)

// HealthReport lists the status of each component.
type HealthReport struct {
	Status HealthStatus
	Checks map[string]string
}

// Health probes the store and the embedder concurrently.
func (c *Client) Health(ctx context.Context) HealthReport {
	rep := c.health.Check(ctx)
	checks := make(map[string]string, len(rep.Checks))
	for k, v := range rep.Checks {
		checks[k] = string(v)
	}
	return HealthReport{Status: HealthStatus(rep.Status), Checks: checks}
}
