package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StatusUp   = "up"
	StatusDown = "down"

	depPostgres = "postgres"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type CheckResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type HealthResult struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks,omitempty"`
}

// HTTPStatus maps the overall status onto a probe response code.
func (r HealthResult) HTTPStatus() int {
	if r.Status == StatusUp {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}

type Checker struct {
	db      Pinger
	timeout time.Duration
	logger  *slog.Logger
	gauge   *prometheus.GaugeVec
}

// NewChecker creates a health checker and registers its Prometheus gauge.
func NewChecker(db Pinger, logger *slog.Logger, reg prometheus.Registerer) *Checker {
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "personen",
		Name:      "health_check_up",
		Help:      "Whether a dependency is reachable. 1 = up, 0 = down.",
	}, []string{"dependency"})
	reg.MustRegister(gauge)

	return &Checker{
		db:      db,
		timeout: 2 * time.Second,
		logger:  logger.With("component", "health"),
		gauge:   gauge,
	}
}

// Liveness reports "up" as long as the process can serve requests.
func (c *Checker) Liveness(_ context.Context) HealthResult {
	return HealthResult{Status: StatusUp}
}

// Readiness pings the database; the service is not ready without it.
func (c *Checker) Readiness(ctx context.Context) HealthResult {
	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result := HealthResult{
		Status: StatusUp,
		Checks: make(map[string]CheckResult, 1),
	}

	if err := c.db.Ping(checkCtx); err != nil {
		c.logger.WarnContext(ctx, "postgres health check failed", "error", err)
		result.Status = StatusDown
		result.Checks[depPostgres] = CheckResult{Status: StatusDown, Error: err.Error()}
		c.gauge.WithLabelValues(depPostgres).Set(0)
		return result
	}

	result.Checks[depPostgres] = CheckResult{Status: StatusUp}
	c.gauge.WithLabelValues(depPostgres).Set(1)
	return result
}
