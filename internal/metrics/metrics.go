package metrics

import (
	"net/http"

	"github.com/ErlanBelekov/personen-api/internal/health"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "personen"

var (
	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})

	HTTPRequestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_flight",
		Help:      "Requests currently being served by the API.",
	})

	// Auth gate

	AuthFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Requests rejected by the auth gate, by reason.",
	}, []string{"reason"})

	// Domain

	ValidationFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "person_validation_failures_total",
		Help:      "Person bodies rejected by the schema validator.",
	})

	PersonMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "person_mutations_total",
		Help:      "Successful person writes, by operation.",
	}, []string{"op"})
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestDuration,
		HTTPRequestsTotal,
		HTTPRequestsInFlight,
		AuthFailuresTotal,
		ValidationFailuresTotal,
		PersonMutationsTotal,
	)
}

// RegisterPool exposes connection pool utilisation. The pool's MaxConns is
// the ceiling requests queue behind.
func RegisterPool(reg prometheus.Registerer, pool *pgxpool.Pool) {
	gauge := func(name, help string, f func(*pgxpool.Stat) float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db_pool",
			Name:      name,
			Help:      help,
		}, func() float64 { return f(pool.Stat()) })
	}

	reg.MustRegister(
		gauge("acquired_conns", "Connections currently checked out.", func(s *pgxpool.Stat) float64 {
			return float64(s.AcquiredConns())
		}),
		gauge("idle_conns", "Idle connections in the pool.", func(s *pgxpool.Stat) float64 {
			return float64(s.IdleConns())
		}),
		gauge("max_conns", "Connection ceiling.", func(s *pgxpool.Stat) float64 {
			return float64(s.MaxConns())
		}),
		gauge("empty_acquire_total", "Acquires that had to wait for a connection.", func(s *pgxpool.Stat) float64 {
			return float64(s.EmptyAcquireCount())
		}),
	)
}

// NewServer serves /metrics plus liveness and readiness probes on a port
// separate from the public API.
func NewServer(addr string, gatherer prometheus.Gatherer, checker *health.Checker) *http.Server {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, checker.Liveness(c.Request.Context()))
	})
	r.GET("/readyz", func(c *gin.Context) {
		res := checker.Readiness(c.Request.Context())
		c.JSON(res.HTTPStatus(), res)
	})

	return &http.Server{Addr: addr, Handler: r}
}
