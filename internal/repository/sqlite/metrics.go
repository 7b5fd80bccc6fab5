package sqlite

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for statements issued through a Handle.
type Metrics struct {
	Statements *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// NewMetrics creates statement metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Statements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gigbook",
				Subsystem: "store",
				Name:      "statements_total",
				Help:      "Total number of SQL statements executed",
			},
			[]string{"table", "op", "status"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "gigbook",
				Subsystem: "store",
				Name:      "statement_duration_seconds",
				Help:      "SQL statement latency",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"table", "op"},
		),
	}

	for _, c := range []prometheus.Collector{m.Statements, m.Duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(table, op string, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.Statements.WithLabelValues(table, op, status).Inc()
	m.Duration.WithLabelValues(table, op).Observe(elapsed.Seconds())
}
