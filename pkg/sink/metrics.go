package sink

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Delivery results recorded in metrics.
const (
	ResultOK         = "ok"
	ResultError      = "error"
	ResultSuppressed = "suppressed"
)

// Metrics holds the dispatcher Prometheus collectors.
type Metrics struct {
	deliveries *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg when it is
// not nil. Collectors already registered by an earlier call are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		deliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "errorkit",
				Subsystem: "sink",
				Name:      "deliveries_total",
				Help:      "Total number of report deliveries by sink and result",
			},
			[]string{"sink", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "errorkit",
				Subsystem: "sink",
				Name:      "delivery_duration_seconds",
				Help:      "Time spent delivering one report",
				Buckets:   []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"sink"},
		),
	}
	if reg == nil {
		return m, nil
	}

	var err error
	if m.deliveries, err = register(reg, m.deliveries); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) observe(sink, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.deliveries.WithLabelValues(sink, result).Inc()
	if result != ResultSuppressed {
		m.duration.WithLabelValues(sink).Observe(d.Seconds())
	}
}
