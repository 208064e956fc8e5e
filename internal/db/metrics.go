package db

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics tracks registry activity. A nil *metrics is a no-op so stores
// built without WithMetrics pay nothing.
type metrics struct {
	operations *prometheus.CounterVec
	elements   prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vocabdb",
			Subsystem: "index",
			Name:      "operations_total",
			Help:      "Registry operations by operation and result code.",
		}, []string{"op", "result"}),
		elements: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vocabdb",
			Subsystem: "index",
			Name:      "elements",
			Help:      "Number of elements currently registered.",
		}),
	}
	for _, c := range []prometheus.Collector{m.operations, m.elements} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *metrics) observe(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = string(CodeOf(err))
		if result == "" {
			result = "error"
		}
	}
	m.operations.WithLabelValues(op, result).Inc()
}

func (m *metrics) setElements(n int) {
	if m == nil {
		return
	}
	m.elements.Set(float64(n))
}
