package metrics

import "github.com/prometheus/client_golang/prometheus"

// OrderMetrics counts order submissions.
type OrderMetrics struct {
	created *prometheus.CounterVec
}

// NewOrderMetrics registers the order counters on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders created, labelled by whether a discount code was applied.",
	}, []string{"discounted"})
	reg.MustRegister(created)
	return &OrderMetrics{created: created}
}

// IncCreated counts one submitted order.
func (m *OrderMetrics) IncCreated(discounted bool) {
	if m == nil || m.created == nil {
		return
	}
	label := "no"
	if discounted {
		label = "yes"
	}
	m.created.WithLabelValues(label).Inc()
}
