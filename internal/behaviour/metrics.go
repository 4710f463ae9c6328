package behaviour

import "github.com/prometheus/client_golang/prometheus"

// Metrics - счётчики поведений NPC. Nil-значение допустимо.
type Metrics struct {
	interactions     *prometheus.CounterVec
	directionChanges *prometheus.CounterVec
}

// NewMetrics создаёт метрики поведений и регистрирует их в reg (если reg не nil)
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		interactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tileworld",
			Subsystem: "behaviour",
			Name:      "interactions_total",
			Help:      "Начатые взаимодействия NPC с игроком.",
		}, []string{"behaviour"}),
		directionChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tileworld",
			Subsystem: "behaviour",
			Name:      "direction_changes_total",
			Help:      "Смены направления движения NPC.",
		}, []string{"behaviour"}),
	}
	if reg != nil {
		reg.MustRegister(m.interactions, m.directionChanges)
	}
	return m
}

func (m *Metrics) observeInteraction(kind Kind) {
	if m == nil {
		return
	}
	m.interactions.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) observeDirectionChange(kind Kind) {
	if m == nil {
		return
	}
	m.directionChanges.WithLabelValues(string(kind)).Inc()
}
