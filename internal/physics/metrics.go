package physics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CollisionKind - причина отката позиции тела
type CollisionKind string

const (
	CollisionNone   CollisionKind = ""
	CollisionMap    CollisionKind = "map"
	CollisionBounds CollisionKind = "bounds"
	CollisionBody   CollisionKind = "body"
)

// Metrics инкапсулирует Prometheus-метрики физического мира.
// Nil-значение допустимо: все методы становятся no-op.
type Metrics struct {
	steps        prometheus.Counter
	collisions   *prometheus.CounterVec
	rollbacks    prometheus.Counter
	bodies       prometheus.Gauge
	stepDuration prometheus.Histogram
}

// NewMetrics создаёт метрики и регистрирует их в reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tileworld",
			Subsystem: "physics",
			Name:      "steps_total",
			Help:      "Количество шагов физического мира.",
		}),
		collisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tileworld",
			Subsystem: "physics",
			Name:      "collisions_total",
			Help:      "Обнаруженные столкновения по причине (map, bounds, body).",
		}, []string{"kind"}),
		rollbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tileworld",
			Subsystem: "physics",
			Name:      "rollbacks_total",
			Help:      "Откаты позиции тел.",
		}),
		bodies: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tileworld",
			Subsystem: "physics",
			Name:      "bodies",
			Help:      "Количество активных тел.",
		}),
		stepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tileworld",
			Subsystem: "physics",
			Name:      "step_duration_seconds",
			Help:      "Длительность одного шага физики.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
	}

	if reg != nil {
		reg.MustRegister(m.steps, m.collisions, m.rollbacks, m.bodies, m.stepDuration)
	}
	return m
}

func (m *Metrics) observeCollision(kind CollisionKind) {
	if m == nil {
		return
	}
	m.collisions.WithLabelValues(string(kind)).Inc()
	m.rollbacks.Inc()
}

func (m *Metrics) observeStep(started time.Time, bodies int) {
	if m == nil {
		return
	}
	m.steps.Inc()
	m.bodies.Set(float64(bodies))
	m.stepDuration.Observe(time.Since(started).Seconds())
}
