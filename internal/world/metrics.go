package world

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics - метрики игрового цикла. Nil-значение не допускается: создавайте через NewMetrics.
type Metrics struct {
	ticks        prometheus.Counter
	gameOvers    prometheus.Counter
	restarts     prometheus.Counter
	state        prometheus.Gauge
	playerLives  prometheus.Gauge
	entities     prometheus.Gauge
	tickDuration prometheus.Histogram
}

// NewMetrics создаёт метрики и регистрирует их в reg, если он задан
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tileworld",
			Subsystem: "world",
			Name:      "ticks_total",
			Help:      "Выполненные тики мира.",
		}),
		gameOvers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tileworld",
			Subsystem: "world",
			Name:      "game_overs_total",
			Help:      "Сколько раз игрок потерял все жизни.",
		}),
		restarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tileworld",
			Subsystem: "world",
			Name:      "restarts_total",
			Help:      "Перезапуски партии.",
		}),
		state: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tileworld",
			Subsystem: "world",
			Name:      "game_over",
			Help:      "1, если партия окончена.",
		}),
		playerLives: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tileworld",
			Subsystem: "world",
			Name:      "player_lives",
			Help:      "Текущие жизни игрока.",
		}),
		entities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tileworld",
			Subsystem: "world",
			Name:      "entities",
			Help:      "Активные объекты мира.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tileworld",
			Subsystem: "world",
			Name:      "tick_duration_seconds",
			Help:      "Длительность тика мира.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.ticks, m.gameOvers, m.restarts, m.state, m.playerLives, m.entities, m.tickDuration)
	}
	return m
}

func (m *Metrics) observeState(s State) {
	if s == StateGameOver {
		m.state.Set(1)
	} else {
		m.state.Set(0)
	}
}

func (m *Metrics) observeTick(started time.Time, w *World) {
	m.ticks.Inc()
	m.observeState(w.state)
	m.playerLives.Set(float64(w.player.Lives()))
	m.entities.Set(float64(w.entities.Len()))
	m.tickDuration.Observe(time.Since(started).Seconds())
}
