// Package clock предоставляет источник игрового времени в миллисекундах.
// Поведения NPC читают время только через Clock, поэтому симуляция детерминирована.
package clock

import "time"

// Clock возвращает текущее время в миллисекундах
type Clock interface {
	NowMs() float64
}

// Sim - игровые часы, которые двигаются только вызовом Advance (один раз за тик)
type Sim struct {
	now float64
}

// NewSim создает игровые часы, начиная с указанного момента
func NewSim(startMs float64) *Sim {
	return &Sim{now: startMs}
}

// NowMs возвращает текущее игровое время
func (s *Sim) NowMs() float64 {
	return s.now
}

// Advance сдвигает часы на deltaMs
func (s *Sim) Advance(deltaMs float64) {
	if deltaMs > 0 {
		s.now += deltaMs
	}
}

// Real - часы реального времени, отсчитываемые от момента создания
type Real struct {
	start time.Time
}

// NewReal создает часы реального времени
func NewReal() *Real {
	return &Real{start: time.Now()}
}

// NowMs возвращает миллисекунды с момента создания
func (r *Real) NowMs() float64 {
	return float64(time.Since(r.start)) / float64(time.Millisecond)
}
