package physics

import (
	"fmt"
	"time"

	"github.com/annel0/tileworld/internal/logging"
	"github.com/sirupsen/logrus"
)

// World владеет набором активных тел и необязательной картой коллизий.
// Порядок добавления тел определяет порядок интегрирования и парных проверок.
//
// Парная проверка - O(n²) без пространственного разбиения: уровень содержит
// десятки тел, не тысячи.
type World struct {
	bodies  []*Body
	tileMap *TileMap
	metrics *Metrics
	logger  *logging.Logger

	stepping       bool
	pendingRemoval int
}

// Option настраивает World
type Option func(*World)

// WithMetrics подключает Prometheus-метрики
func WithMetrics(m *Metrics) Option {
	return func(w *World) { w.metrics = m }
}

// WithLogger задаёт логгер
func WithLogger(l *logging.Logger) Option {
	return func(w *World) { w.logger = l }
}

// NewWorld создаёт пустой физический мир
func NewWorld(opts ...Option) *World {
	w := &World{}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logging.GetComponentLogger("physics")
	}
	return w
}

// SetMap задаёт карту коллизий
func (w *World) SetMap(m *TileMap) {
	w.tileMap = m
}

// Map возвращает карту коллизий (может быть nil)
func (w *World) Map() *TileMap {
	return w.tileMap
}

// AddBody регистрирует тело в конце списка
func (w *World) AddBody(body *Body) error {
	if body.world != nil {
		return fmt.Errorf("%w: already in a world", ErrBodyAlreadyRegistered)
	}
	if body.removed {
		// тело ещё лежит в списке мира, из которого удалено во время шага
		return fmt.Errorf("%w: removal is pending", ErrBodyAlreadyRegistered)
	}
	body.world = w
	w.bodies = append(w.bodies, body)
	return nil
}

// RemoveBody удаляет тело. Удаление незарегистрированного тела - ошибка вызывающего кода.
// Во время Update тело только помечается и пропускается до конца шага.
func (w *World) RemoveBody(body *Body) error {
	if body == nil || body.world != w || body.removed {
		return ErrBodyNotRegistered
	}

	if w.stepping {
		body.removed = true
		body.world = nil
		w.pendingRemoval++
		return nil
	}

	for i, b := range w.bodies {
		if b == body {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			body.world = nil
			return nil
		}
	}
	return ErrBodyNotRegistered
}

// Contains сообщает, зарегистрировано ли тело
func (w *World) Contains(body *Body) bool {
	return body != nil && body.world == w && !body.removed
}

// Bodies возвращает копию списка активных тел в порядке добавления
func (w *World) Bodies() []*Body {
	result := make([]*Body, 0, len(w.bodies))
	for _, b := range w.bodies {
		if !b.removed {
			result = append(result, b)
		}
	}
	return result
}

// Len возвращает количество активных тел
func (w *World) Len() int {
	return len(w.bodies) - w.pendingRemoval
}

// Update продвигает все тела на deltaMs миллисекунд.
// Для каждого тела: интегрирование, затем проверки в порядке приоритета
// (карта, границы мира, другие тела). Первая сработавшая проверка откатывает
// перемещение целиком, не более одной коррекции за кадр. Подписчики границ и
// парных столкновений узнают о контакте до отката.
func (w *World) Update(deltaMs float64) {
	started := time.Now()
	w.stepping = true

	for i := 0; i < len(w.bodies); i++ {
		body := w.bodies[i]
		if body.removed {
			continue
		}

		body.ComputeNewPosition(deltaMs)

		if kind := w.detect(body); kind != CollisionNone {
			body.Rollback()
			w.metrics.observeCollision(kind)
		}
	}

	w.stepping = false
	if w.pendingRemoval > 0 {
		w.compact()
	}
	w.metrics.observeStep(started, len(w.bodies))
}

// detect возвращает причину столкновения и уведомляет подписчиков
func (w *World) detect(body *Body) CollisionKind {
	if w.collideWithMap(body) {
		w.trace(body, CollisionMap)
		return CollisionMap
	}

	if body.isOutOfBounds() {
		w.trace(body, CollisionBounds)
		body.notifyBounds()
		return CollisionBounds
	}

	if other := w.firstOverlap(body); other != nil {
		w.trace(body, CollisionBody)
		body.notifyCollision(other)
		other.notifyCollision(body)
		return CollisionBody
	}

	return CollisionNone
}

func (w *World) collideWithMap(body *Body) bool {
	if w.tileMap == nil {
		return false
	}
	return w.tileMap.IsBodyInCollision(body)
}

// firstOverlap ищет первое (в порядке добавления) тело, пересекающееся с body
func (w *World) firstOverlap(body *Body) *Body {
	for _, other := range w.bodies {
		if other == body || other.removed {
			continue
		}
		if body.Intersects(other.Rectangle) {
			return other
		}
	}
	return nil
}

func (w *World) compact() {
	alive := w.bodies[:0]
	for _, b := range w.bodies {
		if b.removed {
			b.removed = false
			continue
		}
		alive = append(alive, b)
	}
	for i := len(alive); i < len(w.bodies); i++ {
		w.bodies[i] = nil
	}
	w.bodies = alive
	w.pendingRemoval = 0
}

func (w *World) trace(body *Body, kind CollisionKind) {
	if !w.logger.IsDebug() {
		return
	}
	w.logger.WithFields(logrus.Fields{
		"kind": string(kind),
		"x":    body.Position.X,
		"y":    body.Position.Y,
	}).Debug("collision, rollback")
}
