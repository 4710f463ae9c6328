package physics

import (
	"github.com/annel0/tileworld/internal/vec"
)

// CollisionHandler вызывается при пересечении с другим телом
type CollisionHandler func(other *Body)

// BoundsHandler вызывается, когда тело пытается выйти за свои границы мира
type BoundsHandler func()

// Body - подвижный прямоугольник физического мира
type Body struct {
	Rectangle

	// Velocity - скорость в пикселях в секунду, выставляется поведением или контроллером игрока
	Velocity vec.Vec2Float

	previousPosition  vec.Vec2Float
	worldBounds       *Rectangle
	collisionHandlers []CollisionHandler
	boundsHandlers    []BoundsHandler

	// owner - невладеющая ссылка на игровой объект, используется только для диспетчеризации
	owner interface{}

	world   *World
	removed bool
}

// NewBody создаёт тело с указанной позицией и размером
func NewBody(x, y, width, height float64) *Body {
	b := &Body{Rectangle: NewRectangle(x, y, width, height)}
	b.previousPosition = b.Position
	return b
}

// GetPosition возвращает текущую позицию (для рендера)
func (b *Body) GetPosition() vec.Vec2Float {
	return b.Position
}

// SetPosition телепортирует тело; предыдущая позиция тоже сбрасывается
func (b *Body) SetPosition(p vec.Vec2Float) {
	b.Position = p
	b.previousPosition = p
}

// PreviousPosition возвращает позицию до последнего интегрирования
func (b *Body) PreviousPosition() vec.Vec2Float {
	return b.previousPosition
}

// ComputeNewPosition сохраняет текущую позицию и интегрирует скорость за deltaMs миллисекунд
func (b *Body) ComputeNewPosition(deltaMs float64) {
	b.previousPosition = b.Position
	b.Position.X += b.Velocity.X * deltaMs / 1000
	b.Position.Y += b.Velocity.Y * deltaMs / 1000
}

// Rollback отменяет перемещение за кадр. Скорость не меняется.
func (b *Body) Rollback() {
	b.Position = b.previousPosition
}

// SetWorldBounds ограничивает тело прямоугольником
func (b *Body) SetWorldBounds(bounds Rectangle) {
	r := bounds
	b.worldBounds = &r
}

// ClearWorldBounds снимает ограничение
func (b *Body) ClearWorldBounds() {
	b.worldBounds = nil
}

// WorldBounds возвращает границы тела, если они заданы
func (b *Body) WorldBounds() (Rectangle, bool) {
	if b.worldBounds == nil {
		return Rectangle{}, false
	}
	return *b.worldBounds, true
}

// OnCollide подписывает обработчик на пересечения с другими телами
func (b *Body) OnCollide(h CollisionHandler) {
	b.collisionHandlers = append(b.collisionHandlers, h)
}

// OnCollideWithBounds подписывает обработчик на выход за границы
func (b *Body) OnCollideWithBounds(h BoundsHandler) {
	b.boundsHandlers = append(b.boundsHandlers, h)
}

// SetOwner устанавливает игровой объект-владельца
func (b *Body) SetOwner(owner interface{}) {
	b.owner = owner
}

// Owner возвращает игровой объект-владельца (может быть nil)
func (b *Body) Owner() interface{} {
	return b.owner
}

// World возвращает мир, в котором зарегистрировано тело
func (b *Body) World() *World {
	return b.world
}

func (b *Body) isOutOfBounds() bool {
	return b.worldBounds != nil && !b.Rectangle.IsContainedExactlyIn(*b.worldBounds)
}

func (b *Body) notifyCollision(other *Body) {
	for _, h := range b.collisionHandlers {
		h(other)
	}
}

func (b *Body) notifyBounds() {
	for _, h := range b.boundsHandlers {
		h()
	}
}
