// Package sprite описывает границу с системой анимации и рендером.
// Ядро только выбирает, какую анимацию играть, и сообщает позицию; отрисовка снаружи.
package sprite

import (
	"github.com/annel0/tileworld/internal/vec"
)

// Имена анимаций ходьбы (направление в нижнем регистре)
const (
	AnimUp    = "up"
	AnimDown  = "down"
	AnimLeft  = "left"
	AnimRight = "right"
)

// Animation - проигрываемая анимация спрайта
type Animation interface {
	Play()
	Stop()
	IsPlaying() bool
}

// Sprite - анимированный спрайт, принадлежащий внешнему рендеру
type Sprite interface {
	// GetAnimation возвращает анимацию по имени или nil, если её нет
	GetAnimation(name string) Animation
	SetPosition(p vec.Vec2Float)
	SetVisible(visible bool)
}

// Factory создаёт спрайт по имени текстуры
type Factory interface {
	NewSprite(textureName string) (Sprite, error)
}

// FactoryFunc адаптирует функцию к Factory
type FactoryFunc func(textureName string) (Sprite, error)

// NewSprite вызывает f
func (f FactoryFunc) NewSprite(textureName string) (Sprite, error) {
	return f(textureName)
}
