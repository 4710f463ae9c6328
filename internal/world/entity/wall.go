package entity

import (
	"fmt"

	"github.com/annel0/tileworld/internal/level"
	"github.com/annel0/tileworld/internal/physics"
)

// Wall - статическое тело из слоя стен
type Wall struct {
	Base
}

// NewWall создаёт стену и регистрирует её тело
func NewWall(index int, w level.Wall, env *Env) (*Wall, error) {
	env = env.withDefaults()
	r := w.Rect()
	body := physics.NewBody(r.Position.X, r.Position.Y, r.Size.X, r.Size.Y)

	wall := &Wall{Base: newBase(EntityTypeWall, fmt.Sprintf("wall-%d", index), body, nil, env)}
	if err := wall.attach(wall); err != nil {
		return nil, err
	}
	return wall, nil
}

// Update: стена неподвижна
func (w *Wall) Update(deltaMs float64) {
	w.body.Velocity.Set(0, 0)
}
