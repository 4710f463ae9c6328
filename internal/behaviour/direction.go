package behaviour

import (
	"fmt"
	"math"

	"github.com/annel0/tileworld/internal/sprite"
	"github.com/annel0/tileworld/internal/vec"
)

// Direction - одно из четырёх направлений ходьбы
type Direction int

const (
	DirectionNone Direction = iota
	DirectionUp
	DirectionDown
	DirectionLeft
	DirectionRight
)

// Directions - все направления ходьбы в порядке выбора
var Directions = []Direction{DirectionUp, DirectionDown, DirectionLeft, DirectionRight}

// String возвращает имя направления, оно же имя анимации
func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return sprite.AnimUp
	case DirectionDown:
		return sprite.AnimDown
	case DirectionLeft:
		return sprite.AnimLeft
	case DirectionRight:
		return sprite.AnimRight
	default:
		return "none"
	}
}

// Vector возвращает вектор направления длины length (ось Y направлена вниз)
func (d Direction) Vector(length float64) vec.Vec2Float {
	switch d {
	case DirectionUp:
		return vec.Vec2Float{X: 0, Y: -length}
	case DirectionDown:
		return vec.Vec2Float{X: 0, Y: length}
	case DirectionLeft:
		return vec.Vec2Float{X: -length, Y: 0}
	case DirectionRight:
		return vec.Vec2Float{X: length, Y: 0}
	default:
		return vec.Vec2Float{}
	}
}

// ParseDirection разбирает имя направления
func ParseDirection(s string) (Direction, error) {
	for _, d := range Directions {
		if d.String() == s {
			return d, nil
		}
	}
	return DirectionNone, fmt.Errorf("unknown direction %q", s)
}

// dominantDirection выбирает направление по оси с большим смещением.
// Внутри мёртвой зоны (по половине размера тела на каждой оси) возвращает ok=false.
func dominantDirection(diff, deadZone vec.Vec2Float) (Direction, bool) {
	ax, ay := math.Abs(diff.X), math.Abs(diff.Y)
	if ax <= deadZone.X && ay <= deadZone.Y {
		return DirectionNone, false
	}
	if ax >= ay {
		if diff.X > 0 {
			return DirectionRight, true
		}
		return DirectionLeft, true
	}
	if diff.Y > 0 {
		return DirectionDown, true
	}
	return DirectionUp, true
}
