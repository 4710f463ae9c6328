package physics

import (
	"github.com/annel0/tileworld/internal/vec"
)

// Rectangle представляет AABB: левый верхний угол Position и размер Size (Size.X, Size.Y >= 0)
type Rectangle struct {
	Position vec.Vec2Float
	Size     vec.Vec2Float
}

// NewRectangle создаёт прямоугольник по координатам и размерам
func NewRectangle(x, y, width, height float64) Rectangle {
	return Rectangle{
		Position: vec.Vec2Float{X: x, Y: y},
		Size:     vec.Vec2Float{X: width, Y: height},
	}
}

// Left, Top, Right, Bottom возвращают границы прямоугольника
func (r Rectangle) Left() float64   { return r.Position.X }
func (r Rectangle) Top() float64    { return r.Position.Y }
func (r Rectangle) Right() float64  { return r.Position.X + r.Size.X }
func (r Rectangle) Bottom() float64 { return r.Position.Y + r.Size.Y }

// Center возвращает центр прямоугольника
func (r Rectangle) Center() vec.Vec2Float {
	return r.Position.Add(r.Size.Mul(0.5))
}

// Bounds возвращает сам прямоугольник (удобно для типов, встраивающих Rectangle)
func (r Rectangle) Bounds() Rectangle {
	return r
}

// Intersects проверяет пересечение открытых интервалов по обеим осям.
// Касание рёбрами пересечением не считается.
func (r Rectangle) Intersects(other Rectangle) bool {
	return r.Position.X+r.Size.X > other.Position.X &&
		r.Position.X < other.Position.X+other.Size.X &&
		r.Position.Y+r.Size.Y > other.Position.Y &&
		r.Position.Y < other.Position.Y+other.Size.Y
}

// IsContainedExactlyIn проверяет, что прямоугольник целиком лежит внутри other (границы включительно)
func (r Rectangle) IsContainedExactlyIn(other Rectangle) bool {
	return r.Position.X >= other.Position.X &&
		r.Position.Y >= other.Position.Y &&
		r.Position.X+r.Size.X <= other.Position.X+other.Size.X &&
		r.Position.Y+r.Size.Y <= other.Position.Y+other.Size.Y
}

// ContainsPoint проверяет, находится ли точка внутри прямоугольника (правая и нижняя границы исключены)
func (r Rectangle) ContainsPoint(p vec.Vec2Float) bool {
	return p.X >= r.Position.X &&
		p.X < r.Position.X+r.Size.X &&
		p.Y >= r.Position.Y &&
		p.Y < r.Position.Y+r.Size.Y
}
