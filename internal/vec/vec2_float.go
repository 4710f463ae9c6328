package vec

import "math"

// Vec2Float представляет 2D точку/вектор с плавающей точкой (пиксели, пиксели/сек)
type Vec2Float struct {
	X, Y float64
}

// NewVec2Float создает вектор из компонент
func NewVec2Float(x, y float64) Vec2Float {
	return Vec2Float{X: x, Y: y}
}

// Add складывает два вектора
func (v Vec2Float) Add(other Vec2Float) Vec2Float {
	return Vec2Float{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub вычитает вектор
func (v Vec2Float) Sub(other Vec2Float) Vec2Float {
	return Vec2Float{X: v.X - other.X, Y: v.Y - other.Y}
}

// Mul умножает вектор на скаляр
func (v Vec2Float) Mul(scalar float64) Vec2Float {
	return Vec2Float{X: v.X * scalar, Y: v.Y * scalar}
}

// Set изменяет вектор на месте.
// Физика обновляет позиции каждый кадр, поэтому мутирует значения напрямую.
func (v *Vec2Float) Set(x, y float64) {
	v.X = x
	v.Y = y
}

// CopyFrom копирует компоненты другого вектора
func (v *Vec2Float) CopyFrom(other Vec2Float) {
	v.X = other.X
	v.Y = other.Y
}

// IsZero проверяет, является ли вектор нулевым
func (v Vec2Float) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Length возвращает длину вектора
func (v Vec2Float) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Dot возвращает скалярное произведение
func (v Vec2Float) Dot(other Vec2Float) float64 {
	return v.X*other.X + v.Y*other.Y
}

// DistanceTo вычисляет расстояние до другой точки
func (v Vec2Float) DistanceTo(other Vec2Float) float64 {
	return math.Sqrt(v.SquaredDistanceTo(other))
}

// SquaredDistanceTo вычисляет квадрат расстояния (без корня, для сравнений)
func (v Vec2Float) SquaredDistanceTo(other Vec2Float) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	return dx*dx + dy*dy
}

// Floor возвращает целочисленные координаты ячейки сетки с размером ячейки cellW x cellH
func (v Vec2Float) Floor(cellW, cellH float64) Vec2 {
	return Vec2{X: int(math.Floor(v.X / cellW)), Y: int(math.Floor(v.Y / cellH))}
}
