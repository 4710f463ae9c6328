package vec

// Vec2 представляет целочисленные координаты (индекс тайла)
type Vec2 struct {
	X, Y int
}

// ToFloat преобразует индекс в вектор с плавающей точкой
func (v Vec2) ToFloat() Vec2Float {
	return Vec2Float{X: float64(v.X), Y: float64(v.Y)}
}

// InGrid проверяет, попадает ли индекс в сетку width x height
func (v Vec2) InGrid(width, height int) bool {
	return v.X >= 0 && v.Y >= 0 && v.X < width && v.Y < height
}
