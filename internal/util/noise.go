package util

import (
	"github.com/aquilax/go-perlin"
)

// Noise - генератор шума Перлина с фиксированным сидом
type Noise struct {
	perlin *perlin.Perlin
	scale  float64
}

// NewNoise создаёт генератор. scale - во сколько раз растягиваются координаты.
func NewNoise(seed int64, scale float64) *Noise {
	alpha := 2.0  // Сглаживание шума
	beta := 2.0   // Частота шума
	n := int32(3) // Количество октав
	if scale <= 0 {
		scale = 1
	}
	return &Noise{perlin: perlin.NewPerlin(alpha, beta, n, seed), scale: scale}
}

// Value2D возвращает значение шума для координат (от 0 до 1)
func (n *Noise) Value2D(x, y float64) float64 {
	// Получаем значение шума (от -1 до 1)
	v := n.perlin.Noise2D(x/n.scale, y/n.scale)

	// Преобразуем в диапазон от 0 до 1 и обрезаем выбросы
	v = (v + 1.0) / 2.0
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
