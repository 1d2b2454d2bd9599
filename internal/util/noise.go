package util

import (
	"github.com/aquilax/go-perlin"
)

// Noise — детерминированный источник шума Перлина для генерации миров.
type Noise struct {
	p *perlin.Perlin
}

// NewNoise создаёт генератор шума с указанным сидом
func NewNoise(seed int64) *Noise {
	alpha := 2.0  // Сглаживание шума
	beta := 2.0   // Частота шума
	n := int32(3) // Количество октав
	return &Noise{p: perlin.NewPerlin(alpha, beta, n, seed)}
}

// Value2D возвращает значение шума для указанных координат,
// нормализованное в диапазон от 0 до 1.
func (n *Noise) Value2D(x, y float64) float64 {
	// Noise2D возвращает значение от -1 до 1
	return (n.p.Noise2D(x, y) + 1.0) / 2.0
}
