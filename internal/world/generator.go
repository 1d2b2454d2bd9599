package world

import (
	"github.com/annel0/grid-sandbox/internal/logging"
	"github.com/annel0/grid-sandbox/internal/util"
)

// Generator засеивает мир стенами по шуму Перлина, чтобы песочница
// стартовала с нетривиальным ландшафтом. Детерминирован по сиду.
type Generator struct {
	Seed       int64   // Сид для генерации шума
	NoiseScale float64 // Масштаб шума (сглаженность ландшафта)
	Threshold  float64 // Порог шума, выше которого ставится стена

	noise *util.Noise
}

// NewGenerator создаёт генератор мира с настройками по умолчанию
func NewGenerator(seed int64) *Generator {
	return &Generator{
		Seed:       seed,
		NoiseScale: 0.1,  // Настройка сглаженности ландшафта
		Threshold:  0.65, // ~треть ячеек становится стенами
		noise:      util.NewNoise(seed),
	}
}

// Generate создаёт сетку указанной формы и заполняет её стенами
// там, где значение шума превышает порог. Шум берётся по двум
// самым быстрым осям хранения; в мирах размерности выше двух стены
// вытягиваются вдоль остальных осей.
func (wg *Generator) Generate(shape []int) (*Grid, error) {
	g, err := NewGrid(shape)
	if err != nil {
		return nil, err
	}

	d := g.Dimension()
	cur := make([]int, d)
	for off := range g.cells {
		x := float64(cur[d-1]) * wg.NoiseScale
		y := 0.0
		if d > 1 {
			y = float64(cur[d-2]) * wg.NoiseScale
		}
		if wg.noise.Value2D(x, y) > wg.Threshold {
			g.cells[off] = MaterialWall
		}

		// Следующая точка в row-major порядке
		for axis := d - 1; axis >= 0; axis-- {
			cur[axis]++
			if cur[axis] < g.shape[axis] {
				break
			}
			cur[axis] = 0
		}
	}

	logging.Debug("Сгенерирован мир %v, сид %d", shape, wg.Seed)
	return g, nil
}
