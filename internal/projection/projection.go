// Package projection сворачивает n-мерный мир в сетку меньшей
// размерности для отображения.
//
// Правило свёртки: выходная ячейка получает первый не-воздушный
// материал вдоль свёрнутых осей (в порядке возрастания линейного
// индекса), иначе воздух. Это даёт силуэт "есть ли стена где-то на
// линии взгляда" без настоящего объёмного рендеринга. Порядок
// выбора при нескольких разных не-воздушных материалах — упрощение,
// а не гарантия "ближайшего к наблюдателю".
package projection

import (
	"sort"

	"github.com/annel0/grid-sandbox/internal/world"
)

// Projector проецирует n-мерную сетку на подмножество её осей хранения.
// Набор осей дедуплицируется и сортируется по возрастанию при создании;
// единственное ограничение — количество осей не превышает размерность
// исходной сетки (проверяется при проекции, поэтому один Projector
// переиспользуется для сеток совместимой размерности).
type Projector struct {
	axes []int
}

// NewProjector создаёт проектор на указанный набор осей хранения
func NewProjector(axes ...int) *Projector {
	return &Projector{axes: uniqueSorted(axes)}
}

// Axes возвращает копию набора осей проекции
func (pr *Projector) Axes() []int {
	return append([]int(nil), pr.axes...)
}

// Project выполняет проекцию и возвращает сетку размерности,
// равной количеству осей проектора. Форма результата — форма
// исходной сетки, ограниченная сохраняемыми осями.
func (pr *Projector) Project(g *world.Grid) (*world.Grid, error) {
	d := g.Dimension()
	if len(pr.axes) == 0 || len(pr.axes) > d {
		return nil, &world.AxisCountError{Axes: len(pr.axes), Dimension: d}
	}
	for _, ax := range pr.axes {
		if ax < 0 || ax >= d {
			return nil, &world.AxisCountError{Axes: len(pr.axes), Dimension: d}
		}
	}

	srcShape := g.Shape()
	kept := make(map[int]bool, len(pr.axes))
	for _, ax := range pr.axes {
		kept[ax] = true
	}

	outShape := make([]int, 0, len(pr.axes))
	for _, ax := range pr.axes {
		outShape = append(outShape, srcShape[ax])
	}
	var collapsed []int // Свёрнутые оси в порядке возрастания
	for ax := 0; ax < d; ax++ {
		if !kept[ax] {
			collapsed = append(collapsed, ax)
		}
	}

	cells := make([]world.Material, 0, volume(outShape))
	outIdx := make([]int, len(outShape))
	src := make([]int, d)
	for {
		// Фиксируем сохраняемые координаты в полной точке источника
		for i, ax := range pr.axes {
			src[ax] = outIdx[i]
		}
		cells = append(cells, pr.collapse(g, srcShape, src, collapsed))

		if !advance(outIdx, outShape) {
			break
		}
	}

	return world.NewGridFromBuffer(outShape, cells)
}

// collapse обходит свободные (свёрнутые) оси в порядке возрастания
// линейного индекса и возвращает первый не-воздушный материал.
func (pr *Projector) collapse(g *world.Grid, srcShape, src []int, collapsed []int) world.Material {
	for _, ax := range collapsed {
		src[ax] = 0
	}
	for {
		m, err := g.At(src)
		if err == nil && m != world.MaterialAir {
			return m
		}

		axis := len(collapsed) - 1
		for axis >= 0 {
			ax := collapsed[axis]
			src[ax]++
			if src[ax] < srcShape[ax] {
				break
			}
			src[ax] = 0
			axis--
		}
		if axis < 0 {
			return world.MaterialAir
		}
	}
}

// Projector2D — специализация для двумерного вывода: даже если набор
// осей схлопывается до одной эффективной оси, результат дополняется
// хвостовой осью размера 1. Это контракт двумерного дисплея, а не
// общее правило.
type Projector2D struct {
	Projector
}

// New2D создаёт проектор на плоскость двух осей хранения
func New2D(ax0, ax1 int) *Projector2D {
	return &Projector2D{Projector: Projector{axes: uniqueSorted([]int{ax0, ax1})}}
}

// Project выполняет проекцию с гарантией ровно двух измерений в результате.
func (pr *Projector2D) Project(g *world.Grid) (*world.Grid, error) {
	pg, err := pr.Projector.Project(g)
	if err != nil {
		return nil, err
	}
	if pg.Dimension() == 1 {
		return pg.Reshape([]int{pg.Shape()[0], 1})
	}
	return pg, nil
}

func uniqueSorted(axes []int) []int {
	seen := make(map[int]bool, len(axes))
	out := make([]int, 0, len(axes))
	for _, ax := range axes {
		if !seen[ax] {
			seen[ax] = true
			out = append(out, ax)
		}
	}
	sort.Ints(out)
	return out
}

func volume(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}

// advance переводит индекс к следующей точке в row-major порядке.
// Возвращает false после последней точки.
func advance(idx, shape []int) bool {
	for axis := len(idx) - 1; axis >= 0; axis-- {
		idx[axis]++
		if idx[axis] < shape[axis] {
			return true
		}
		idx[axis] = 0
	}
	return false
}
