package world

// Grid — плотная n-мерная сетка материалов фиксированной формы.
//
// Точка задаётся срезом координат длины Dimension() и адресует ячейки
// в порядке осей хранения: первая координата — самая медленная ось,
// последняя — самая быстрая (row-major). Пользовательские индексы
// координат (x0, x1, …) переводятся в оси хранения через AxesIndex.
//
// Размерность фиксируется при создании; изменение формы всегда
// означает создание новой сетки (см. Manager.Resize).
type Grid struct {
	shape   []int      // Форма сетки по осям хранения
	gmax    []int      // Максимальные координаты (shape - 1)
	strides []int      // Шаги линейного индекса по осям
	cells   []Material // Плотный буфер ячеек
}

// NewGrid создаёт сетку указанной формы, заполненную MaterialAir.
// Возвращает InvalidShapeError, если какой-либо размер <= 0.
func NewGrid(shape []int) (*Grid, error) {
	g, err := newEmptyGrid(shape)
	if err != nil {
		return nil, err
	}
	g.cells = make([]Material, g.volume())
	return g, nil
}

// NewGridFromBuffer восстанавливает сетку из ранее сериализованного
// плотного буфера ячеек. Длина буфера должна точно соответствовать
// произведению размеров формы, иначе возвращается ShapeMismatchError.
func NewGridFromBuffer(shape []int, cells []Material) (*Grid, error) {
	g, err := newEmptyGrid(shape)
	if err != nil {
		return nil, err
	}
	if len(cells) != g.volume() {
		return nil, &ShapeMismatchError{Want: g.Shape(), Got: []int{len(cells)}}
	}
	g.cells = make([]Material, len(cells))
	copy(g.cells, cells)
	return g, nil
}

// newEmptyGrid проверяет форму и подготавливает сетку без буфера ячеек.
func newEmptyGrid(shape []int) (*Grid, error) {
	if len(shape) == 0 {
		return nil, &InvalidShapeError{Shape: nil}
	}
	for _, s := range shape {
		if s <= 0 {
			return nil, &InvalidShapeError{Shape: append([]int(nil), shape...)}
		}
	}

	g := &Grid{
		shape:   append([]int(nil), shape...),
		gmax:    make([]int, len(shape)),
		strides: make([]int, len(shape)),
	}
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		g.gmax[i] = shape[i] - 1
		g.strides[i] = stride
		stride *= shape[i]
	}
	return g, nil
}

// volume возвращает общее количество ячеек сетки.
func (g *Grid) volume() int {
	n := 1
	for _, s := range g.shape {
		n *= s
	}
	return n
}

// Dimension возвращает количество измерений мира
func (g *Grid) Dimension() int {
	return len(g.shape)
}

// Shape возвращает копию формы мира (количество ячеек по каждой оси)
func (g *Grid) Shape() []int {
	return append([]int(nil), g.shape...)
}

// GMax возвращает копию максимальных координат сетки (shape - 1)
func (g *Grid) GMax() []int {
	return append([]int(nil), g.gmax...)
}

// AxesIndex возвращает оси хранения для указанных индексов
// пользовательских координат. Например, в 3-мерном мире точка
// x = (x0, x1, x2): индекс координаты x0 равен 0, и AxesIndex(0)
// вернёт ось хранения dimension-1-0 = 2. Чистая функция.
func (g *Grid) AxesIndex(coordIdx ...int) []int {
	axes := make([]int, len(coordIdx))
	for i, idx := range coordIdx {
		axes[i] = len(g.shape) - 1 - idx
	}
	return axes
}

// offset переводит точку в линейный индекс буфера ячеек.
// Точка обязана быть проверена заранее.
func (g *Grid) offset(p []int) int {
	off := 0
	for i, c := range p {
		off += c * g.strides[i]
	}
	return off
}

// checkPoint проверяет размерность и границы одиночной точки.
func (g *Grid) checkPoint(p []int) error {
	if len(p) != len(g.shape) {
		return &DimensionMismatchError{Want: len(g.shape), Got: len(p)}
	}
	for i, c := range p {
		if c < 0 || c > g.gmax[i] {
			return &InvalidRegionError{P: append([]int(nil), p...), Q: append([]int(nil), p...), Axis: i}
		}
	}
	return nil
}

// normalizeRegion проверяет предусловия области [p, q] и возвращает
// её включительные углы после подрезки верхнего угла к границам.
// Нижний угол никогда не подрезается: выход за границы — ошибка вызывающего.
// Все проверки выполняются до какой-либо мутации (check-then-act).
func (g *Grid) normalizeRegion(p, q []int) (lo, hi []int, err error) {
	if len(p) != len(g.shape) || len(q) != len(g.shape) {
		got := len(p)
		if len(q) != len(g.shape) {
			got = len(q)
		}
		return nil, nil, &DimensionMismatchError{Want: len(g.shape), Got: got}
	}

	lo = append([]int(nil), p...)
	hi = append([]int(nil), q...)
	for i := range lo {
		if lo[i] > hi[i] {
			return nil, nil, &InvalidRegionError{P: lo, Q: hi, Axis: i}
		}
		if lo[i] < 0 || lo[i] > g.gmax[i] {
			return nil, nil, &InvalidRegionError{P: lo, Q: hi, Axis: i}
		}
		// Верхний угол подрезаем к границе сетки
		if hi[i] > g.gmax[i] {
			hi[i] = g.gmax[i]
		}
	}
	return lo, hi, nil
}

// forRegion обходит все ячейки области [lo, hi] в порядке возрастания
// линейного индекса (последняя ось — самая быстрая).
func (g *Grid) forRegion(lo, hi []int, fn func(offset int)) {
	cur := append([]int(nil), lo...)
	for {
		fn(g.offset(cur))

		axis := len(cur) - 1
		for axis >= 0 {
			cur[axis]++
			if cur[axis] <= hi[axis] {
				break
			}
			cur[axis] = lo[axis]
			axis--
		}
		if axis < 0 {
			return
		}
	}
}

// At возвращает материал одиночной ячейки.
func (g *Grid) At(p []int) (Material, error) {
	if err := g.checkPoint(p); err != nil {
		return MaterialAir, err
	}
	return g.cells[g.offset(p)], nil
}

// Fill заполняет замкнутую область [p, q] указанным материалом.
// Верхний угол подрезается к границам сетки; при нарушении
// предусловий мутация не выполняется вовсе.
func (g *Grid) Fill(p, q []int, m Material) error {
	lo, hi, err := g.normalizeRegion(p, q)
	if err != nil {
		return err
	}
	g.forRegion(lo, hi, func(off int) {
		g.cells[off] = m
	})
	return nil
}

// Point устанавливает материал одиночной ячейки.
// Эквивалент Fill(p, p, m).
func (g *Grid) Point(p []int, m Material) error {
	return g.Fill(p, p, m)
}

// Query возвращает плотную копию замкнутой области [p, q] в виде
// отдельной сетки. Если q == nil, запрашивается одиночная ячейка p.
// Возвращённая копия независима от исходной сетки.
func (g *Grid) Query(p, q []int) (*Grid, error) {
	if q == nil {
		q = p
	}
	lo, hi, err := g.normalizeRegion(p, q)
	if err != nil {
		return nil, err
	}

	blockShape := make([]int, len(lo))
	for i := range lo {
		blockShape[i] = hi[i] - lo[i] + 1
	}
	block, err := NewGrid(blockShape)
	if err != nil {
		return nil, err
	}

	// Порядок обхода области совпадает с row-major порядком блока
	dst := 0
	g.forRegion(lo, hi, func(off int) {
		block.cells[dst] = g.cells[off]
		dst++
	})
	return block, nil
}

// Replace перезаписывает область [p, q] содержимым блока.
// Форма блока обязана совпадать с формой (подрезанной) области по
// каждой оси, иначе возвращается ShapeMismatchError.
func (g *Grid) Replace(p, q []int, block *Grid) error {
	lo, hi, err := g.normalizeRegion(p, q)
	if err != nil {
		return err
	}
	regionShape := make([]int, len(lo))
	for i := range lo {
		regionShape[i] = hi[i] - lo[i] + 1
	}
	if block.Dimension() != len(regionShape) {
		return &ShapeMismatchError{Want: regionShape, Got: block.Shape()}
	}
	for i, s := range regionShape {
		if block.shape[i] != s {
			return &ShapeMismatchError{Want: regionShape, Got: block.Shape()}
		}
	}

	src := 0
	g.forRegion(lo, hi, func(off int) {
		g.cells[off] = block.cells[src]
		src++
	})
	return nil
}

// All возвращает полную независимую копию сетки. Вызывающий,
// удерживающий копию, не наблюдает последующих мутаций оригинала.
func (g *Grid) All() *Grid {
	cp := &Grid{
		shape:   g.Shape(),
		gmax:    g.GMax(),
		strides: append([]int(nil), g.strides...),
		cells:   make([]Material, len(g.cells)),
	}
	copy(cp.cells, g.cells)
	return cp
}

// Reshape возвращает копию сетки с новой формой того же объёма.
// Порядок ячеек (row-major) сохраняется.
func (g *Grid) Reshape(shape []int) (*Grid, error) {
	ng, err := newEmptyGrid(shape)
	if err != nil {
		return nil, err
	}
	if ng.volume() != len(g.cells) {
		return nil, &ShapeMismatchError{Want: g.Shape(), Got: append([]int(nil), shape...)}
	}
	ng.cells = make([]Material, len(g.cells))
	copy(ng.cells, g.cells)
	return ng, nil
}

// Equal сравнивает две сетки по форме и содержимому.
func (g *Grid) Equal(o *Grid) bool {
	if o == nil || len(g.shape) != len(o.shape) {
		return false
	}
	for i := range g.shape {
		if g.shape[i] != o.shape[i] {
			return false
		}
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}
