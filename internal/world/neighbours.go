package world

// Зарезервированные точки расширения для будущего алгоритма поиска
// пути. Сигнатуры фиксируют контракт (список соседних точек для
// заданной точки), реализация намеренно отсутствует: никакой другой
// компонент не должен полагаться на эти методы.

// OrthogonalNeighbours возвращает координаты соседних точек по
// ортогональной связности (4-связность в 2-D, 2n-связность в n-D).
//
// Не реализовано.
func (g *Grid) OrthogonalNeighbours(p []int) ([][]int, error) {
	return nil, ErrNotImplemented
}

// DiagonalNeighbours возвращает координаты соседних точек с учётом
// диагоналей (8-связность в 2-D).
//
// Не реализовано.
func (g *Grid) DiagonalNeighbours(p []int) ([][]int, error) {
	return nil, ErrNotImplemented
}
