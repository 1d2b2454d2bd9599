package world

import (
	"errors"
	"fmt"
)

// ErrNotImplemented возвращается зарезервированными методами,
// которые ещё не имеют реализации (см. neighbours.go).
var ErrNotImplemented = errors.New("операция не реализована")

// ErrWorldNotFound возвращается хранилищем, если снапшот мира
// с указанным именем отсутствует.
var ErrWorldNotFound = errors.New("мир не найден")

// InvalidShapeError сообщает о форме сетки с неположительной
// протяжённостью по одной из осей. Форма никогда не "подрезается"
// молча — конструирование отклоняется целиком.
type InvalidShapeError struct {
	Shape []int
}

func (e *InvalidShapeError) Error() string {
	return fmt.Sprintf("некорректная форма мира %v: все размеры должны быть >= 1", e.Shape)
}

// DimensionMismatchError сообщает о точке или области, количество
// координат которой не совпадает с размерностью сетки.
type DimensionMismatchError struct {
	Want int // Размерность сетки
	Got  int // Количество переданных координат
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("размерности не совпадают: мир %d, точка %d", e.Want, e.Got)
}

// InvalidRegionError сообщает об области, у которой нижний угол
// не меньше либо равен верхнему по каждой оси, либо нижний угол
// выходит за границы сетки.
type InvalidRegionError struct {
	P, Q []int
	Axis int // Ось, на которой обнаружено нарушение
}

func (e *InvalidRegionError) Error() string {
	return fmt.Sprintf("некорректная область [%v, %v]: нарушение по оси %d", e.P, e.Q, e.Axis)
}

// ShapeMismatchError сообщает о блоке, форма которого не совпадает
// с формой целевой области при Replace, либо о буфере,
// длина которого не соответствует форме при восстановлении.
type ShapeMismatchError struct {
	Want []int
	Got  []int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("формы не совпадают: область %v, блок %v", e.Want, e.Got)
}

// AxisCountError сообщает о проекции, запросившей больше осей,
// чем есть у исходной сетки (или ни одной).
type AxisCountError struct {
	Axes      int // Количество запрошенных осей
	Dimension int // Размерность исходной сетки
}

func (e *AxisCountError) Error() string {
	return fmt.Sprintf("некорректный набор осей проекции: запрошено %d, размерность мира %d", e.Axes, e.Dimension)
}
