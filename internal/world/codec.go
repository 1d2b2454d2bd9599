package world

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Сериализация мира: один плотный блок без сжатия и без заголовка
// сверх формы, необходимой для восстановления. Формат (little-endian):
//
//	uint32  размерность d
//	uint32  размер по каждой из d осей
//	байты   ячейки в row-major порядке, по одному байту на ячейку
//
// Гарантия: Load(Save(g)) == g для любой корректной сетки.

// Marshal сериализует сетку в плотный буфер.
func (g *Grid) Marshal() []byte {
	buf := make([]byte, 0, 4+4*len(g.shape)+len(g.cells))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(g.shape)))
	for _, s := range g.shape {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(s))
	}
	for _, c := range g.cells {
		buf = append(buf, byte(c))
	}
	return buf
}

// Unmarshal восстанавливает сетку из буфера, созданного Marshal.
func Unmarshal(data []byte) (*Grid, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("буфер мира повреждён: %d байт", len(data))
	}
	d := int(binary.LittleEndian.Uint32(data))
	data = data[4:]
	if d <= 0 || len(data) < 4*d {
		return nil, fmt.Errorf("буфер мира повреждён: размерность %d", d)
	}

	shape := make([]int, d)
	for i := range shape {
		shape[i] = int(binary.LittleEndian.Uint32(data))
		data = data[4:]
	}

	cells := make([]Material, len(data))
	for i, b := range data {
		cells[i] = Material(b)
	}
	return NewGridFromBuffer(shape, cells)
}

// Save записывает полное содержимое сетки в поток.
func (g *Grid) Save(w io.Writer) error {
	if _, err := w.Write(g.Marshal()); err != nil {
		return fmt.Errorf("ошибка записи мира: %w", err)
	}
	return nil
}

// Load восстанавливает сетку из потока, записанного Save.
func Load(r io.Reader) (*Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения мира: %w", err)
	}
	return Unmarshal(data)
}
