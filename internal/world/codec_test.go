package world

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_RoundTrip(t *testing.T) {
	// Точный round-trip для миров размерности 1, 2, 3 и 5
	shapes := [][]int{
		{7},
		{4, 6},
		{3, 4, 5},
		{2, 3, 2, 3, 2},
	}

	for _, shape := range shapes {
		g, err := NewGrid(shape)
		require.NoError(t, err)

		// Узнаваемый узор: стена в начале, в центре и в конце
		gmax := g.GMax()
		require.NoError(t, g.Point(make([]int, len(shape)), MaterialWall))
		require.NoError(t, g.Point(gmax, MaterialWall))
		mid := make([]int, len(shape))
		for i := range mid {
			mid[i] = gmax[i] / 2
		}
		require.NoError(t, g.Point(mid, MaterialWall))

		restored, err := Unmarshal(g.Marshal())
		require.NoError(t, err, "Unmarshal после Marshal для формы %v", shape)
		assert.True(t, g.Equal(restored), "Round-trip должен быть точным для формы %v", shape)
	}
}

func TestCodec_SaveLoad(t *testing.T) {
	g, err := NewGrid([]int{8, 8})
	require.NoError(t, err)
	require.NoError(t, g.Fill([]int{2, 2}, []int{5, 5}, MaterialWall))

	var buf bytes.Buffer
	require.NoError(t, g.Save(&buf))

	restored, err := Load(&buf)
	require.NoError(t, err)
	assert.True(t, g.Equal(restored), "Load(Save(g)) == g")
}

func TestCodec_CorruptedBuffer(t *testing.T) {
	cases := [][]byte{
		nil,
		{1, 2},                   // Короче заголовка
		{2, 0, 0, 0, 5, 0, 0, 0}, // Заявлено 2 оси, есть одна
		{0, 0, 0, 0},             // Нулевая размерность
	}
	for _, data := range cases {
		_, err := Unmarshal(data)
		assert.Error(t, err, "Повреждённый буфер %v должен отклоняться", data)
	}

	// Длина ячеек не соответствует форме
	g, err := NewGrid([]int{2, 2})
	require.NoError(t, err)
	data := g.Marshal()
	_, err = Unmarshal(data[:len(data)-1])
	assert.Error(t, err, "Буфер с недостающей ячейкой должен отклоняться")
}

func TestNewGridFromBuffer_LengthMismatch(t *testing.T) {
	_, err := NewGridFromBuffer([]int{2, 3}, make([]Material, 5))
	var mismatch *ShapeMismatchError
	assert.ErrorAs(t, err, &mismatch, "Буфер не того объёма должен отклоняться")

	g, err := NewGridFromBuffer([]int{2, 3}, make([]Material, 6))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, g.Shape())
}
