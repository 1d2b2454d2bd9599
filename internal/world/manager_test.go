package world

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/annel0/grid-sandbox/internal/eventbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, shape []int) *Manager {
	t.Helper()
	g, err := NewGrid(shape)
	require.NoError(t, err)
	return NewManager(g, nil)
}

func TestManager_Defaults(t *testing.T) {
	mgr := newTestManager(t, []int{10, 10})

	assert.Equal(t, MaterialAir, mgr.Material(), "Материал по умолчанию — воздух")
	assert.Equal(t, []int{9, 9}, mgr.Size(), "Size — максимальные координаты мира")
}

func TestManager_ResizeGrow(t *testing.T) {
	mgr := newTestManager(t, []int{10, 10})
	require.NoError(t, mgr.World().Fill([]int{2, 2}, []int{4, 4}, MaterialWall))

	replaced, err := mgr.Resize([]int{20, 20})
	require.NoError(t, err)
	assert.True(t, replaced, "Изменение формы должно заменить сетку")
	assert.Equal(t, []int{20, 20}, mgr.World().Shape())

	// Стены сохранены по тем же координатам
	block, err := mgr.World().Query([]int{2, 2}, []int{4, 4})
	require.NoError(t, err)
	for x := 0; x < 3; x++ {
		for y := 0; y < 3; y++ {
			m, _ := block.At([]int{x, y})
			assert.Equal(t, MaterialWall, m, "Стена (%d,%d) должна пережить рост мира", x+2, y+2)
		}
	}

	// Новые ячейки — воздух
	for _, p := range [][]int{{15, 15}, {19, 19}, {10, 0}, {0, 10}} {
		m, err := mgr.World().At(p)
		require.NoError(t, err)
		assert.Equal(t, MaterialAir, m, "Новая ячейка %v должна быть воздухом", p)
	}
}

func TestManager_ResizeShrink(t *testing.T) {
	mgr := newTestManager(t, []int{10, 10})
	require.NoError(t, mgr.World().Fill([]int{2, 2}, []int{4, 4}, MaterialWall))

	replaced, err := mgr.Resize([]int{3, 3})
	require.NoError(t, err)
	assert.True(t, replaced)
	assert.Equal(t, []int{3, 3}, mgr.World().Shape())

	// От стены остаётся только перекрывающаяся ячейка (2,2)
	m, err := mgr.World().At([]int{2, 2})
	require.NoError(t, err)
	assert.Equal(t, MaterialWall, m, "Ячейка (2,2) внутри перекрытия сохраняется")

	for _, p := range [][]int{{0, 0}, {1, 1}, {2, 1}, {1, 2}} {
		m, err := mgr.World().At(p)
		require.NoError(t, err)
		assert.Equal(t, MaterialAir, m, "Ячейка %v вне стены должна быть воздухом", p)
	}
}

func TestManager_ResizeSameShape(t *testing.T) {
	mgr := newTestManager(t, []int{10, 10})
	require.NoError(t, mgr.World().Fill([]int{2, 2}, []int{4, 4}, MaterialWall))
	before := mgr.World()

	replaced, err := mgr.Resize([]int{10, 10})
	require.NoError(t, err)
	assert.False(t, replaced, "Совпадающая форма — no-op")
	assert.Same(t, before, mgr.World(), "Сетка не должна заменяться")
}

func TestManager_ResizeChangesDimension(t *testing.T) {
	mgr := newTestManager(t, []int{6, 6})
	require.NoError(t, mgr.World().Point([]int{1, 2}, MaterialWall))

	replaced, err := mgr.Resize([]int{6, 6, 3})
	require.NoError(t, err)
	assert.True(t, replaced, "Смена размерности пересоздаёт мир")
	assert.Equal(t, 3, mgr.World().Dimension())
}

func TestManager_ResizeInvalidShape(t *testing.T) {
	mgr := newTestManager(t, []int{5, 5})

	_, err := mgr.Resize([]int{5, 0})
	var shapeErr *InvalidShapeError
	assert.ErrorAs(t, err, &shapeErr, "Некорректная форма отклоняется")
	assert.Equal(t, []int{5, 5}, mgr.World().Shape(), "Мир остаётся прежним")
}

func TestManager_BuildUsesCurrentMaterial(t *testing.T) {
	mgr := newTestManager(t, []int{5, 5})

	// По умолчанию рисование воздухом — ластик
	require.NoError(t, mgr.World().Fill([]int{0, 0}, []int{4, 4}, MaterialWall))
	require.NoError(t, mgr.Build([]int{1, 1}, []int{2, 2}))
	m, _ := mgr.World().At([]int{1, 1})
	assert.Equal(t, MaterialAir, m, "Build текущим материалом (air) стирает стену")

	mgr.SetMaterial(MaterialWall)
	require.NoError(t, mgr.Build([]int{3, 3}, []int{3, 3}))
	m, _ = mgr.World().At([]int{3, 3})
	assert.Equal(t, MaterialWall, m, "После SetMaterial рисуется стена")
}

func TestManager_Pick(t *testing.T) {
	mgr := newTestManager(t, []int{4, 4})
	mgr.SetMaterial(MaterialWall)

	require.NoError(t, mgr.Pick([]int{2, 3}))
	m, _ := mgr.World().At([]int{2, 3})
	assert.Equal(t, MaterialWall, m, "Pick устанавливает одиночную ячейку")
}

func TestManager_Restore(t *testing.T) {
	mgr := newTestManager(t, []int{4, 4})

	g, err := NewGrid([]int{7, 3})
	require.NoError(t, err)
	mgr.Restore(g)

	assert.Same(t, g, mgr.World(), "Restore заменяет активную сетку")
}

// collectingHandler потокобезопасно накапливает типы полученных событий.
type collectingHandler struct {
	mu    sync.Mutex
	types []string
}

func (c *collectingHandler) handle(ctx context.Context, ev *eventbus.Envelope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.types = append(c.types, ev.EventType)
}

func (c *collectingHandler) count(eventType string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.types {
		if t == eventType {
			n++
		}
	}
	return n
}

func TestManager_Notifications(t *testing.T) {
	bus := eventbus.NewMemoryBus(16)
	g, err := NewGrid([]int{5, 5})
	require.NoError(t, err)
	mgr := NewManager(g, bus)

	collector := &collectingHandler{}
	_, err = bus.Subscribe(context.Background(), eventbus.Filter{}, collector.handle)
	require.NoError(t, err)

	// Pick публикует world.changed
	require.NoError(t, mgr.Pick([]int{1, 1}))
	assert.Eventually(t, func() bool {
		return collector.count(EventChanged) == 1
	}, time.Second, 10*time.Millisecond, "Pick должен публиковать world.changed")

	// Успешный resize публикует отдельное world.shape_changed
	replaced, err := mgr.Resize([]int{8, 8})
	require.NoError(t, err)
	require.True(t, replaced)
	assert.Eventually(t, func() bool {
		return collector.count(EventShapeChanged) == 1
	}, time.Second, 10*time.Millisecond, "Resize должен публиковать world.shape_changed")

	// No-op resize не публикует ничего
	replaced, err = mgr.Resize([]int{8, 8})
	require.NoError(t, err)
	require.False(t, replaced)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, collector.count(EventShapeChanged), "No-op resize не должен публиковать событий")
}
