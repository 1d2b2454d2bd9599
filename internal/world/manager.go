package world

import (
	"context"
	"fmt"
	"time"

	"github.com/annel0/grid-sandbox/internal/eventbus"
	"github.com/annel0/grid-sandbox/internal/logging"
	"github.com/google/uuid"
)

// Manager — единственный владелец и единственный мутатор активной
// сетки мира. Все запросы UI (изменение формы, выбор материала,
// рисование) проходят через него; остальные компоненты обязаны
// рассматривать полученные сетки как снапшоты только для чтения.
//
// Модель однопоточная: вызывающие сериализуют обращения к менеджеру
// сами, блокировок здесь нет.
type Manager struct {
	world    *Grid
	material Material
	bus      eventbus.EventBus // Может быть nil — без уведомлений
}

// NewManager создаёт менеджер, владеющий переданной сеткой.
// Текущий материал по умолчанию — MaterialAir.
func NewManager(initial *Grid, bus eventbus.EventBus) *Manager {
	return &Manager{
		world:    initial,
		material: MaterialAir,
		bus:      bus,
	}
}

// World возвращает активную сетку. Только для чтения: мутации
// выполняются исключительно методами менеджера.
func (m *Manager) World() *Grid {
	return m.world
}

// Material возвращает текущий материал для рисования.
func (m *Manager) Material() Material {
	return m.material
}

// Size возвращает максимальные координаты мира по каждой оси.
// Это внешнее понятие "размера сетки" для слоя отображения.
func (m *Manager) Size() []int {
	return m.world.GMax()
}

// Resize пересоздаёт мир с новой формой, сохраняя перекрывающуюся
// область по тем же координатам. Содержимое вне новых границ
// отбрасывается, новые ячейки заполняются MaterialAir.
// Возвращает true, если сетка была заменена; совпадающая форма —
// no-op (вызывающий может пропустить перерисовку).
func (m *Manager) Resize(newShape []int) (bool, error) {
	if shapeEqual(m.world.shape, newShape) {
		return false, nil
	}

	newWorld, err := NewGrid(newShape)
	if err != nil {
		return false, err
	}

	oldShape := m.world.shape
	if len(newShape) == len(oldShape) {
		// Перекрывающаяся область: поэлементный минимум форм.
		// При смене размерности перекрытие не определено — мир
		// начинается заново.
		overlap := make([]int, len(newShape))
		for i := range overlap {
			overlap[i] = min(oldShape[i], newShape[i]) - 1
		}
		zero := make([]int, len(newShape))

		common, err := m.world.Query(zero, overlap)
		if err != nil {
			return false, fmt.Errorf("перенос содержимого при изменении формы: %w", err)
		}
		if err := newWorld.Replace(zero, overlap, common); err != nil {
			return false, fmt.Errorf("перенос содержимого при изменении формы: %w", err)
		}
	}

	logging.Debug("Мир пересоздан: %v -> %v", oldShape, newShape)
	m.world = newWorld
	m.publish(EventShapeChanged, map[string]string{
		"shape": fmt.Sprint(newShape),
	})
	return true, nil
}

// Restore устанавливает новую активную сетку, заменяя прежнюю
// целиком (загрузка снапшота или перегенерация). Форма может
// измениться произвольно, поэтому всегда публикуется shape_changed.
func (m *Manager) Restore(g *Grid) {
	m.world = g
	m.publish(EventShapeChanged, map[string]string{
		"shape": fmt.Sprint(g.Shape()),
	})
}

// SetMaterial выбирает материал для последующего рисования.
// Сетку не изменяет.
func (m *Manager) SetMaterial(mat Material) {
	m.material = mat
	m.publish(EventMaterialSelected, map[string]string{
		"material": mat.String(),
	})
}

// Build заливает область [p, q] текущим материалом.
func (m *Manager) Build(p, q []int) error {
	if err := m.world.Fill(p, q, m.material); err != nil {
		return err
	}
	m.publish(EventChanged, nil)
	return nil
}

// Pick устанавливает одиночную ячейку текущим материалом.
// Это обработчик точечного выбора из слоя отображения.
func (m *Manager) Pick(p []int) error {
	return m.Build(p, p)
}

// publish отправляет уведомление в шину, если она подключена.
func (m *Manager) publish(eventType string, meta map[string]string) {
	if m.bus == nil {
		return
	}
	err := m.bus.Publish(context.Background(), &eventbus.Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    "world-manager",
		EventType: eventType,
		Metadata:  meta,
	})
	if err != nil {
		logging.Warn("Не удалось опубликовать событие %s: %v", eventType, err)
	}
}

// shapeEqual сравнивает формы; формы разной размерности различны.
func shapeEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
