package world

import "fmt"

// Material определяет содержимое ячейки мира.
// Порядковые значения фиксированы: они сериализуются в снапшотах
// и используются как числовая стоимость прохода (пока только 0 и 1).
type Material uint8

const (
	MaterialAir  Material = iota // Пустое пространство, проходимо
	MaterialWall                 // Стена, блокирует проход
)

// Passable возвращает true, если через материал можно пройти.
// Это контракт для будущего алгоритма поиска пути.
func (m Material) Passable() bool {
	return m == MaterialAir
}

// String возвращает строковое представление материала
func (m Material) String() string {
	switch m {
	case MaterialAir:
		return "air"
	case MaterialWall:
		return "wall"
	default:
		return fmt.Sprintf("material(%d)", uint8(m))
	}
}

// ParseMaterial преобразует имя материала в значение Material.
// Используется конфигурацией и селектором в UI.
func ParseMaterial(s string) (Material, error) {
	switch s {
	case "air":
		return MaterialAir, nil
	case "wall":
		return MaterialWall, nil
	default:
		return MaterialAir, fmt.Errorf("неизвестный материал: %q", s)
	}
}
