package world

// Типы событий, публикуемых менеджером мира в шину событий.
// Слой отображения различает их: world.shape_changed требует
// перестройки производных структур (вьюпорт, оси), остальные —
// только перерисовки.
const (
	// EventChanged — содержимое мира изменилось (заливка, точка).
	EventChanged = "world.changed"

	// EventShapeChanged — мир пересоздан с новой формой.
	EventShapeChanged = "world.shape_changed"

	// EventMaterialSelected — выбран текущий материал для рисования.
	EventMaterialSelected = "world.material_selected"

	// EventSaved — снапшот мира записан в хранилище.
	EventSaved = "world.saved"
)
