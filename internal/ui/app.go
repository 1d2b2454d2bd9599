// Package ui — терминальный слой отображения песочницы.
//
// Рисует двумерную проекцию текущего мира, курсор и строку статуса;
// пересылает действия пользователя (рисование, выбор материала,
// изменение формы) менеджеру мира. Слой не мутирует сетку напрямую —
// только через Manager. Уведомления менеджера приходят через шину
// событий: world.shape_changed перестраивает вьюпорт,
// world.changed вызывает только перерисовку.
package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/annel0/grid-sandbox/internal/eventbus"
	"github.com/annel0/grid-sandbox/internal/logging"
	"github.com/annel0/grid-sandbox/internal/projection"
	"github.com/annel0/grid-sandbox/internal/storage"
	"github.com/annel0/grid-sandbox/internal/world"
	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
)

// Стили ячеек и служебных элементов.
var (
	styleDefault = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	styleWall    = styleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleAir     = styleDefault.Foreground(tcell.ColorGray).Dim(true)
	styleCursor  = styleDefault.Reverse(true)
	styleStatus  = styleDefault.Foreground(tcell.ColorYellow)
)

// App владеет экраном и циклом событий терминала.
type App struct {
	screen    tcell.Screen
	mgr       *world.Manager
	store     *storage.WorldStorage
	bus       eventbus.EventBus
	worldName string

	axisCol   int   // Ось хранения, отложенная по горизонтали экрана
	axisRow   int   // Ось хранения, отложенная по вертикали экрана
	depthAxis int   // Свёрнутая ось, управляемая клавишами [ и ]
	cursor    []int // Полная n-мерная точка курсора

	status string
}

// NewApp создаёт слой отображения поверх менеджера мира
func NewApp(mgr *world.Manager, store *storage.WorldStorage, bus eventbus.EventBus, worldName string) *App {
	return &App{
		mgr:       mgr,
		store:     store,
		bus:       bus,
		worldName: worldName,
	}
}

// Run инициализирует экран и входит в цикл событий.
// Блокирует до выхода пользователя.
func (a *App) Run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("не удалось создать экран: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("не удалось инициализировать экран: %w", err)
	}
	a.screen = screen
	defer screen.Fini()

	screen.SetStyle(styleDefault)
	a.rebuild()

	// Уведомления менеджера будят цикл событий через PostEvent:
	// обработчики шины выполняются в своих горутинах, трогать экран
	// оттуда нельзя.
	var sub eventbus.Subscription
	if a.bus != nil {
		sub, err = a.bus.Subscribe(context.Background(), eventbus.Filter{
			Types: []string{world.EventChanged, world.EventShapeChanged, world.EventMaterialSelected},
		}, func(ctx context.Context, ev *eventbus.Envelope) {
			_ = screen.PostEvent(tcell.NewEventInterrupt(ev.EventType))
		})
		if err != nil {
			return fmt.Errorf("не удалось подписаться на события мира: %w", err)
		}
		defer sub.Unsubscribe()
	}

	for {
		a.draw()

		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventInterrupt:
			if ev.Data() == world.EventShapeChanged {
				a.rebuild()
			}
		case *tcell.EventKey:
			if a.handleKey(ev) {
				return nil
			}
		}
	}
}

// rebuild приводит оси отображения и курсор в соответствие с текущей
// формой мира. Вызывается при старте и на каждое shape_changed.
func (a *App) rebuild() {
	g := a.mgr.World()
	d := g.Dimension()

	// Экранные оси по умолчанию — оси хранения пользовательских
	// координат x0 (ширина) и x1 (высота).
	if d == 1 {
		a.axisCol, a.axisRow = 0, 0
	} else {
		axes := g.AxesIndex(0, 1)
		a.axisCol, a.axisRow = axes[0], axes[1]
	}
	if a.axisCol >= d || a.axisRow >= d {
		a.axisCol, a.axisRow = d-1, max(d-2, 0)
	}
	a.depthAxis = a.firstCollapsedAxis()

	// Курсор сохраняет совпадающие координаты, остальное обнуляется
	gmax := g.GMax()
	cursor := make([]int, d)
	for i := 0; i < d && i < len(a.cursor); i++ {
		cursor[i] = min(a.cursor[i], gmax[i])
	}
	a.cursor = cursor
}

// firstCollapsedAxis возвращает первую ось, не попавшую на экран,
// либо -1, если свёрнутых осей нет.
func (a *App) firstCollapsedAxis() int {
	for ax := 0; ax < a.mgr.World().Dimension(); ax++ {
		if ax != a.axisCol && ax != a.axisRow {
			return ax
		}
	}
	return -1
}

// handleKey обрабатывает нажатие клавиши. Возвращает true при выходе.
func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyLeft:
		a.moveCursor(a.axisCol, -1)
	case tcell.KeyRight:
		a.moveCursor(a.axisCol, +1)
	case tcell.KeyUp:
		a.moveCursor(a.axisRow, -1)
	case tcell.KeyDown:
		a.moveCursor(a.axisRow, +1)
	case tcell.KeyEnter:
		a.paint()
	case tcell.KeyTab:
		a.cycleAxes()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'h':
			a.moveCursor(a.axisCol, -1)
		case 'l':
			a.moveCursor(a.axisCol, +1)
		case 'k':
			a.moveCursor(a.axisRow, -1)
		case 'j':
			a.moveCursor(a.axisRow, +1)
		case ' ':
			a.paint()
		case '1':
			a.mgr.SetMaterial(world.MaterialAir)
			a.status = "материал: air"
		case '2':
			a.mgr.SetMaterial(world.MaterialWall)
			a.status = "материал: wall"
		case '[':
			a.moveCursor(a.depthAxis, -1)
		case ']':
			a.moveCursor(a.depthAxis, +1)
		case '<', '>':
			a.cycleDepthAxis()
		case '+', '=':
			a.resizeBy(+1)
		case '-':
			a.resizeBy(-1)
		case 's':
			a.saveWorld()
		case 'o':
			a.loadWorld()
		case 'g':
			a.regenerate()
		}
	}
	return false
}

// moveCursor сдвигает курсор вдоль оси хранения с зажимом к границам.
func (a *App) moveCursor(axis, delta int) {
	if axis < 0 || axis >= len(a.cursor) {
		return
	}
	gmax := a.mgr.World().GMax()
	c := a.cursor[axis] + delta
	if c < 0 {
		c = 0
	}
	if c > gmax[axis] {
		c = gmax[axis]
	}
	a.cursor[axis] = c
}

// paint устанавливает ячейку под курсором текущим материалом.
func (a *App) paint() {
	if err := a.mgr.Pick(append([]int(nil), a.cursor...)); err != nil {
		a.status = fmt.Sprintf("ошибка рисования: %v", err)
		logging.Error("Ошибка рисования в %v: %v", a.cursor, err)
	}
}

// cycleAxes меняет пару экранных осей, позволяя смотреть на мир
// размерности выше двух с разных сторон.
func (a *App) cycleAxes() {
	d := a.mgr.World().Dimension()
	if d < 2 {
		return
	}
	a.axisCol = (a.axisCol + 1) % d
	if a.axisCol == a.axisRow {
		a.axisCol = (a.axisCol + 1) % d
	}
	a.depthAxis = a.firstCollapsedAxis()
	a.status = fmt.Sprintf("оси экрана: %d, %d", a.axisCol, a.axisRow)
}

// cycleDepthAxis выбирает следующую свёрнутую ось для клавиш [ и ].
func (a *App) cycleDepthAxis() {
	d := a.mgr.World().Dimension()
	if a.depthAxis < 0 || d <= 2 {
		return
	}
	ax := a.depthAxis
	for {
		ax = (ax + 1) % d
		if ax != a.axisCol && ax != a.axisRow {
			break
		}
	}
	a.depthAxis = ax
	a.status = fmt.Sprintf("ось глубины: %d", ax)
}

// resizeBy увеличивает или уменьшает размер мира по экранным осям.
func (a *App) resizeBy(delta int) {
	shape := a.mgr.World().Shape()
	shape[a.axisCol] += delta
	if a.axisRow != a.axisCol {
		shape[a.axisRow] += delta
	}
	for _, s := range shape {
		if s < 1 {
			a.status = "минимальный размер достигнут"
			return
		}
	}
	if _, err := a.mgr.Resize(shape); err != nil {
		a.status = fmt.Sprintf("ошибка изменения формы: %v", err)
		logging.Error("Ошибка изменения формы на %v: %v", shape, err)
		return
	}
	a.status = fmt.Sprintf("форма: %v", shape)
}

// saveWorld сохраняет текущий мир в хранилище снапшотов.
func (a *App) saveWorld() {
	if a.store == nil {
		a.status = "хранилище не подключено"
		return
	}
	if err := a.store.SaveWorld(a.worldName, a.mgr.World()); err != nil {
		a.status = fmt.Sprintf("ошибка сохранения: %v", err)
		logging.Error("Ошибка сохранения мира %q: %v", a.worldName, err)
		return
	}
	a.status = fmt.Sprintf("мир сохранён: %s", a.worldName)
	logging.Info("Мир %q сохранён", a.worldName)
	_ = eventbus.Publish(context.Background(), &eventbus.Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    "ui",
		EventType: world.EventSaved,
		Metadata:  map[string]string{"name": a.worldName},
	})
}

// loadWorld загружает снапшот и устанавливает его активным миром.
func (a *App) loadWorld() {
	if a.store == nil {
		a.status = "хранилище не подключено"
		return
	}
	g, err := a.store.LoadWorld(a.worldName)
	if err != nil {
		a.status = fmt.Sprintf("ошибка загрузки: %v", err)
		logging.Error("Ошибка загрузки мира %q: %v", a.worldName, err)
		return
	}
	a.mgr.Restore(g)
	a.rebuild()
	a.status = fmt.Sprintf("мир загружен: %s", a.worldName)
}

// regenerate заполняет мир текущей формы новым перлин-ландшафтом.
func (a *App) regenerate() {
	seed := time.Now().UnixNano()
	gen := world.NewGenerator(seed)
	g, err := gen.Generate(a.mgr.World().Shape())
	if err != nil {
		a.status = fmt.Sprintf("ошибка генерации: %v", err)
		return
	}
	a.mgr.Restore(g)
	a.rebuild()
	a.status = fmt.Sprintf("мир перегенерирован, сид %d", seed)
}

// draw перерисовывает проекцию мира и строку статуса.
func (a *App) draw() {
	s := a.screen
	s.Clear()

	g := a.mgr.World()
	proj := projection.New2D(a.axisCol, a.axisRow)
	pg, err := proj.Project(g)
	if err != nil {
		a.drawText(1, 1, styleStatus, fmt.Sprintf("ошибка проекции: %v", err))
		s.Show()
		return
	}

	// Сопоставление осей результата (отсортированы по возрастанию)
	// с экранными колонками/строками.
	axes := proj.Axes()
	colIdx, rowIdx := 0, 1
	if len(axes) == 2 && axes[0] == a.axisRow && a.axisRow != a.axisCol {
		colIdx, rowIdx = 1, 0
	}

	shape := pg.Shape()
	width, height := s.Size()
	const offX, offY = 1, 1

	out := make([]int, 2)
	cols := shape[colIdx]
	rows := shape[rowIdx]
	for row := 0; row < rows && offY+row < height-2; row++ {
		for col := 0; col < cols && offX+col*2 < width-1; col++ {
			out[colIdx] = col
			out[rowIdx] = row
			m, err := pg.At(out)
			if err != nil {
				continue
			}

			ch := '·'
			style := styleAir
			if m == world.MaterialWall {
				ch = '█'
				style = styleWall
			}
			if col == a.cursorCol() && row == a.cursorRow() {
				style = styleCursor
			}
			// Ячейка занимает две колонки терминала для квадратности
			s.SetContent(offX+col*2, offY+row, ch, nil, style)
			s.SetContent(offX+col*2+1, offY+row, ' ', nil, style)
		}
	}

	a.drawStatus(width, height)
	s.Show()
}

// cursorCol возвращает экранную колонку курсора.
func (a *App) cursorCol() int { return a.cursor[a.axisCol] }

// cursorRow возвращает экранную строку курсора.
func (a *App) cursorRow() int {
	if a.axisRow == a.axisCol {
		return 0 // 1-мерный мир: единственная строка
	}
	return a.cursor[a.axisRow]
}

// drawStatus рисует две служебные строки внизу экрана.
func (a *App) drawStatus(width, height int) {
	g := a.mgr.World()
	info := fmt.Sprintf("мир %v  курсор %v  материал %s  оси %d/%d  [%s]",
		g.Shape(), a.cursor, a.mgr.Material(), a.axisCol, a.axisRow, a.worldName)
	a.drawText(1, height-2, styleStatus, info)

	help := "стрелки/hjkl двигать  space красить  1/2 материал  tab оси  [ ] глубина  +/- размер  s/o сохр/загр  g генерация  q выход"
	if a.status != "" {
		help = a.status + "  |  " + help
	}
	a.drawText(1, height-1, styleDefault.Dim(true), help)
}

// drawText выводит строку, обрезая её по ширине экрана.
func (a *App) drawText(x, y int, style tcell.Style, text string) {
	width, _ := a.screen.Size()
	col := x
	for _, r := range text {
		if col >= width {
			return
		}
		a.screen.SetContent(col, y, r, nil, style)
		col++
	}
}
