package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/annel0/grid-sandbox/internal/config"
	"github.com/annel0/grid-sandbox/internal/eventbus"
	"github.com/annel0/grid-sandbox/internal/logging"
	"github.com/annel0/grid-sandbox/internal/storage"
	"github.com/annel0/grid-sandbox/internal/ui"
	"github.com/annel0/grid-sandbox/internal/world"
)

func main() {
	// Инициализируем систему логирования
	if err := logging.InitDefaultLogger("sandbox"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	// === КОНФИГУРАЦИЯ ===
	var configPath string
	var worldName string
	var seed int64
	flag.StringVar(&configPath, "config", "", "Путь к YAML конфигурации (или ENV GRID_CONFIG)")
	flag.StringVar(&worldName, "world", "default", "Имя снапшота мира для загрузки/сохранения")
	flag.Int64Var(&seed, "seed", 0, "Сид генератора стартового ландшафта (0 — пустой мир)")
	flag.Parse()

	logging.Info("🧱 Запуск песочницы n-мерного мира...")

	cfg, err := config.Load(configPath)
	if err != nil {
		logging.Error("❌ Ошибка чтения конфигурации: %v", err)
		log.Fatalf("❌ Ошибка чтения конфигурации: %v", err)
	}
	logging.Info("📋 Конфигурация: мир %v, данные в %s", cfg.World.Shape, cfg.Storage.GetDataPath())

	// === ИНИЦИАЛИЗАЦИЯ КОМПОНЕНТОВ ===

	// Шина событий связывает менеджер мира и слой отображения
	bus := eventbus.NewMemoryBus(256)
	eventbus.Init(bus)

	if port := cfg.Metrics.GetMetricsPort(); port > 0 {
		exporter := eventbus.NewMetricsExporter(bus)
		exporter.StartHTTP(fmt.Sprintf(":%d", port))
		defer exporter.Stop()
	}

	// Хранилище снапшотов
	store, err := storage.NewWorldStorage(cfg.Storage.GetDataPath(), cfg.Storage.UseS2Compression)
	if err != nil {
		logging.Error("❌ Ошибка открытия хранилища: %v", err)
		log.Fatalf("❌ Ошибка открытия хранилища: %v", err)
	}
	defer store.Close()

	// Стартовый мир: снапшот -> генератор -> пустая сетка
	grid, err := initialWorld(cfg, store, worldName, seed)
	if err != nil {
		logging.Error("❌ Ошибка создания стартового мира: %v", err)
		log.Fatalf("❌ Ошибка создания стартового мира: %v", err)
	}

	mgr := world.NewManager(grid, bus)
	logging.Info("✅ Мир готов: форма %v, размерность %d", grid.Shape(), grid.Dimension())

	// Экран принадлежит UI: вывод логов в консоль отключаем
	logging.Default().SetConsoleOutput(false)

	app := ui.NewApp(mgr, store, bus, worldName)
	if err := app.Run(); err != nil {
		logging.Default().SetConsoleOutput(true)
		logging.Error("❌ Ошибка слоя отображения: %v", err)
		log.Fatalf("❌ Ошибка слоя отображения: %v", err)
	}

	logging.Default().SetConsoleOutput(true)
	logging.Info("👋 Песочница завершена")
}

// initialWorld выбирает стартовый мир: существующий снапшот, иначе
// перлин-ландшафт по сиду, иначе пустая сетка из конфигурации.
func initialWorld(cfg *config.Config, store *storage.WorldStorage, worldName string, seed int64) (*world.Grid, error) {
	if g, err := store.LoadWorld(worldName); err == nil {
		logging.Info("💾 Загружен снапшот мира %q, форма %v", worldName, g.Shape())
		return g, nil
	} else if !errors.Is(err, world.ErrWorldNotFound) {
		return nil, err
	}

	if seed != 0 {
		if seed < 0 {
			seed = time.Now().UnixNano()
		}
		gen := world.NewGenerator(seed)
		gen.NoiseScale = cfg.Generator.NoiseScale
		gen.Threshold = cfg.Generator.Threshold
		logging.Info("🌄 Генерация стартового ландшафта, сид %d", seed)
		return gen.Generate(cfg.World.Shape)
	}

	return world.NewGrid(cfg.World.Shape)
}
