package storage

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/annel0/grid-sandbox/internal/world"
	"github.com/dgraph-io/badger/v3"
	"github.com/klauspost/compress/s2"
)

const worldKeyPrefix = "world:"

// Форматные байты значения: сырой буфер мира либо S2-сжатый.
const (
	encodingRaw byte = 0
	encodingS2  byte = 1
)

// WorldStorage — хранилище именованных снапшотов мира на BadgerDB.
// Значение снапшота — сериализованный плотный буфер сетки
// (world.Marshal), опционально сжатый S2. Файловый контракт
// Save/Load мира это не затрагивает: там буфер всегда несжатый.
type WorldStorage struct {
	db       *badger.DB
	dbPath   string
	mutex    sync.RWMutex
	isReady  bool
	compress bool
}

// NewWorldStorage создает новое хранилище снапшотов мира
func NewWorldStorage(dataPath string, compress bool) (*WorldStorage, error) {
	dbPath := filepath.Join(dataPath, "worlds")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	return &WorldStorage{
		db:       db,
		dbPath:   dbPath,
		isReady:  true,
		compress: compress,
	}, nil
}

// Close закрывает хранилище данных
func (ws *WorldStorage) Close() error {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()

	if !ws.isReady {
		return nil
	}

	ws.isReady = false
	return ws.db.Close()
}

// SaveWorld сохраняет снапшот мира под указанным именем
func (ws *WorldStorage) SaveWorld(name string, g *world.Grid) error {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return fmt.Errorf("хранилище не готово")
	}
	if name == "" {
		return fmt.Errorf("имя мира не может быть пустым")
	}

	data := g.Marshal()
	value := make([]byte, 1, 1+len(data))
	if ws.compress {
		value[0] = encodingS2
		value = append(value, s2.Encode(nil, data)...)
	} else {
		value[0] = encodingRaw
		value = append(value, data...)
	}

	key := []byte(worldKeyPrefix + name)
	err := ws.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения мира в BadgerDB: %w", err)
	}
	return nil
}

// LoadWorld загружает снапшот мира по имени.
// Возвращает world.ErrWorldNotFound, если снапшота нет.
func (ws *WorldStorage) LoadWorld(name string) (*world.Grid, error) {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return nil, fmt.Errorf("хранилище не готово")
	}

	key := []byte(worldKeyPrefix + name)
	var value []byte

	err := ws.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = append([]byte{}, val...)
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, world.ErrWorldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}
	if len(value) == 0 {
		return nil, fmt.Errorf("снапшот мира %q повреждён: пустое значение", name)
	}

	data := value[1:]
	if value[0] == encodingS2 {
		data, err = s2.Decode(nil, data)
		if err != nil {
			return nil, fmt.Errorf("ошибка распаковки снапшота %q: %w", name, err)
		}
	}

	g, err := world.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("ошибка восстановления мира %q: %w", name, err)
	}
	return g, nil
}

// ListWorlds возвращает отсортированный список имён снапшотов
func (ws *WorldStorage) ListWorlds() ([]string, error) {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return nil, fmt.Errorf("хранилище не готово")
	}

	var names []string
	err := ws.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(worldKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			names = append(names, strings.TrimPrefix(key, worldKeyPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка перечисления миров: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// DeleteWorld удаляет снапшот мира по имени
func (ws *WorldStorage) DeleteWorld(name string) error {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return fmt.Errorf("хранилище не готово")
	}

	key := []byte(worldKeyPrefix + name)
	err := ws.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("ошибка удаления мира из BadgerDB: %w", err)
	}
	return nil
}
