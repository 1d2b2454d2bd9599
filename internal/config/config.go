package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации песочницы.

type Config struct {
	World     WorldConfig     `yaml:"world"`
	Storage   StorageConfig   `yaml:"storage"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Generator GeneratorConfig `yaml:"generator"`
}

// WorldConfig задаёт стартовый мир.
type WorldConfig struct {
	Shape []int `yaml:"shape"` // Форма стартовой сетки, все размеры >= 1
}

// StorageConfig настраивает хранилище снапшотов мира.
type StorageConfig struct {
	DataPath string `yaml:"data_path"`
	// Сжимать значения снапшотов в BadgerDB (S2). Файловый формат
	// сохранения мира при этом остаётся несжатым.
	UseS2Compression bool `yaml:"use_s2_compression"`
}

// MetricsConfig настраивает экспорт метрик Prometheus.
type MetricsConfig struct {
	Port int `yaml:"port"` // 0 — метрики отключены
}

// GeneratorConfig задаёт параметры генератора стартового ландшафта.
type GeneratorConfig struct {
	NoiseScale float64 `yaml:"noise_scale"`
	Threshold  float64 `yaml:"threshold"`
}

// GetDataPath возвращает директорию данных с приоритетом: config -> env -> default
func (s *StorageConfig) GetDataPath() string {
	if s.DataPath != "" {
		return s.DataPath
	}
	if env := os.Getenv("GRID_DATA_PATH"); env != "" {
		return env
	}
	return "data"
}

// GetMetricsPort возвращает порт метрик с приоритетом: config -> env -> default (0, отключено)
func (m *MetricsConfig) GetMetricsPort() int {
	if m.Port > 0 {
		return m.Port
	}
	if env := os.Getenv("GRID_METRICS_PORT"); env != "" {
		if port, err := strconv.Atoi(env); err == nil && port > 0 {
			return port
		}
	}
	return 0
}

// Default возвращает конфигурацию по умолчанию: плоский мир 32x24.
func Default() *Config {
	return &Config{
		World: WorldConfig{Shape: []int{24, 32}},
		Generator: GeneratorConfig{
			NoiseScale: 0.1,
			Threshold:  0.65,
		},
	}
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать из ENV GRID_CONFIG; если и он
// не задан, возвращает конфигурацию по умолчанию.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("GRID_CONFIG")
		if path == "" {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
