package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Load загружает конфигурацию из YAML файла поверх значений по умолчанию
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", filename, err)
	}

	return Parse(data)
}

// LoadOrDefault как Load, но при отсутствии файла возвращает конфигурацию по умолчанию
func LoadOrDefault(filename string) (*Config, error) {
	cfg, err := Load(filename)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		return cfg, validateConfig(cfg)
	}
	return cfg, err
}

// Parse разбирает YAML и проверяет результат
func Parse(data []byte) (*Config, error) {
	config := Default()
	err := yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга YAML: %w", err)
	}

	// Валидация конфигурации
	err = validateConfig(config)
	if err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	return config, nil
}

// validateConfig проверяет корректность конфигурации
func validateConfig(config *Config) error {
	if err := validator.New().Struct(config); err != nil {
		return err
	}

	if config.Telegram.CleanupInterval > config.Telegram.SessionTTL {
		return fmt.Errorf("cleanup_interval (%s) не может быть больше session_ttl (%s)",
			config.Telegram.CleanupInterval, config.Telegram.SessionTTL)
	}

	return nil
}
