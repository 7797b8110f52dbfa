package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const defaultConfigPath = "config/assistant.yaml"

// ConfigPath возвращает путь к YAML конфигурации
func ConfigPath() string {
	return getEnv("ASSISTANT_CONFIG", defaultConfigPath)
}

// ApplyEnv переопределяет значения из переменных окружения
func (c *Config) ApplyEnv() {
	c.Telegram.Token = getEnv("TELEGRAM_BOT_TOKEN", c.Telegram.Token)
	c.Telegram.RateLimit = getEnvAsInt("TELEGRAM_RATE_LIMIT", c.Telegram.RateLimit)
	c.Telegram.SessionTTL = getEnvAsDuration("TELEGRAM_SESSION_TTL", c.Telegram.SessionTTL)
	c.Assistant.CompanyName = getEnv("COMPANY_NAME", c.Assistant.CompanyName)
	c.Storage.ExportDir = getEnv("EXPORT_DIR", c.Storage.ExportDir)
	c.Storage.DatabasePath = getEnv("DATABASE_PATH", c.Storage.DatabasePath)
	c.Metrics.ListenAddr = getEnv("METRICS_ADDR", c.Metrics.ListenAddr)
}

// LoadAppConfig загружает файл конфигурации, применяет окружение и проверяет результат
func LoadAppConfig() (*Config, error) {
	cfg, err := LoadOrDefault(ConfigPath())
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnv()
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}
	return cfg, nil
}

// RequireTelegramToken проверяет наличие токена бота
func (c *Config) RequireTelegramToken() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN не установлен")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
