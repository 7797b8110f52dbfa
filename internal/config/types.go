package config

import "time"

// Config представляет конфигурацию ассистента
type Config struct {
	Assistant AssistantConfig `yaml:"assistant"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Storage   StorageConfig   `yaml:"storage"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// AssistantConfig содержит настройки текстов
type AssistantConfig struct {
	CompanyName string `yaml:"company_name" validate:"required"`
}

// TelegramConfig содержит настройки чат-бота
type TelegramConfig struct {
	Token            string        `yaml:"-"`
	RateLimit        int           `yaml:"rate_limit" validate:"gte=1"`
	RateWindow       time.Duration `yaml:"rate_window" validate:"gt=0"`
	SessionTTL       time.Duration `yaml:"session_ttl" validate:"gt=0"`
	CleanupInterval  time.Duration `yaml:"cleanup_interval" validate:"gt=0"`
	MaxMessageLength int           `yaml:"max_message_length" validate:"gte=1,lte=4096"`
	PollTimeout      time.Duration `yaml:"poll_timeout" validate:"gte=0"`
}

// StorageConfig определяет, куда сохраняются результаты
type StorageConfig struct {
	ExportDir    string `yaml:"export_dir" validate:"required"`
	DatabasePath string `yaml:"database_path"`
}

// MetricsConfig определяет адрес /metrics; пустой адрес отключает сервер
type MetricsConfig struct {
	ListenAddr string `yaml:"listen_addr" validate:"omitempty,hostname_port"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Assistant: AssistantConfig{
			CompanyName: "TalentScout",
		},
		Telegram: TelegramConfig{
			RateLimit:        10,
			RateWindow:       time.Minute,
			SessionTTL:       24 * time.Hour,
			CleanupInterval:  time.Hour,
			MaxMessageLength: 4000,
			PollTimeout:      30 * time.Second,
		},
		Storage: StorageConfig{
			ExportDir:    "exports",
			DatabasePath: "screenings.db",
		},
	}
}

// Методы для удобного доступа к конфигурации
func (c *Config) GetCompanyName() string {
	return c.Assistant.CompanyName
}

func (c *Config) GetExportDir() string {
	return c.Storage.ExportDir
}

func (c *Config) MetricsEnabled() bool {
	return c.Metrics.ListenAddr != ""
}
