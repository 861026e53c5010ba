package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig — корневая структура конфигурации.
// Она зеркалит структуру config.yaml рядом с бинарником.
type AppConfig struct {
	Models ModelsConfig `yaml:"models"`
	Server ServerConfig `yaml:"server"`
	S3     S3Config     `yaml:"s3"`
	Vision VisionConfig `yaml:"vision"`
	App    AppSpecific  `yaml:"app"`
}

// ModelsConfig — настройки AI моделей.
type ModelsConfig struct {
	DefaultVision string              `yaml:"default_vision"` // Алиас по умолчанию (например, "qwen-vl-plus")
	Definitions   map[string]ModelDef `yaml:"definitions"`    // Словарь определений моделей
}

// ModelDef — параметры конкретной модели.
type ModelDef struct {
	Provider  string        `yaml:"provider"`   // "openai", "dashscope", "zai" и т.д.
	ModelName string        `yaml:"model_name"` // Реальное имя в API
	APIKey    string        `yaml:"api_key"`    // Поддерживает ${VAR}
	BaseURL   string        `yaml:"base_url"`   // Для OpenAI-совместимых провайдеров
	Timeout   time.Duration `yaml:"timeout"`    // Go умеет парсить строки вида "60s", "2m"
	RateLimit int           `yaml:"rate_limit"` // Запросов в минуту, 0 = без лимита
	Burst     int           `yaml:"burst"`      // Burst для rate limiter
}

// GetDefaults возвращает копию с заполненными дефолтами.
func (m ModelDef) GetDefaults() ModelDef {
	result := m

	if result.Timeout == 0 {
		result.Timeout = 60 * time.Second
	}
	if result.Burst == 0 {
		result.Burst = 1
	}

	return result
}

// ServerConfig — сетевые настройки MCP сервера.
//
// Host пустой → сервер работает через stdio (JSON-RPC построчно).
// Host задан → HTTP JSON-RPC на host:port.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr возвращает адрес для HTTP режима.
func (s ServerConfig) Addr() string {
	port := s.Port
	if port == 0 {
		port = 8000
	}
	return fmt.Sprintf("%s:%d", s.Host, port)
}

// S3Config — настройки объектного хранилища для s3:// ссылок на изображения.
// Секция опциональна: без неё s3:// ссылки отклоняются с понятной ошибкой.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"` // Поддерживает ${VAR}
	SecretKey string `yaml:"secret_key"` // Поддерживает ${VAR}
	UseSSL    bool   `yaml:"use_ssl"`
}

// Enabled сообщает настроено ли хранилище.
func (s S3Config) Enabled() bool {
	return s.Endpoint != ""
}

// VisionConfig — поведение анализа изображений.
type VisionConfig struct {
	// SystemPrompt для анализа с контекстом. Пусто → дефолтный промпт.
	SystemPrompt string `yaml:"system_prompt"`
	// DefaultQuery когда вызывающая сторона не передала query. Пусто → дефолт.
	DefaultQuery string `yaml:"default_query"`
}

// AppSpecific — общие настройки приложения.
type AppSpecific struct {
	Debug bool `yaml:"debug"`
}

// Load читает YAML файл, подставляет ENV переменные и возвращает готовую структуру.
func Load(path string) (*AppConfig, error) {
	// 1. Проверяем существование файла
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found at: %s", path)
	}

	// 2. Читаем файл целиком
	rawBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 3. Подставляем переменные окружения.
	// os.ExpandEnv заменяет ${VAR} или $VAR на значение из системы.
	contentWithEnv := os.ExpandEnv(string(rawBytes))

	// 4. Парсим YAML в структуру
	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(contentWithEnv), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	// 5. Валидируем критические настройки
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// validate проверяет обязательные поля.
func (c *AppConfig) validate() error {
	if len(c.Models.Definitions) == 0 {
		return fmt.Errorf("models.definitions is required: define at least one vision model")
	}
	if c.Models.DefaultVision == "" {
		return fmt.Errorf("models.default_vision is required")
	}
	if _, ok := c.Models.Definitions[c.Models.DefaultVision]; !ok {
		return fmt.Errorf("default_vision model '%s' is not defined in definitions", c.Models.DefaultVision)
	}
	if c.S3.Enabled() {
		if c.S3.AccessKey == "" || c.S3.SecretKey == "" {
			return fmt.Errorf("s3.access_key and s3.secret_key are required when s3.endpoint is set")
		}
	}
	return nil
}

// GetVisionModel возвращает конфигурацию модели по умолчанию или по алиасу.
// Второе значение false если алиас не определён в конфиге.
func (c *AppConfig) GetVisionModel(name string) (ModelDef, bool) {
	if name == "" {
		name = c.Models.DefaultVision
	}
	m, ok := c.Models.Definitions[name]
	if !ok {
		return ModelDef{}, false
	}
	return m.GetDefaults(), true
}
