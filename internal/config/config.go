package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Download DownloadConfig `yaml:"download"`
	Storage  StorageConfig  `yaml:"storage"`
	Worker   WorkerConfig   `yaml:"worker"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host           string        `yaml:"host" envconfig:"SERVER_HOST"`
	Port           int           `yaml:"port" envconfig:"SERVER_PORT"`
	ReadTimeout    time.Duration `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT"`
	RequestTimeout time.Duration `yaml:"request_timeout" envconfig:"SERVER_REQUEST_TIMEOUT"`
	AllowedOrigins []string      `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
}

// GeminiConfig holds generative AI provider configuration.
type GeminiConfig struct {
	APIKey            string        `yaml:"api_key" envconfig:"GEMINI_API_KEY"`
	BaseURL           string        `yaml:"base_url" envconfig:"GEMINI_BASE_URL"`
	Model             string        `yaml:"model" envconfig:"GEMINI_MODEL"`
	CacheModel        string        `yaml:"cache_model" envconfig:"GEMINI_CACHE_MODEL"`
	SystemInstruction string        `yaml:"system_instruction" envconfig:"GEMINI_SYSTEM_INSTRUCTION"`
	CacheTTL          time.Duration `yaml:"cache_ttl" envconfig:"GEMINI_CACHE_TTL"`
	FilePollInterval  time.Duration `yaml:"file_poll_interval" envconfig:"GEMINI_FILE_POLL_INTERVAL"`
	FileActiveTimeout time.Duration `yaml:"file_active_timeout" envconfig:"GEMINI_FILE_ACTIVE_TIMEOUT"`
}

// DownloadConfig holds video download configuration.
type DownloadConfig struct {
	Binary  string        `yaml:"binary" envconfig:"DOWNLOAD_BINARY"`
	Format  string        `yaml:"format" envconfig:"DOWNLOAD_FORMAT"`
	Timeout time.Duration `yaml:"timeout" envconfig:"DOWNLOAD_TIMEOUT"` // 0 = no deadline
}

// StorageConfig holds local scratch storage configuration.
type StorageConfig struct {
	TempPath string `yaml:"temp_path" envconfig:"STORAGE_TEMP_PATH"` // empty = os.TempDir()
}

// WorkerConfig holds background task configuration.
type WorkerConfig struct {
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"WORKER_SHUTDOWN_TIMEOUT"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `yaml:"level" envconfig:"LOG_LEVEL"`
}

// Default returns the configuration used when neither the file nor the
// environment sets a value.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8000,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   5 * time.Minute,
			RequestTimeout: 5 * time.Minute,
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Gemini: GeminiConfig{
			Model:             "models/gemini-2.0-flash",
			CacheModel:        "models/gemini-1.5-flash-001",
			SystemInstruction: "You are an expert at analyzing youtube videos.",
			FilePollInterval:  2 * time.Second,
			FileActiveTimeout: 5 * time.Minute,
		},
		Download: DownloadConfig{
			Binary: "yt-dlp",
			Format: "best",
		},
		Worker: WorkerConfig{
			ShutdownTimeout: 25 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds configuration from defaults, then the optional YAML file, then
// environment variables. Only variables that are actually set override the
// layers below them.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_ORIGINS must list at least one origin")
	}
	if c.Download.Format == "" {
		return fmt.Errorf("DOWNLOAD_FORMAT is required")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TempDir returns the directory for temporary downloads.
func (c *StorageConfig) TempDir() string {
	if c.TempPath == "" {
		return os.TempDir()
	}
	return c.TempPath
}

// SlogLevel parses the configured level name.
func (c *LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if c.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.Level, err)
	}
	return level, nil
}
