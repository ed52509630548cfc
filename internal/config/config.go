// Package config loads doc2slides settings from YAML, .env and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/thywilljoshua/doc-to-slides/internal/ai"
	"github.com/thywilljoshua/doc-to-slides/internal/logging"
	"github.com/thywilljoshua/doc-to-slides/internal/render"
	"github.com/thywilljoshua/doc-to-slides/internal/slides"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	AI       AIConfig       `yaml:"ai"`
	Export   ExportConfig   `yaml:"export"`
	Upload   UploadConfig   `yaml:"upload"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

func (s ServerConfig) Addr() string { return fmt.Sprintf("%s:%d", s.Host, s.Port) }

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type AIConfig struct {
	Provider      string `yaml:"provider"` // openai, gemini or off
	Model         string `yaml:"model"`
	APIKey        string `yaml:"api_key"`
	BaseURL       string `yaml:"base_url"`
	MaxInputChars int    `yaml:"max_input_chars"`
}

type ExportConfig struct {
	PageWidthMM  float64 `yaml:"page_width_mm"`
	PageHeightMM float64 `yaml:"page_height_mm"`
	PaddingMM    float64 `yaml:"padding_mm"`
	Scale        float64 `yaml:"scale"`
	JPEGQuality  int     `yaml:"jpeg_quality"`
}

type UploadConfig struct {
	MaxBytes int64 `yaml:"max_bytes"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// Load reads path (optional) over Default, then .env files and environment
// overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// A missing .env is normal outside development.
	_ = godotenv.Load()

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func Default() *Config {
	exp := render.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8080,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     5 * time.Minute,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 10 * time.Second,
		},
		Database: DatabaseConfig{Path: "data/doc2slides.db"},
		AI: AIConfig{
			Provider:      string(ai.ProviderOpenAI),
			MaxInputChars: slides.DefaultMaxInputChars,
		},
		Export: ExportConfig{
			PageWidthMM:  exp.PageWidthMM,
			PageHeightMM: exp.PageHeightMM,
			PaddingMM:    exp.PaddingMM,
			Scale:        exp.Scale,
			JPEGQuality:  exp.JPEGQuality,
		},
		Upload: UploadConfig{MaxBytes: 20 << 20},
		Log:    LogConfig{Level: "info", Format: "console"},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DOC2SLIDES_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("DOC2SLIDES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DOC2SLIDES_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("DOC2SLIDES_AI_PROVIDER"); v != "" {
		cfg.AI.Provider = v
	}
	if v := os.Getenv("DOC2SLIDES_AI_MODEL"); v != "" {
		cfg.AI.Model = v
	}
	if v := os.Getenv("DOC2SLIDES_AI_BASE_URL"); v != "" {
		cfg.AI.BaseURL = v
	}
	if cfg.AI.APIKey == "" {
		switch ai.Provider(strings.ToLower(cfg.AI.Provider)) {
		case ai.ProviderOpenAI:
			cfg.AI.APIKey = os.Getenv("OPENAI_API_KEY")
		case ai.ProviderGemini:
			cfg.AI.APIKey = os.Getenv("GOOGLE_API_KEY")
		}
	}
	if v := os.Getenv("DOC2SLIDES_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("DOC2SLIDES_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

func (c *Config) Validate() error {
	var problems []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		problems = append(problems, errors.New("database.path is required"))
	}
	switch ai.Provider(strings.ToLower(c.AI.Provider)) {
	case ai.ProviderOpenAI, ai.ProviderGemini, ai.ProviderOff:
	default:
		problems = append(problems, fmt.Errorf("ai.provider %q must be openai, gemini or off", c.AI.Provider))
	}
	if c.AI.MaxInputChars <= 0 {
		problems = append(problems, errors.New("ai.max_input_chars must be positive"))
	}
	if err := c.RenderConfig().Validate(); err != nil {
		problems = append(problems, fmt.Errorf("export: %w", err))
	}
	if c.Upload.MaxBytes <= 0 {
		problems = append(problems, errors.New("upload.max_bytes must be positive"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		problems = append(problems, fmt.Errorf("log.format %q must be json or console", c.Log.Format))
	}
	return errors.Join(problems...)
}

func (c *Config) RenderConfig() render.Config {
	return render.Config{
		PageWidthMM:  c.Export.PageWidthMM,
		PageHeightMM: c.Export.PageHeightMM,
		PaddingMM:    c.Export.PaddingMM,
		Scale:        c.Export.Scale,
		JPEGQuality:  c.Export.JPEGQuality,
	}
}

func (c *Config) AIConfig() ai.Config {
	return ai.Config{
		Provider: ai.Provider(strings.ToLower(c.AI.Provider)),
		Model:    c.AI.Model,
		APIKey:   c.AI.APIKey,
		BaseURL:  c.AI.BaseURL,
	}
}

func (c *Config) LoggingConfig() logging.Config {
	return logging.Config{Level: c.Log.Level, Format: c.Log.Format}
}
