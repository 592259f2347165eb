package config

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Session     SessionConfig     `yaml:"session"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	Language    LanguageConfig    `yaml:"language"`
	Input       InputConfig       `yaml:"input"`
	Paths       PathsConfig       `yaml:"paths"`
	Export      ExportConfig      `yaml:"export"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Cache       CacheConfig       `yaml:"cache"`
	Tracing     TracingConfig     `yaml:"tracing"`
}

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	StaticDir   string `yaml:"static_dir"`
	BodyLimitMB int    `yaml:"body_limit_mb"`
	CorsOrigins string `yaml:"cors_origins"`
}

type SessionConfig struct {
	TTL      time.Duration `yaml:"ttl"`
	Backend  string        `yaml:"backend"` // "memory" or "redis"
	RedisURL string        `yaml:"redis_url"`
}

type GeminiConfig struct {
	Model          string        `yaml:"model"`
	BaseURL        string        `yaml:"base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type LanguageConfig struct {
	Summary string `yaml:"summary"`
	Target  string `yaml:"target"`
}

type InputConfig struct {
	StripTimestamps bool  `yaml:"strip_timestamps"`
	MaxFileBytes    int64 `yaml:"max_file_bytes"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
}

type ExportConfig struct {
	Formats   []string `yaml:"formats"`
	Translate bool     `yaml:"translate"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	FilePath string `yaml:"file_path"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

type CacheConfig struct {
	Path string `yaml:"path"`
}

type TracingConfig struct {
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
	Insecure    bool   `yaml:"insecure"`
}

// Load reads a YAML config file and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration used when no file overrides a field.
func Default() *Config {
	return &Config{
		Input: InputConfig{StripTimestamps: true},
	}
}

func (c *Config) Validate() error {
	if c.Session.Backend == "" {
		c.Session.Backend = "memory"
	}
	if c.Session.Backend != "memory" && c.Session.Backend != "redis" {
		return fmt.Errorf("session.backend must be memory or redis, got %q", c.Session.Backend)
	}
	if c.Session.Backend == "redis" && c.Session.RedisURL == "" {
		return fmt.Errorf("session.redis_url is required for the redis backend")
	}
	if _, err := language.Parse(c.languageOr(c.Language.Target, "it")); err != nil {
		return fmt.Errorf("language.target: %w", err)
	}
	if _, err := language.Parse(c.languageOr(c.Language.Summary, "it")); err != nil {
		return fmt.Errorf("language.summary: %w", err)
	}
	for _, f := range c.Export.Formats {
		if f != "txt" && f != "docx" {
			return fmt.Errorf("export.formats: unsupported format %q", f)
		}
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.BodyLimitMB == 0 {
		c.Server.BodyLimitMB = 10
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = 12 * time.Hour
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Gemini.RequestTimeout == 0 {
		c.Gemini.RequestTimeout = 2 * time.Minute
	}
	if c.Language.Target == "" {
		c.Language.Target = "it"
	}
	if c.Language.Summary == "" {
		c.Language.Summary = "it"
	}
	if c.Input.MaxFileBytes == 0 {
		c.Input.MaxFileBytes = 5 << 20
	}
	if c.Paths.Input == "" {
		c.Paths.Input = "data/input"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if len(c.Export.Formats) == 0 {
		c.Export.Formats = []string{"txt"}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "transcript-flow"
	}

	return nil
}

// TargetLanguage returns the parsed translation target. Validate must have run.
func (c *Config) TargetLanguage() language.Tag {
	return language.MustParse(c.Language.Target)
}

// SummaryLanguage returns the language summaries are written in.
func (c *Config) SummaryLanguage() language.Tag {
	return language.MustParse(c.Language.Summary)
}

func (c *Config) languageOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
