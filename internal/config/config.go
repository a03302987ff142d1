// Package config provides configuration management with CLI > env > file precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/tnglemongrass/askai/internal/logging"
	"github.com/tnglemongrass/askai/internal/prompts"
)

const fileName = ".askai.conf.yml"

// Config holds all configuration options for askai.
type Config struct {
	Model          string        `yaml:"model"`
	APIKey         string        `yaml:"api-key"`
	APIBase        string        `yaml:"api-base"`
	Endpoint       string        `yaml:"endpoint"`
	MaxTokens      int           `yaml:"max-tokens"`
	Temperature    *float64      `yaml:"temperature"`
	SystemPrompt   string        `yaml:"system-prompt"`
	Language       string        `yaml:"language"`
	ConnectTimeout time.Duration `yaml:"connect-timeout"`
	ReadTimeout    time.Duration `yaml:"read-timeout"`
	WriteTimeout   time.Duration `yaml:"write-timeout"`
	LogLevel       string        `yaml:"log-level"`
	LogFile        string        `yaml:"log-file"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Model:          "Qwen/Qwen2.5-72B-Instruct",
		APIBase:        "https://api.siliconflow.cn/v1",
		MaxTokens:      150,
		Language:       prompts.DefaultLanguage,
		ConnectTimeout: 30 * time.Second,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		LogLevel:       "error",
	}
}

// Load builds a Config by merging CLI flags, environment variables, and config files.
// Precedence: CLI args > env vars > config files (cwd then $HOME).
func Load(args []string) (*Config, error) {
	cfg := DefaultConfig()

	// Load config files (lowest precedence first, then overwrite).
	if home, err := os.UserHomeDir(); err == nil {
		if err := cfg.loadYAML(filepath.Join(home, fileName)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	if err := cfg.loadYAML(fileName); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	// Load .env files.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	// Parse CLI flags (highest precedence).
	if err := cfg.parseFlags(args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ChatEndpoint returns the URL chat requests are posted to.
func (c *Config) ChatEndpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return strings.TrimRight(c.APIBase, "/") + "/chat/completions"
}

// Phrases returns the fixed texts for the configured language, with the
// configured system prompt applied.
func (c *Config) Phrases() prompts.Phrases {
	p := prompts.For(c.Language)
	if c.SystemPrompt != "" {
		p.SystemPrompt = c.SystemPrompt
	}
	return p
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max-tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Endpoint == "" && c.APIBase == "" {
		return errors.New("either api-base or endpoint must be set")
	}
	for name, d := range map[string]time.Duration{
		"connect-timeout": c.ConnectTimeout,
		"read-timeout":    c.ReadTimeout,
		"write-timeout":   c.WriteTimeout,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative, got %s", name, d)
		}
	}
	if !prompts.Supported(c.Language) {
		return fmt.Errorf("unsupported language %q (supported: %s)", c.Language, strings.Join(prompts.Languages(), ", "))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("ASKAI_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_BASE"); v != "" {
		c.APIBase = v
	}
	if v := os.Getenv("ASKAI_ENDPOINT"); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv("ASKAI_LANGUAGE"); v != "" {
		c.Language = v
	}
	if v := os.Getenv("ASKAI_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("ASKAI_TEMPERATURE"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("ASKAI_TEMPERATURE: %w", err)
		}
		c.Temperature = &t
	}
	return nil
}

func (c *Config) parseFlags(args []string) error {
	fs := flag.NewFlagSet("askai", flag.ContinueOnError)
	fs.StringVar(&c.Model, "model", c.Model, "Model name to use")
	fs.StringVar(&c.APIKey, "api-key", c.APIKey, "API key")
	fs.StringVar(&c.APIBase, "api-base", c.APIBase, "API base URL")
	fs.StringVar(&c.Endpoint, "endpoint", c.Endpoint, "Chat completion URL (default <api-base>/chat/completions)")
	fs.IntVar(&c.MaxTokens, "max-tokens", c.MaxTokens, "Maximum tokens per answer")
	temperature := fs.Float64("temperature", 0, "Sampling temperature (omitted unless set)")
	fs.StringVar(&c.SystemPrompt, "system-prompt", c.SystemPrompt, "System prompt sent with every question")
	fs.StringVar(&c.Language, "language", c.Language, "Transcript language (zh, en)")
	fs.DurationVar(&c.ConnectTimeout, "connect-timeout", c.ConnectTimeout, "Connect timeout")
	fs.DurationVar(&c.ReadTimeout, "read-timeout", c.ReadTimeout, "Read timeout")
	fs.DurationVar(&c.WriteTimeout, "write-timeout", c.WriteTimeout, "Write timeout")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "Write logs to this file instead of stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.Changed("temperature") {
		c.Temperature = temperature
	}
	return nil
}
