package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultGradingURL = "http://localhost:8000"
	DefaultAuthURL    = "http://localhost:4000"
	DefaultPQRSURL    = "http://localhost:5000"

	DefaultTimeout      = 10 * time.Second
	DefaultPollInterval = 3 * time.Second
	DefaultPageSize     = 50
	DefaultStatePath    = "configs/session.json"
)

// Config holds CLI configuration. Each backend service has its own base URL
// because they are separate deployments.
type Config struct {
	GradingURL   string        `yaml:"gradingURL"`
	AuthURL      string        `yaml:"authURL"`
	PQRSURL      string        `yaml:"pqrsURL"`
	Timeout      time.Duration `yaml:"timeout"`
	PollInterval time.Duration `yaml:"pollInterval"`
	PageSize     int           `yaml:"pageSize"`
	StatePath    string        `yaml:"statePath"`
	PrettyJSON   *bool         `yaml:"prettyJSON"`
	LogLevel     string        `yaml:"logLevel"`
	LogFormat    string        `yaml:"logFormat"`
}

// Load reads a YAML config file, then applies .env / environment overrides
// and defaults. A missing config file is not an error; env and defaults
// still apply.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file failed: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read config file failed: %w", err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv layers environment variables over the file. A .env in the
// working directory is loaded first, without overriding the real env.
func applyEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("VJUDGE_API_URL"); v != "" {
		cfg.GradingURL = v
	}
	if v := os.Getenv("VJUDGE_AUTH_URL"); v != "" {
		cfg.AuthURL = v
	}
	if v := os.Getenv("VJUDGE_PQRS_URL"); v != "" {
		cfg.PQRSURL = v
	}
	if v := os.Getenv("VJUDGE_STATE_PATH"); v != "" {
		cfg.StatePath = v
	}
	if v := os.Getenv("VJUDGE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("VJUDGE_TIMEOUT"); v != "" {
		if dur, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = dur
		}
	}
	if v := os.Getenv("VJUDGE_POLL_INTERVAL"); v != "" {
		if dur, err := time.ParseDuration(v); err == nil {
			cfg.PollInterval = dur
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.GradingURL == "" {
		cfg.GradingURL = DefaultGradingURL
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = DefaultAuthURL
	}
	if cfg.PQRSURL == "" {
		cfg.PQRSURL = DefaultPQRSURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.StatePath == "" {
		cfg.StatePath = DefaultStatePath
	}
	if cfg.PrettyJSON == nil {
		value := true
		cfg.PrettyJSON = &value
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
	}
}

func (cfg Config) validate() error {
	if cfg.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if cfg.PollInterval < 0 {
		return fmt.Errorf("pollInterval must not be negative")
	}
	if cfg.PageSize < 0 {
		return fmt.Errorf("pageSize must not be negative")
	}
	return nil
}
