package web

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the server configuration, loaded from YAML with environment
// variable overrides for the deployment-specific values.
type Config struct {
	Addr     string      `yaml:"addr"`
	DataDir  string      `yaml:"data_dir"`
	LogLevel string      `yaml:"log_level"`
	Redis    RedisConfig `yaml:"redis"`
}

// RedisConfig selects the Redis backend; an empty Addr keeps games in memory.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Addr:     ":8080",
		DataDir:  "data",
		LogLevel: "info",
		Redis: RedisConfig{
			TTL: 24 * time.Hour,
		},
	}
}

// LoadConfig reads a YAML config file and applies environment overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("POLITICARD_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("POLITICARD_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("POLITICARD_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("POLITICARD_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("POLITICARD_REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
}
