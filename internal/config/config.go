// Package config handles Kinship configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds all configuration
type Config struct {
	// Paths
	DataDir string `json:"data_dir"`

	// Server
	Server ServerConfig `json:"server"`

	// Optional Redis-backed cooldown registry. When disabled, dismissals
	// are persisted in the local database instead.
	Redis RedisConfig `json:"redis"`

	// Engine
	Engine EngineConfig `json:"engine"`
}

// ServerConfig for HTTP server
type ServerConfig struct {
	Port int    `json:"port"`
	Host string `json:"host"`
}

// RedisConfig for the optional Redis cooldown backend
type RedisConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
	DB      int    `json:"db"`
}

// EngineConfig for suggestion generation
type EngineConfig struct {
	RefreshMinutes  int `json:"refresh_minutes"`  // how often suggestions regenerate
	MaxConcurrency  int `json:"max_concurrency"`  // relationships scored in parallel
	BatchBudgetSecs int `json:"batch_budget_secs"` // 0 = no wall-clock budget
}

// Default returns default configuration
func Default() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		DataDir: filepath.Join(home, ".kinship"),
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Redis: RedisConfig{
			Enabled: false,
			Addr:    "localhost:6379",
			DB:      0,
		},
		Engine: EngineConfig{
			RefreshMinutes:  30,
			MaxConcurrency:  8,
			BatchBudgetSecs: 0,
		},
	}
}

// Load loads config from file, falling back to defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = filepath.Join(cfg.DataDir, "config.json")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// Env override for Redis address
	if addr := os.Getenv("KINSHIP_REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
		cfg.Redis.Enabled = true
	}

	return cfg, nil
}

// Save saves config to file
func (c *Config) Save(path string) error {
	if path == "" {
		path = filepath.Join(c.DataDir, "config.json")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// DatabasePath returns the path of the sqlite database inside DataDir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "kinship.db")
}
