package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all hearthside configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Content  ContentConfig  `yaml:"content"`
	Game     GameConfig     `yaml:"game"`
}

type ServerConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type ContentConfig struct {
	// Dir overrides the embedded content tables with a directory of YAML
	// files. Empty means embedded defaults only.
	Dir string `yaml:"dir"`
}

type GameConfig struct {
	// StartingFunds seeds the player wallet on first run.
	StartingFunds int `yaml:"starting_funds"`
	// RandomSeed pins the random source; 0 means time-seeded.
	RandomSeed int64 `yaml:"random_seed"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 37780,
		},
		Database: DatabaseConfig{
			Path: "", // resolved at runtime via store.DefaultDBPath()
		},
		Game: GameConfig{
			StartingFunds: 500,
		},
	}
}

// Load reads a YAML config file over the defaults. A missing path returns
// defaults; a missing file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
