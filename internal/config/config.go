package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server" json:"server"`
	Storage StorageConfig `yaml:"storage" json:"storage"`
	Grid    GridConfig    `yaml:"grid" json:"grid"`
	Sync    SyncConfig    `yaml:"sync" json:"sync"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

type StorageConfig struct {
	// Driver selects the store backend: "sqlite" or "memory".
	Driver string `yaml:"driver" json:"driver"`
	Path   string `yaml:"path" json:"path"`
}

type GridConfig struct {
	// Default hourly rows seeded into an empty grid, [DayStartHour, DayEndHour).
	DayStartHour int `yaml:"day_start_hour" json:"day_start_hour"`
	DayEndHour   int `yaml:"day_end_hour" json:"day_end_hour"`
}

type SyncConfig struct {
	Workers   int  `yaml:"workers" json:"workers"`
	QueueSize int  `yaml:"queue_size" json:"queue_size"`
	OnStartup bool `yaml:"on_startup" json:"on_startup"`
}

func (c *Config) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "sqlite"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "data/planner.db"
	}
	if c.Grid.DayStartHour == 0 {
		c.Grid.DayStartHour = 7
	}
	if c.Grid.DayEndHour == 0 {
		c.Grid.DayEndHour = 23
	}
	if c.Sync.Workers == 0 {
		c.Sync.Workers = 1
	}
	if c.Sync.QueueSize == 0 {
		c.Sync.QueueSize = 8
	}
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Grid.DayStartHour < 0 || c.Grid.DayStartHour > 23 {
		return fmt.Errorf("day_start_hour %d out of range", c.Grid.DayStartHour)
	}
	if c.Grid.DayEndHour <= c.Grid.DayStartHour || c.Grid.DayEndHour > 24 {
		return fmt.Errorf("day_end_hour %d out of range", c.Grid.DayEndHour)
	}
	return nil
}

// Load reads a YAML config file. A missing file is not an error: the
// planner runs fine on defaults plus environment overrides.
func Load(path string) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	c.ApplyDefaults()
	applyEnv(&c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
