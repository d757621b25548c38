package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/naoina/toml"

	"github.com/IvanBrykalov/lodcache/internal/util"
)

// Config holds every tunable of a run. Values come from defaults, then an
// optional TOML file, then command-line flags.
type Config struct {
	LeafSize    int     `toml:"leaf_size"`
	Capacity    int     `toml:"capacity"`
	PruneFactor float64 `toml:"prune_factor"`
	Preload     bool    `toml:"preload"`
	Morph       bool    `toml:"morph"`

	Trees  int     `toml:"trees"`
	Steps  int     `toml:"steps"`
	Levels int     `toml:"levels"`
	Speed  float64 `toml:"speed"`
	FPS    float64 `toml:"fps"`
	Seed   uint64  `toml:"seed"`

	MetricsAddr string `toml:"metrics_addr"`
	LogLevel    string `toml:"log_level"`
	LogFile     string `toml:"log_file"`
	Dump        bool   `toml:"dump"`
}

func defaultConfig() Config {
	return Config{
		LeafSize:    64,
		Capacity:    512,
		PruneFactor: 0.75,
		Trees:       4,
		Steps:       10_000,
		Levels:      4,
		Speed:       8,
		Seed:        1,
		LogLevel:    "info",
	}
}

// loadConfig overlays the TOML file at path onto cfg.
func loadConfig(path string, cfg *Config) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c Config) validate() error {
	switch {
	case c.LeafSize < 2 || !util.IsPowerOfTwo(uint64(c.LeafSize)):
		return fmt.Errorf("leaf size %d must be a power of two >= 2 (try %d)",
			c.LeafSize, max(2, util.NextPow2(uint64(max(c.LeafSize, 0)))))
	case c.Capacity < 1:
		return fmt.Errorf("capacity %d must be >= 1", c.Capacity)
	case c.PruneFactor <= 0 || c.PruneFactor >= 1:
		return fmt.Errorf("prune factor %g must be in (0,1)", c.PruneFactor)
	case c.Trees < 1:
		return fmt.Errorf("trees %d must be >= 1", c.Trees)
	case c.Levels < 1:
		return fmt.Errorf("levels %d must be >= 1", c.Levels)
	case c.Steps < 0:
		return fmt.Errorf("steps %d must be >= 0", c.Steps)
	case c.FPS < 0:
		return fmt.Errorf("fps %g must be >= 0", c.FPS)
	}
	return nil
}
