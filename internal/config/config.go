package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sortviz/internal/engine"
	"github.com/san-kum/sortviz/internal/run"
	"github.com/san-kum/sortviz/internal/sequence"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

const (
	DefaultFPS      = 30
	MaxFPS          = 120
	DefaultDataDir  = ".sortviz"
	DefaultTheme    = "classic"
	DefaultLogLevel = "info"
)

type Config struct {
	Algorithm string `yaml:"algorithm"`
	Size      int    `yaml:"size"`
	SpeedMs   int    `yaml:"speed_ms"`
	Seed      int64  `yaml:"seed"`
	Theme     string `yaml:"theme"`
	DataDir   string `yaml:"data_dir"`
	FPS       int    `yaml:"fps"`
	LogLevel  string `yaml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		Algorithm: engine.Bubble.Key(),
		Size:      sequence.DefaultSize,
		SpeedMs:   run.DefaultSpeedMs,
		Theme:     DefaultTheme,
		DataDir:   DefaultDataDir,
		FPS:       DefaultFPS,
		LogLevel:  DefaultLogLevel,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate clamps numeric fields into range and rejects values that cannot be
// clamped, such as an unknown algorithm.
func (c *Config) Validate() error {
	alg, err := engine.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	c.Algorithm = alg.Key()
	if c.Size <= 0 {
		c.Size = sequence.DefaultSize
	}
	c.Size = min(max(c.Size, sequence.MinSize), sequence.MaxSize)
	c.SpeedMs = min(max(c.SpeedMs, 0), run.MaxSpeedMs)
	if c.FPS <= 0 {
		c.FPS = DefaultFPS
	}
	c.FPS = min(c.FPS, MaxFPS)
	if c.Theme == "" {
		c.Theme = DefaultTheme
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	return nil
}

func (c *Config) AlgorithmValue() engine.Algorithm {
	alg, err := engine.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return engine.Bubble
	}
	return alg
}
