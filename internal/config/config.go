package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/circlerender/internal/compute"
	"github.com/san-kum/circlerender/internal/render"
	"github.com/san-kum/circlerender/internal/scene"
)

const (
	DefaultWidth  = 768
	DefaultHeight = 768
	DefaultFrames = 60
	DefaultDir    = ".circlerender"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Scene      string `yaml:"scene"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Frames     int    `yaml:"frames"`
	Workers    int    `yaml:"workers"`
	Backend    string `yaml:"backend"`
	Compositor string `yaml:"compositor"`
	TileSize   int    `yaml:"tile_size"`
	LogLevel   string `yaml:"log_level"`
	DataDir    string `yaml:"data_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:      string(scene.RGB),
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Frames:     DefaultFrames,
		Backend:    compute.KindCPU,
		Compositor: render.KindTiled,
		TileSize:   render.DefaultTileSize,
		LogLevel:   "warn",
		DataDir:    DefaultDir,
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
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

func (c *Config) Validate() error {
	if _, err := scene.ParseName(c.Scene); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: image %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.Frames < 0 {
		return fmt.Errorf("%w: frames %d", ErrInvalidConfig, c.Frames)
	}
	if _, err := compute.New(c.Backend, 1); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Compositor != render.KindTiled && c.Compositor != render.KindReference {
		return fmt.Errorf("%w: compositor %q", ErrInvalidConfig, c.Compositor)
	}
	if c.TileSize < 0 {
		return fmt.Errorf("%w: tile size %d", ErrInvalidConfig, c.TileSize)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// SceneName returns the parsed scene, accepting aliases and any case.
func (c *Config) SceneName() scene.Name {
	n, err := scene.ParseName(c.Scene)
	if err != nil {
		return scene.RGB
	}
	return n
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", s)
	}
}
