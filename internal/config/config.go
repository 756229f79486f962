package config

import (
	"fmt"
	"os"

	"github.com/san-kum/terrainbg/internal/quality"
	"gopkg.in/yaml.v3"
)

const (
	DefaultContainer  = "terrain-container"
	DefaultWidth      = 1280
	DefaultHeight     = 720
	DefaultPreviewFPS = 30
	DefaultLogLevel   = "info"
	DefaultBackend    = "auto"
)

// Config is the application config. Render tuning is not configurable; it
// comes from Resolve.
type Config struct {
	Container  string `yaml:"container"`
	Tier       string `yaml:"tier"`
	Backend    string `yaml:"backend"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	PreviewFPS int    `yaml:"preview_fps"`
	LogLevel   string `yaml:"log_level"`
	Output     string `yaml:"output"`
}

func DefaultConfig() *Config {
	return &Config{
		Container:  DefaultContainer,
		Backend:    DefaultBackend,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		PreviewFPS: DefaultPreviewFPS,
		LogLevel:   DefaultLogLevel,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
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

// ResolveTier returns the configured tier, or the one selected from the
// host signals when none is set.
func (c *Config) ResolveTier(s quality.Signals) (quality.Tier, error) {
	if c.Tier == "" {
		return quality.Select(s), nil
	}
	t, err := quality.ParseTier(c.Tier)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTier, c.Tier)
	}
	return t, nil
}
