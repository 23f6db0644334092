package tickhookx

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries the deployable settings for a Driver. TickRate and
// Priority feed Init; the remaining fields feed WithConfig.
type Config struct {
	TickRate   uint8  `json:"tick_rate" yaml:"tick_rate"`
	Priority   uint8  `json:"priority" yaml:"priority"`
	Core       int    `json:"core" yaml:"core"`
	StackBytes int    `json:"stack_bytes" yaml:"stack_bytes"`
	CatchUp    bool   `json:"catch_up" yaml:"catch_up"`
	MaxCatchUp uint32 `json:"max_catch_up" yaml:"max_catch_up"`
	Name       string `json:"name" yaml:"name"`
}

// DefaultConfig mirrors a Driver built with no options.
func DefaultConfig() Config {
	return Config{
		Priority:   1,
		StackBytes: DefaultStackBytes,
		MaxCatchUp: 1,
		Name:       DefaultName,
	}
}

// Validate rejects settings no kernel could honor.
func (c *Config) Validate() error {
	if c.Name == "" {
		return errors.New("driver name is required")
	}
	if c.Core < 0 {
		return fmt.Errorf("core %d is negative", c.Core)
	}
	if c.StackBytes < 0 {
		return fmt.Errorf("stack_bytes %d is negative", c.StackBytes)
	}
	if c.CatchUp && c.MaxCatchUp == 0 {
		return errors.New("catch_up enabled but max_catch_up is 0")
	}
	return nil
}

// LoadConfig reads a YAML file over the defaults and validates the
// result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
