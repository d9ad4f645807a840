package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// loadFile decodes a YAML config file. Env variables applied afterwards win.
func loadFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	c := Config{}
	c.Auth.RateLimitPerMinute = -1
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}
	return c, nil
}
