package config

import (
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config is a flat key/value view over the process environment.
// Keys keep their environment spelling, e.g. PORT or DATABASE_URL.
type Config struct {
	k *koanf.Koanf
}

// New loads every environment variable into a Config.
func New() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, err
	}
	return &Config{k: k}, nil
}

// FromMap builds a Config from explicit values. Used by tests and tools.
func FromMap(values map[string]string) *Config {
	k := koanf.New(".")
	for key, value := range values {
		_ = k.Set(key, value)
	}
	return &Config{k: k}
}

// Set overrides a single key.
func (c *Config) Set(key, value string) error {
	return c.k.Set(key, value)
}

func GetString(config *Config, key string, defaultValue string) string {
	if config == nil || !config.k.Exists(key) {
		return defaultValue
	}
	return config.k.String(key)
}

func GetInt(config *Config, key string, defaultValue int) int {
	if config == nil || !config.k.Exists(key) {
		return defaultValue
	}
	asInt := config.k.Int(key)
	if asInt == 0 && strings.TrimSpace(config.k.String(key)) != "0" {
		return defaultValue
	}
	return asInt
}

func GetBool(config *Config, key string, defaultValue bool) bool {
	if config == nil || !config.k.Exists(key) {
		return defaultValue
	}
	return strings.EqualFold(config.k.String(key), "true")
}

// GetStrings splits a comma separated value, dropping empty entries.
func GetStrings(config *Config, key string) []string {
	var out []string
	for _, part := range strings.Split(GetString(config, key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
