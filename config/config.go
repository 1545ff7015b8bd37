// Package config loads the drmprop configuration file.
//
//	card: 0
//	log_level: debug
//	enums:
//	  pixel blend mode:
//	    - hal: 4
//	      name: Additive
//
// Enum tables from the file are merged over the built-in hal tables: an
// entry replaces the built-in entry with the same HAL value of the same
// property, other entries are appended.
package config

import (
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/NeowayLabs/drmresource/hal"
	"github.com/NeowayLabs/drmresource/property"
)

type Config struct {
	Card     int                           `yaml:"card"`
	LogLevel string                        `yaml:"log_level"`
	Enums    map[string][]property.HalEnum `yaml:"enums"`
}

func Default() *Config {
	return &Config{
		Card:     0,
		LogLevel: "info",
		Enums:    hal.Tables(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func Parse(data []byte) (*Config, error) {
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}

	cfg := Default()
	cfg.Card = file.Card
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	if _, err := cfg.Level(); err != nil {
		return nil, err
	}
	if cfg.Card < 0 {
		return nil, errors.Errorf("invalid card index %d", cfg.Card)
	}

	for name, enums := range file.Enums {
		for _, e := range enums {
			if e.Name == "" {
				return nil, errors.Errorf("enum %s: hal value %d has no name", name, e.Value)
			}
		}
		cfg.Enums[name] = merge(cfg.Enums[name], enums)
	}
	return cfg, nil
}

func merge(base, extra []property.HalEnum) []property.HalEnum {
	out := append([]property.HalEnum(nil), base...)
	for _, e := range extra {
		replaced := false
		for i := range out {
			if out[i].Value == e.Value {
				out[i] = e
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, e)
		}
	}
	return out
}

// Level parses LogLevel ("debug", "info", "warn", "error").
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, errors.Wrapf(err, "log_level %q", c.LogLevel)
	}
	return l, nil
}
