// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/yeetrun/ycli/pkg/tui"
	"gopkg.in/yaml.v3"
	"tailscale.com/util/mak"
)

// Config holds the settings of a CLI that can be kept in a file.
type Config struct {
	Name        string            `toml:"name,omitempty" yaml:"name,omitempty"`
	Version     string            `toml:"version,omitempty" yaml:"version,omitempty"`
	Description string            `toml:"description,omitempty" yaml:"description,omitempty"`
	Aliases     map[string]string `toml:"aliases,omitempty" yaml:"aliases,omitempty"`
	Color       string            `toml:"color,omitempty" yaml:"color,omitempty"`
	Width       int               `toml:"width,omitempty" yaml:"width,omitempty"`
	Debug       bool              `toml:"debug,omitempty" yaml:"debug,omitempty"`
}

// LoadConfig reads a Config from path. Files ending in .toml are decoded as
// TOML, .yaml and .yml as YAML.
func LoadConfig(path string) (*Config, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.NewDecoder(bytes.NewReader(bs)).Decode(&cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("failed to parse %s: unknown key %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(bs))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q for %s", ext, path)
	}
	if _, err := tui.ParseColorMode(cfg.Color); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// ApplyConfig copies the set fields of cfg onto c. Aliases are merged, with
// cfg winning on conflicts. Debug replaces the logger with a debug logger.
func (c *CLI) ApplyConfig(cfg *Config) error {
	if cfg.Name != "" {
		c.Name = cfg.Name
	}
	if cfg.Version != "" {
		c.Version = cfg.Version
	}
	if cfg.Description != "" {
		c.Description = cfg.Description
	}
	for from, to := range cfg.Aliases {
		mak.Set(&c.Aliases, from, to)
	}
	if cfg.Color != "" {
		mode, err := tui.ParseColorMode(cfg.Color)
		if err != nil {
			return err
		}
		c.Color = mode
	}
	if cfg.Width > 0 {
		c.Width = cfg.Width
	}
	if cfg.Debug {
		log, err := NewLogger(true)
		if err != nil {
			return err
		}
		c.Logger = log
	}
	return nil
}
