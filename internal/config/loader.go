// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the configuration at 'path'. Settings missing from the file
// keep their defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	var dto YAMLConfig
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return Config{}, fmt.Errorf("config %s: %w: %w", path, ErrInvalidConfig, err)
	}

	return Map(path, dto)
}
