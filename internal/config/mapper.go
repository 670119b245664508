// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package config

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

// Map validates 'dto' and applies it on top of the defaults.
func Map(path string, dto YAMLConfig) (Config, error) {
	cfg := Default()

	if lvl := strings.TrimSpace(dto.Log.Level); lvl != "" {
		if _, err := zapcore.ParseLevel(lvl); err != nil {
			return Config{}, invalidField(path, "log.level", err.Error())
		}
		cfg.Log.Level = strings.ToLower(lvl)
	}
	switch f := strings.ToLower(strings.TrimSpace(dto.Log.Format)); f {
	case "":
	case FormatJSON, FormatConsole:
		cfg.Log.Format = f
	default:
		return Config{}, invalidField(path, "log.format", fmt.Sprintf("unknown format %q", dto.Log.Format))
	}

	var err error
	if cfg.Delays.ConcatMapDelay, err = parseDuration(path, "delays.concat_map", dto.Delays.ConcatMap, cfg.Delays.ConcatMapDelay); err != nil {
		return Config{}, err
	}
	if cfg.Delays.FlatMapDelay, err = parseDuration(path, "delays.flat_map", dto.Delays.FlatMap, cfg.Delays.FlatMapDelay); err != nil {
		return Config{}, err
	}
	if cfg.Delays.Tick, err = parseDuration(path, "delays.tick", dto.Delays.Tick, cfg.Delays.Tick); err != nil {
		return Config{}, err
	}
	if cfg.Delays.Tick == 0 {
		return Config{}, invalidField(path, "delays.tick", "must be positive")
	}
	if r := dto.Delays.ThrottleRate; r != nil {
		if *r <= 0 {
			return Config{}, invalidField(path, "delays.throttle_rate", "must be positive")
		}
		cfg.Delays.ThrottleRate = *r
	}

	if n := dto.Schedulers.Parallelism; n != nil {
		if *n < 1 {
			return Config{}, invalidField(path, "schedulers.parallelism", "must be at least 1")
		}
		cfg.Schedulers.Parallelism = *n
	}
	if n := dto.Schedulers.ElasticMaxWorkers; n != nil {
		if *n < 1 {
			return Config{}, invalidField(path, "schedulers.elastic_max_workers", "must be at least 1")
		}
		cfg.Schedulers.ElasticMaxWorkers = *n
	}
	if cfg.Schedulers.ElasticIdleTTL, err = parseDuration(path, "schedulers.elastic_idle_ttl", dto.Schedulers.ElasticIdleTTL, cfg.Schedulers.ElasticIdleTTL); err != nil {
		return Config{}, err
	}
	if cfg.Schedulers.ElasticIdleTTL == 0 {
		return Config{}, invalidField(path, "schedulers.elastic_idle_ttl", "must be positive")
	}

	return cfg, nil
}

func parseDuration(path, field, s string, def time.Duration) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, invalidField(path, field, err.Error())
	}
	if d < 0 {
		return 0, invalidField(path, field, "must not be negative")
	}
	return d, nil
}

func invalidField(path, field, msg string) error {
	return fmt.Errorf("config %s: field %s: %s: %w", path, field, msg, ErrInvalidConfig)
}
