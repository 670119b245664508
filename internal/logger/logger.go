// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

// Package logger holds the process-wide zap logger.
package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	// Level is a zap level name. Empty means info.
	Level string

	// Format is "json" or "console". Empty means json.
	Format string

	// Debug forces the debug level and the development encoder.
	Debug bool

	// OutputPaths default to stderr.
	OutputPaths []string
}

var (
	mu     sync.RWMutex
	global = zap.NewNop()
)

// Setup builds a logger from 'cfg' and installs it as the one returned by L.
// The returned function flushes the logger and restores the nop logger.
func Setup(cfg Config) (func() error, error) {
	var zc zap.Config
	if cfg.Debug || cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		zc.Sampling = nil
	}

	level := zapcore.InfoLevel
	if cfg.Level != "" {
		l, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = l
	}
	if cfg.Debug {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	if len(cfg.OutputPaths) > 0 {
		zc.OutputPaths = cfg.OutputPaths
	} else {
		zc.OutputPaths = []string{"stderr"}
	}

	l, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	mu.Lock()
	global = l
	mu.Unlock()

	l.Debug("logger_initialized", zap.Stringer("level", level), zap.Bool("debug", cfg.Debug))

	cleanup := func() error {
		mu.Lock()
		defer mu.Unlock()
		err := l.Sync()
		global = zap.NewNop()
		return err
	}
	return cleanup, nil
}

func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}
