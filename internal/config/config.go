// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

// Package config loads the settings of the reactivelab command from YAML.
package config

import (
	"errors"
	"runtime"
	"time"

	"github.com/joamaki/reactivelab/demos"
	"github.com/joamaki/reactivelab/scheduler"
)

var ErrInvalidConfig = errors.New("invalid config")

// Log formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

type Config struct {
	Log        Log
	Delays     demos.Options
	Schedulers Schedulers
}

type Log struct {
	Level  string
	Format string
}

type Schedulers struct {
	// Parallelism is the number of workers of the publish-on scheduler.
	Parallelism int

	ElasticMaxWorkers int
	ElasticIdleTTL    time.Duration
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Log:    Log{Level: "info", Format: FormatJSON},
		Delays: demos.DefaultOptions,
		Schedulers: Schedulers{
			Parallelism:       runtime.NumCPU(),
			ElasticMaxWorkers: 10 * runtime.NumCPU(),
			ElasticIdleTTL:    scheduler.DefaultIdleTTL,
		},
	}
}
