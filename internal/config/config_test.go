// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joamaki/reactivelab/demos"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, demos.DefaultOptions, cfg.Delays)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Positive(t, cfg.Schedulers.Parallelism)
}

func TestLoad(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, Log{Level: "debug", Format: FormatConsole}, cfg.Log)
	assert.Equal(t, demos.Options{
		ConcatMapDelay: 5 * time.Millisecond,
		FlatMapDelay:   time.Millisecond,
		ThrottleRate:   100,
		Tick:           2 * time.Millisecond,
	}, cfg.Delays)
	assert.Equal(t, Schedulers{
		Parallelism:       3,
		ElasticMaxWorkers: 7,
		ElasticIdleTTL:    30 * time.Second,
	}, cfg.Schedulers)
}

func TestLoadPartial(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "partial.yaml"))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, time.Millisecond, cfg.Delays.ConcatMapDelay)
	assert.Equal(t, def.Delays.FlatMapDelay, cfg.Delays.FlatMapDelay)
	assert.Equal(t, def.Log, cfg.Log)
	assert.Equal(t, def.Schedulers, cfg.Schedulers)
}

func TestLoadErrors(t *testing.T) {
	path := filepath.Join("testdata", "bad_duration.yaml")
	_, err := Load(path)
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "delays.flat_map")
	assert.Contains(t, err.Error(), path)

	path = filepath.Join("testdata", "malformed.yaml")
	_, err = Load(path)
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), path)

	path = filepath.Join("testdata", "missing.yaml")
	_, err = Load(path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), path)
}

func TestMapValidation(t *testing.T) {
	zero, negative, rate := 0, -1, -2.0
	cases := map[string]struct {
		dto   YAMLConfig
		field string
	}{
		"level":        {YAMLConfig{Log: YAMLLog{Level: "loud"}}, "log.level"},
		"format":       {YAMLConfig{Log: YAMLLog{Format: "xml"}}, "log.format"},
		"negative":     {YAMLConfig{Delays: YAMLDelays{ConcatMap: "-1s"}}, "delays.concat_map"},
		"rate":         {YAMLConfig{Delays: YAMLDelays{ThrottleRate: &rate}}, "delays.throttle_rate"},
		"tick":         {YAMLConfig{Delays: YAMLDelays{Tick: "0s"}}, "delays.tick"},
		"parallelism":  {YAMLConfig{Schedulers: YAMLSchedulers{Parallelism: &zero}}, "schedulers.parallelism"},
		"max workers":  {YAMLConfig{Schedulers: YAMLSchedulers{ElasticMaxWorkers: &negative}}, "schedulers.elastic_max_workers"},
		"idle ttl":     {YAMLConfig{Schedulers: YAMLSchedulers{ElasticIdleTTL: "0s"}}, "schedulers.elastic_idle_ttl"},
		"bad idle ttl": {YAMLConfig{Schedulers: YAMLSchedulers{ElasticIdleTTL: "1 minute"}}, "schedulers.elastic_idle_ttl"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Map("test.yaml", tc.dto)
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestMapLevelCase(t *testing.T) {
	cfg, err := Map("test.yaml", YAMLConfig{Log: YAMLLog{Level: "WARN", Format: "Console"}})
	require.NoError(t, err)
	assert.Equal(t, Log{Level: "warn", Format: FormatConsole}, cfg.Log)
}
