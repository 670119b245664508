// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package config

type YAMLConfig struct {
	Log        YAMLLog        `yaml:"log"`
	Delays     YAMLDelays     `yaml:"delays"`
	Schedulers YAMLSchedulers `yaml:"schedulers"`
}

type YAMLLog struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type YAMLDelays struct {
	ConcatMap    string   `yaml:"concat_map"`
	FlatMap      string   `yaml:"flat_map"`
	ThrottleRate *float64 `yaml:"throttle_rate"`
	Tick         string   `yaml:"tick"`
}

type YAMLSchedulers struct {
	Parallelism       *int   `yaml:"parallelism"`
	ElasticMaxWorkers *int   `yaml:"elastic_max_workers"`
	ElasticIdleTTL    string `yaml:"elastic_idle_ttl"`
}
