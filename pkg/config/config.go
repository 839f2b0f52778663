// Copyright 2026 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pingcap/errors"
	"github.com/pingcap/kernel-bench/pkg/bench"
	"go.uber.org/zap/zapcore"
)

const defaultLogLevel = "info"

// Config is the configuration of a kernel-bench invocation.
type Config struct {
	Iterations     int64  `toml:"iterations" json:"iterations"`
	ArraySize      int    `toml:"array-size" json:"array-size"`
	ReportInterval int64  `toml:"report-interval" json:"report-interval"`
	Tag            string `toml:"tag" json:"tag"`

	Runs       int `toml:"runs" json:"runs"`
	WarmupRuns int `toml:"warmup-runs" json:"warmup-runs"`

	LogLevel string `toml:"log-level" json:"log-level"`
	LogFile  string `toml:"log-file" json:"log-file"`

	// StatusAddr enables the HTTP status server when not empty.
	StatusAddr string `toml:"status-addr" json:"status-addr"`
}

// NewDefaultConfig returns the configuration used when nothing is set.
func NewDefaultConfig() *Config {
	return &Config{
		Iterations:     bench.DefaultIterations,
		ArraySize:      bench.DefaultArraySize,
		ReportInterval: bench.DefaultReportInterval,
		Tag:            bench.DefaultTag,
		Runs:           1,
		WarmupRuns:     0,
		LogLevel:       defaultLogLevel,
	}
}

// LoadConfig reads path on top of the default configuration.
func LoadConfig(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("config path is empty")
	}
	if filepath.Ext(path) != ".toml" {
		return nil, errors.Errorf("config must be a .toml file: %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Annotatef(err, "config file %s is not accessible", path)
	}

	cfg := NewDefaultConfig()
	if err := decodeFile(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.ValidateAndAdjust(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateAndAdjust rejects negative values and fills zero values with defaults.
func (c *Config) ValidateAndAdjust() error {
	if c.Iterations < 0 {
		return errors.Errorf("iterations must be >= 0: %d", c.Iterations)
	}
	if c.ArraySize < 0 {
		return errors.Errorf("array-size must be >= 0: %d", c.ArraySize)
	}
	if c.ReportInterval < 0 {
		return errors.Errorf("report-interval must be >= 0: %d", c.ReportInterval)
	}
	if c.Runs < 0 {
		return errors.Errorf("runs must be >= 0: %d", c.Runs)
	}
	if c.WarmupRuns < 0 {
		return errors.Errorf("warmup-runs must be >= 0: %d", c.WarmupRuns)
	}

	if c.Iterations == 0 {
		c.Iterations = bench.DefaultIterations
	}
	if c.ArraySize == 0 {
		c.ArraySize = bench.DefaultArraySize
	}
	if c.ReportInterval == 0 {
		c.ReportInterval = bench.DefaultReportInterval
	}
	if c.Runs == 0 {
		c.Runs = 1
	}
	c.Tag = strings.TrimSpace(c.Tag)
	if c.Tag == "" {
		c.Tag = bench.DefaultTag
	}

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return errors.Annotatef(err, "invalid log-level %s", c.LogLevel)
	}
	c.StatusAddr = strings.TrimSpace(c.StatusAddr)
	return nil
}

// ToSuiteOptions converts the configuration into benchmark suite options.
func (c *Config) ToSuiteOptions() bench.SuiteOptions {
	return bench.SuiteOptions{
		Options: bench.Options{
			Iterations:     c.Iterations,
			ArraySize:      c.ArraySize,
			ReportInterval: c.ReportInterval,
			Tag:            c.Tag,
		},
		WarmupRuns: c.WarmupRuns,
		Runs:       c.Runs,
	}
}
