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

package logger

import (
	"os"
	"strings"

	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	defaultLogMaxSize    = 300 // MB
	defaultLogMaxDays    = 0
	defaultLogMaxBackups = 0
)

// Config describes where and how verbosely to log.
type Config struct {
	Level string
	// File is the log file path. Logs go to stderr when empty, since stdout
	// carries the benchmark output.
	File string
}

// InitLogger initializes the global pingcap/log logger.
func InitLogger(cfg *Config) error {
	return initLogger(cfg, zapcore.AddSync(os.Stderr))
}

func initLogger(cfg *Config, output zapcore.WriteSyncer) error {
	level := strings.TrimSpace(cfg.Level)
	if level == "" {
		level = "info"
	}
	logConfig := &log.Config{
		Level: level,
		File: log.FileLogConfig{
			Filename:   cfg.File,
			MaxSize:    defaultLogMaxSize,
			MaxDays:    defaultLogMaxDays,
			MaxBackups: defaultLogMaxBackups,
		},
	}

	var (
		lg    *zap.Logger
		props *log.ZapProperties
		err   error
	)
	if cfg.File != "" {
		lg, props, err = log.InitLogger(logConfig)
	} else {
		lg, props, err = log.InitLoggerWithWriteSyncer(logConfig, output, output)
	}
	if err != nil {
		return errors.Annotate(err, "init logger failed")
	}
	log.ReplaceGlobals(lg, props)
	return nil
}

// SetLogLevel changes the level of the global logger.
func SetLogLevel(level string) error {
	var lv zapcore.Level
	if err := lv.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return errors.Annotatef(err, "invalid log level %s", level)
	}
	log.SetLevel(lv)
	return nil
}
