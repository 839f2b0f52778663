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

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/pingcap/errors"
	"github.com/pingcap/kernel-bench/pkg/bench"
	"github.com/pingcap/kernel-bench/pkg/config"
	"github.com/pingcap/kernel-bench/pkg/logger"
	"github.com/pingcap/kernel-bench/pkg/metrics"
	"github.com/pingcap/kernel-bench/pkg/status"
	"github.com/pingcap/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	FlagConfig         = "config"
	FlagIterations     = "iterations"
	FlagArraySize      = "array-size"
	FlagReportInterval = "report-interval"
	FlagTag            = "tag"
	FlagRuns           = "runs"
	FlagWarmupRuns     = "warmup-runs"
	FlagLogLevel       = "log-level"
	FlagLogFile        = "log-file"
	FlagStatusAddr     = "status-addr"
)

// configError marks failures caused by invalid configuration.
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Cause() error  { return e.err }

func isConfigError(err error) bool {
	_, ok := err.(*configError)
	return ok
}

type options struct {
	configPath string
	flags      config.Config
}

func newRootCommand(out io.Writer) *cobra.Command {
	o := &options{}
	defaults := config.NewDefaultConfig()

	cmd := &cobra.Command{
		Use:   "kernel-bench",
		Short: "A synthetic CPU micro-benchmark over a pool of kernel objects",
		Long: "kernel-bench repeatedly replaces and mutates a fixed-size pool of kernel objects and " +
			"folds a masked checksum, printing progress every report interval.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := o.buildConfig(cmd)
			if err != nil {
				return &configError{err: err}
			}
			return run(cmd.Context(), cfg, out)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&o.configPath, FlagConfig, "c", "", "configuration file path")
	flags.Int64Var(&o.flags.Iterations, FlagIterations, defaults.Iterations, "number of loop iterations per run")
	flags.IntVar(&o.flags.ArraySize, FlagArraySize, defaults.ArraySize, "capacity of the object pool")
	flags.Int64Var(&o.flags.ReportInterval, FlagReportInterval, defaults.ReportInterval, "iterations between two progress lines")
	flags.StringVar(&o.flags.Tag, FlagTag, defaults.Tag, "tag printed at the start of every output line")
	flags.IntVar(&o.flags.Runs, FlagRuns, defaults.Runs, "number of timed runs")
	flags.IntVar(&o.flags.WarmupRuns, FlagWarmupRuns, defaults.WarmupRuns, "number of warmup runs with discarded output")
	flags.StringVar(&o.flags.LogLevel, FlagLogLevel, defaults.LogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&o.flags.LogFile, FlagLogFile, "", "log file path, logs go to stderr when empty")
	flags.StringVar(&o.flags.StatusAddr, FlagStatusAddr, "", "address of the HTTP status server, disabled when empty")
	return cmd
}

// buildConfig loads the config file if any and applies explicitly set flags on top.
func (o *options) buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewDefaultConfig()
	if o.configPath != "" {
		loaded, err := config.LoadConfig(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed(FlagIterations) {
		cfg.Iterations = o.flags.Iterations
	}
	if flags.Changed(FlagArraySize) {
		cfg.ArraySize = o.flags.ArraySize
	}
	if flags.Changed(FlagReportInterval) {
		cfg.ReportInterval = o.flags.ReportInterval
	}
	if flags.Changed(FlagTag) {
		cfg.Tag = o.flags.Tag
	}
	if flags.Changed(FlagRuns) {
		cfg.Runs = o.flags.Runs
	}
	if flags.Changed(FlagWarmupRuns) {
		cfg.WarmupRuns = o.flags.WarmupRuns
	}
	if flags.Changed(FlagLogLevel) {
		cfg.LogLevel = o.flags.LogLevel
	}
	if flags.Changed(FlagLogFile) {
		cfg.LogFile = o.flags.LogFile
	}
	if flags.Changed(FlagStatusAddr) {
		cfg.StatusAddr = o.flags.StatusAddr
	}

	if err := cfg.ValidateAndAdjust(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := logger.InitLogger(&logger.Config{Level: cfg.LogLevel, File: cfg.LogFile}); err != nil {
		return err
	}
	log.Info("kernel-bench started",
		zap.String("tag", cfg.Tag),
		zap.Int64("iterations", cfg.Iterations),
		zap.Int("arraySize", cfg.ArraySize),
		zap.Int64("reportInterval", cfg.ReportInterval),
		zap.Int("runs", cfg.Runs),
		zap.Int("warmupRuns", cfg.WarmupRuns),
		zap.String("statusAddr", cfg.StatusAddr))

	registry := prometheus.NewRegistry()
	metrics.InitMetrics(registry)
	defer metrics.DeleteTag(cfg.Tag)
	tracker := status.NewTracker()
	observer := bench.MultiObserver{bench.NewMetricsObserver(cfg.Tag), tracker}

	g, gctx := errgroup.WithContext(ctx)
	serverCtx, stopServer := context.WithCancel(gctx)
	defer stopServer()

	if cfg.StatusAddr != "" {
		gin.SetMode(gin.ReleaseMode)
		server := status.NewServer(cfg.StatusAddr, tracker, registry)
		g.Go(func() error {
			return server.Run(serverCtx)
		})
	}

	var result bench.SuiteResult
	g.Go(func() error {
		defer stopServer()
		var err error
		result, err = bench.RunSuite(gctx, cfg.ToSuiteOptions(), out, observer)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Cause(err) == context.Canceled {
			log.Warn("kernel-bench interrupted",
				zap.Int("runsCompleted", len(result.Runs)))
		} else {
			log.Error("kernel-bench failed", zap.Error(err))
		}
		return err
	}

	if len(result.Runs) > 1 {
		fmt.Fprintln(out, "\nSummary:")
		bench.PrintSummary(out, result)
	}
	log.Info("kernel-bench finished",
		zap.String("tag", cfg.Tag),
		zap.Int("runs", len(result.Runs)),
		zap.Int64("total", result.Total()),
		zap.Duration("mean", result.Mean))
	return nil
}
