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

package bench

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"time"

	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// ErrChecksumMismatch is returned when two runs of a suite disagree on the
// final accumulator.
var ErrChecksumMismatch = errors.New("benchmark checksum mismatch")

// SuiteResult holds the timed runs of a suite.
type SuiteResult struct {
	Runs []Result
	Mean time.Duration
	Min  time.Duration
	Max  time.Duration
}

// Total returns the checksum shared by all runs.
func (r SuiteResult) Total() int64 {
	if len(r.Runs) == 0 {
		return 0
	}
	return r.Runs[0].Total
}

// runFunc performs one complete run of the loop.
type runFunc func(opts Options, out io.Writer, observer Observer) Result

func runDriver(opts Options, out io.Writer, observer Observer) Result {
	return NewDriver(opts, out, observer).Run()
}

// RunSuite executes the warmup runs with their output discarded, then the
// timed runs writing to out. ctx is only checked between runs.
func RunSuite(ctx context.Context, opts SuiteOptions, out io.Writer, observer Observer) (SuiteResult, error) {
	return runSuite(ctx, opts, out, observer, runDriver)
}

func runSuite(ctx context.Context, opts SuiteOptions, out io.Writer, observer Observer, runOnce runFunc) (SuiteResult, error) {
	var (
		result   SuiteResult
		expected int64
		checked  bool
	)
	verify := func(kind string, run int, total int64) error {
		if !checked {
			expected, checked = total, true
			return nil
		}
		if total != expected {
			return errors.Annotatef(ErrChecksumMismatch,
				"%s run %d total %d, expected %d", kind, run, total, expected)
		}
		return nil
	}

	for i := 0; i < opts.warmupRuns(); i++ {
		if err := ctx.Err(); err != nil {
			return result, errors.Trace(err)
		}
		res := runOnce(opts.Options, io.Discard, nil)
		log.Info("warmup run finished",
			zap.String("tag", res.Tag),
			zap.Int("run", i+1),
			zap.Duration("elapsed", res.Elapsed),
			zap.Int64("total", res.Total))
		if err := verify("warmup", i+1, res.Total); err != nil {
			return result, err
		}
	}

	runs := opts.runs()
	result.Runs = make([]Result, 0, runs)
	for i := 0; i < runs; i++ {
		if err := ctx.Err(); err != nil {
			return result, errors.Trace(err)
		}
		log.Info("benchmark run started",
			zap.Int("run", i+1),
			zap.Int("runs", runs),
			zap.Stringer("options", opts.Options))
		res := runOnce(opts.Options, out, observer)
		log.Info("benchmark run finished",
			zap.String("tag", res.Tag),
			zap.Int("run", i+1),
			zap.Duration("elapsed", res.Elapsed),
			zap.Float64("iterationsPerSecond", res.ThroughputIterations),
			zap.Int64("total", res.Total))
		if err := verify("timed", i+1, res.Total); err != nil {
			return result, err
		}
		result.Runs = append(result.Runs, res)
	}
	result.aggregate()
	return result, nil
}

func (r *SuiteResult) aggregate() {
	if len(r.Runs) == 0 {
		return
	}
	var sum time.Duration
	r.Min, r.Max = r.Runs[0].Elapsed, r.Runs[0].Elapsed
	for _, run := range r.Runs {
		sum += run.Elapsed
		if run.Elapsed < r.Min {
			r.Min = run.Elapsed
		}
		if run.Elapsed > r.Max {
			r.Max = run.Elapsed
		}
	}
	r.Mean = sum / time.Duration(len(r.Runs))
}

// PrintSummary writes a fixed-width table with one row per timed run, a row
// with the mean elapsed time and a footer describing the host.
func PrintSummary(w io.Writer, r SuiteResult) {
	fmt.Fprintf(w, "%-6s %-12s %-14s %-20s %-14s %-28s\n",
		"Run", "Elapsed", "Iter/s", "Total", "Avg Interval", "p50/p95/p99/max")
	for i, run := range r.Runs {
		fmt.Fprintf(w, "%-6s %-12s %-14.2f %-20d %-14s %-28s\n",
			strconv.Itoa(i+1),
			formatDuration(run.Elapsed),
			run.ThroughputIterations,
			run.Total,
			run.Intervals.avgSummary(),
			run.Intervals.percentileSummary())
	}
	if len(r.Runs) > 0 {
		fmt.Fprintf(w, "%-6s %-12s (min %s, max %s)\n",
			"mean", formatDuration(r.Mean), formatDuration(r.Min), formatDuration(r.Max))
	}
	fmt.Fprintf(w, "System: %s %s/%s, %d CPUs\n",
		runtime.Version(), runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
}
