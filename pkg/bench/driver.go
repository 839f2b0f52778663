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
	"fmt"
	"io"
	"time"

	"github.com/pingcap/kernel-bench/pkg/kernel"
)

// Progress is published at every report point of a run.
type Progress struct {
	Tag       string
	Iteration int64
	Total     int64
	PoolSize  int
	Elapsed   time.Duration
}

// Result is the outcome of a single run.
type Result struct {
	Tag        string
	Iterations int64
	ArraySize  int
	PoolSize   int
	Total      int64
	Elapsed    time.Duration
	Intervals  IntervalSummary

	ThroughputIterations float64
}

// Observer is notified at report points. It is never called from inside the
// measured part of an iteration.
type Observer interface {
	OnProgress(Progress)
	OnFinish(Result)
}

type noopObserver struct{}

func (noopObserver) OnProgress(Progress) {}
func (noopObserver) OnFinish(Result)     {}

// Driver runs the kernel object loop once.
type Driver struct {
	opts     Options
	out      io.Writer
	observer Observer

	pool *kernel.Pool
}

// NewDriver creates a driver writing its progress and final lines to out.
// A nil observer is allowed.
func NewDriver(opts Options, out io.Writer, observer Observer) *Driver {
	if out == nil {
		out = io.Discard
	}
	if observer == nil {
		observer = noopObserver{}
	}
	return &Driver{
		opts:     opts,
		out:      out,
		observer: observer,
	}
}

// Run executes every iteration and returns the final checksum. It is
// single-threaded and cannot be interrupted.
func (d *Driver) Run() Result {
	var (
		tag        = d.opts.tag()
		iterations = d.opts.iterations()
		interval   = d.opts.reportInterval()
		pool       = kernel.NewPool(d.opts.arraySize())
		stats      = newIntervalStats()
		total      int64
	)
	d.pool = pool

	start := time.Now()
	last := start
	for i := int64(0); i < iterations; i++ {
		obj := pool.Place(i)
		obj.PerformWork()
		total = (total + obj.GetData(0)) & kernel.Mask

		if i%interval == 0 {
			now := time.Now()
			if i > 0 {
				stats.record(now.Sub(last))
			}
			last = now
			fmt.Fprintf(d.out, "%s Intermediate %d: %d\n", tag, i, total)
			d.observer.OnProgress(Progress{
				Tag:       tag,
				Iteration: i,
				Total:     total,
				PoolSize:  pool.Len(),
				Elapsed:   now.Sub(start),
			})
		}
	}
	end := time.Now()
	stats.record(end.Sub(last))
	fmt.Fprintf(d.out, "%s version completed, total: %d\n", tag, total)

	result := Result{
		Tag:        tag,
		Iterations: iterations,
		ArraySize:  pool.Cap(),
		PoolSize:   pool.Len(),
		Total:      total,
		Elapsed:    end.Sub(start),
		Intervals:  stats.snapshot(),
	}
	if seconds := result.Elapsed.Seconds(); seconds > 0 {
		result.ThroughputIterations = float64(iterations) / seconds
	}
	d.observer.OnFinish(result)
	return result
}

// Pool returns the pool of the last run, or nil before the first run.
func (d *Driver) Pool() *kernel.Pool {
	return d.pool
}
