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

import "fmt"

const (
	// DefaultIterations is the number of loop iterations of a run.
	DefaultIterations int64 = 100_000_000
	// DefaultArraySize is the capacity of the object pool.
	DefaultArraySize = 1000
	// DefaultReportInterval is the distance between two progress lines.
	DefaultReportInterval int64 = 10_000_000
	// DefaultTag prefixes every output line.
	DefaultTag = "Go"
)

// Options describes a single benchmark run. Zero values select the defaults.
type Options struct {
	Iterations     int64
	ArraySize      int
	ReportInterval int64
	Tag            string
}

func (o Options) iterations() int64 {
	if o.Iterations <= 0 {
		return DefaultIterations
	}
	return o.Iterations
}

func (o Options) arraySize() int {
	if o.ArraySize <= 0 {
		return DefaultArraySize
	}
	return o.ArraySize
}

func (o Options) reportInterval() int64 {
	if o.ReportInterval <= 0 {
		return DefaultReportInterval
	}
	return o.ReportInterval
}

func (o Options) tag() string {
	if o.Tag == "" {
		return DefaultTag
	}
	return o.Tag
}

// ProgressLines returns how many progress lines a run with these options prints.
func (o Options) ProgressLines() int64 {
	return (o.iterations()-1)/o.reportInterval() + 1
}

func (o Options) String() string {
	return fmt.Sprintf("%s (iterations=%d, array-size=%d, report-interval=%d)",
		o.tag(), o.iterations(), o.arraySize(), o.reportInterval())
}

// SuiteOptions describes warmup and timed runs of the same benchmark.
type SuiteOptions struct {
	Options
	WarmupRuns int
	Runs       int
}

func (o SuiteOptions) runs() int {
	if o.Runs <= 0 {
		return 1
	}
	return o.Runs
}

func (o SuiteOptions) warmupRuns() int {
	if o.WarmupRuns <= 0 {
		return 0
	}
	return o.WarmupRuns
}
