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
	"time"

	"github.com/pingcap/kernel-bench/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsObserver feeds run progress into the prometheus collectors.
type MetricsObserver struct {
	iterations prometheus.Counter
	checksum   prometheus.Gauge
	poolSize   prometheus.Gauge
	interval   prometheus.Observer
	run        prometheus.Observer
	runs       prometheus.Counter

	// done is the number of iterations already added to the counter in the
	// current run.
	done        int64
	lastElapsed time.Duration
}

// NewMetricsObserver creates an observer for runs labelled with tag.
func NewMetricsObserver(tag string) *MetricsObserver {
	if tag == "" {
		tag = DefaultTag
	}
	return &MetricsObserver{
		iterations: metrics.IterationsCounter.WithLabelValues(tag),
		checksum:   metrics.ChecksumGauge.WithLabelValues(tag),
		poolSize:   metrics.PoolSizeGauge.WithLabelValues(tag),
		interval:   metrics.IntervalDurationHistogram.WithLabelValues(tag),
		run:        metrics.RunDurationHistogram.WithLabelValues(tag),
		runs:       metrics.RunsCounter.WithLabelValues(tag),
	}
}

func (m *MetricsObserver) OnProgress(p Progress) {
	if p.Iteration == 0 {
		m.done = 0
		m.lastElapsed = 0
	} else {
		m.interval.Observe((p.Elapsed - m.lastElapsed).Seconds())
	}
	m.lastElapsed = p.Elapsed

	// Iteration p.Iteration has completed when it is reported.
	completed := p.Iteration + 1
	m.iterations.Add(float64(completed - m.done))
	m.done = completed
	m.checksum.Set(float64(p.Total))
	m.poolSize.Set(float64(p.PoolSize))
}

func (m *MetricsObserver) OnFinish(r Result) {
	m.interval.Observe((r.Elapsed - m.lastElapsed).Seconds())
	if r.Iterations > m.done {
		m.iterations.Add(float64(r.Iterations - m.done))
	}
	m.checksum.Set(float64(r.Total))
	m.poolSize.Set(float64(r.PoolSize))
	m.run.Observe(r.Elapsed.Seconds())
	m.runs.Inc()

	m.done = 0
	m.lastElapsed = 0
}

// MultiObserver fans out notifications to several observers in order.
type MultiObserver []Observer

func (o MultiObserver) OnProgress(p Progress) {
	for _, observer := range o {
		observer.OnProgress(p)
	}
}

func (o MultiObserver) OnFinish(r Result) {
	for _, observer := range o {
		observer.OnFinish(r)
	}
}
