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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "kernel_bench"
	subsystem = "driver"
)

var (
	// IterationsCounter counts loop iterations, advanced at report points.
	IterationsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "iterations_total",
			Help:      "The number of benchmark loop iterations completed.",
		}, []string{"tag"})

	// ChecksumGauge is a float64, so totals above 2^53 lose their low bits.
	// GET /status serves the exact value.
	ChecksumGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "checksum",
			Help:      "The accumulator value at the last report point, approximate above 2^53; GET /status has the exact value.",
		}, []string{"tag"})

	PoolSizeGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pool_size",
			Help:      "The number of populated pool slots at the last report point.",
		}, []string{"tag"})

	IntervalDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "interval_duration_seconds",
			Help:      "Bucketed histogram of the wall-clock time between two report points.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2.0, 16), // 1ms ~ 32s
		}, []string{"tag"})

	RunDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "run_duration_seconds",
			Help:      "Bucketed histogram of the wall-clock time of a complete run.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2.0, 16), // 10ms ~ 327s
		}, []string{"tag"})

	RunsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "runs_total",
			Help:      "The number of completed benchmark runs.",
		}, []string{"tag"})
)

// InitMetrics registers all benchmark metrics.
func InitMetrics(registry *prometheus.Registry) {
	registry.MustRegister(IterationsCounter)
	registry.MustRegister(ChecksumGauge)
	registry.MustRegister(PoolSizeGauge)
	registry.MustRegister(IntervalDurationHistogram)
	registry.MustRegister(RunDurationHistogram)
	registry.MustRegister(RunsCounter)
}

// DeleteTag drops every series labelled with tag.
func DeleteTag(tag string) {
	IterationsCounter.DeleteLabelValues(tag)
	ChecksumGauge.DeleteLabelValues(tag)
	PoolSizeGauge.DeleteLabelValues(tag)
	IntervalDurationHistogram.DeleteLabelValues(tag)
	RunDurationHistogram.DeleteLabelValues(tag)
	RunsCounter.DeleteLabelValues(tag)
}
