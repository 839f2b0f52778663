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
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// intervalStats tracks the wall-clock time spent between report points.
type intervalStats struct {
	hist *hdrhistogram.Histogram
}

func newIntervalStats() *intervalStats {
	return &intervalStats{
		hist: hdrhistogram.New(1, int64(time.Hour.Microseconds()), 3),
	}
}

func (s *intervalStats) record(d time.Duration) {
	micros := d.Microseconds()
	if micros <= 0 {
		micros = 1
	}
	if err := s.hist.RecordValue(micros); err != nil {
		_ = s.hist.RecordValue(s.hist.HighestTrackableValue())
	}
}

// IntervalSummary summarizes the durations of report intervals.
type IntervalSummary struct {
	Count int64
	Avg   time.Duration
	P50   time.Duration
	P95   time.Duration
	P99   time.Duration
	Max   time.Duration
}

func (s *intervalStats) snapshot() IntervalSummary {
	summary := IntervalSummary{Count: s.hist.TotalCount()}
	if summary.Count == 0 {
		return summary
	}
	summary.Avg = microsToDuration(int64(s.hist.Mean()))
	summary.P50 = microsToDuration(s.hist.ValueAtQuantile(50))
	summary.P95 = microsToDuration(s.hist.ValueAtQuantile(95))
	summary.P99 = microsToDuration(s.hist.ValueAtQuantile(99))
	summary.Max = microsToDuration(s.hist.Max())
	return summary
}

func (s IntervalSummary) percentileSummary() string {
	return formatDuration(s.P50) + "/" + formatDuration(s.P95) + "/" + formatDuration(s.P99) + "/" + formatDuration(s.Max)
}

func (s IntervalSummary) avgSummary() string {
	return formatDuration(s.Avg)
}

func microsToDuration(value int64) time.Duration {
	if value <= 0 {
		return time.Microsecond
	}
	return time.Duration(value) * time.Microsecond
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	if d < time.Microsecond {
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%.1fµs", float64(d.Nanoseconds())/1e3)
	}
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1e3)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
