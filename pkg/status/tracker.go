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

package status

import (
	"github.com/pingcap/kernel-bench/pkg/bench"
	"go.uber.org/atomic"
)

// Status is the JSON body served by GET /status.
type Status struct {
	Tag           string `json:"tag"`
	Iteration     int64  `json:"iteration"`
	Total         int64  `json:"total"`
	Running       bool   `json:"running"`
	RunsCompleted int64  `json:"runs_completed"`
}

// Tracker publishes driver progress for concurrent readers. It implements
// bench.Observer; the driver writes, the status server reads. Every callback
// swaps in a complete Status so readers never see fields from two report
// points.
type Tracker struct {
	status atomic.Pointer[Status]
}

var _ bench.Observer = (*Tracker)(nil)

// NewTracker creates an idle tracker.
func NewTracker() *Tracker {
	t := &Tracker{}
	t.status.Store(&Status{})
	return t
}

// OnProgress and OnFinish are called from the driver goroutine only, so the
// load-then-store below has a single writer.
func (t *Tracker) OnProgress(p bench.Progress) {
	t.status.Store(&Status{
		Tag:           p.Tag,
		Iteration:     p.Iteration,
		Total:         p.Total,
		Running:       true,
		RunsCompleted: t.status.Load().RunsCompleted,
	})
}

func (t *Tracker) OnFinish(r bench.Result) {
	t.status.Store(&Status{
		Tag:           r.Tag,
		Iteration:     r.Iterations,
		Total:         r.Total,
		Running:       false,
		RunsCompleted: t.status.Load().RunsCompleted + 1,
	})
}

// Snapshot returns the latest published state.
func (t *Tracker) Snapshot() Status {
	return *t.status.Load()
}
