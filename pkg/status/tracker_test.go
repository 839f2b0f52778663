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
	"sync"
	"testing"

	"github.com/pingcap/kernel-bench/pkg/bench"
	"github.com/stretchr/testify/require"
)

func TestTrackerSnapshotIsConsistent(t *testing.T) {
	t.Parallel()

	const iterations = 50_000
	tracker := NewTracker()
	opts := bench.Options{Iterations: iterations, ArraySize: 10, ReportInterval: 1}

	done := make(chan struct{})
	var wg sync.WaitGroup
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				st := tracker.Snapshot()
				switch {
				case st.Running:
					// Report point i has folded ids 0..i.
					if st.Total != st.Iteration*(st.Iteration+1)/2 {
						t.Errorf("torn snapshot: %+v", st)
						return
					}
				case st.RunsCompleted == 1:
					if st.Iteration != iterations || st.Total != iterations*(iterations-1)/2 {
						t.Errorf("torn snapshot: %+v", st)
						return
					}
				default:
					if st != (Status{}) {
						t.Errorf("unexpected idle snapshot: %+v", st)
						return
					}
				}
			}
		}()
	}

	bench.NewDriver(opts, nil, tracker).Run()
	close(done)
	wg.Wait()

	require.Equal(t, Status{
		Tag:           bench.DefaultTag,
		Iteration:     iterations,
		Total:         iterations * (iterations - 1) / 2,
		RunsCompleted: 1,
	}, tracker.Snapshot())
}

func TestStatusKeepsExactTotal(t *testing.T) {
	t.Parallel()

	s, tracker, _ := newTestServer(t)
	// Not representable as a float64.
	const total = int64(1)<<60 + 1
	tracker.OnProgress(bench.Progress{Tag: "Go", Iteration: 3, Total: total})
	tracker.OnProgress(bench.Progress{Tag: "Go", Iteration: 4, Total: total})
	require.Equal(t, total, getStatus(t, s).Total)

	tracker.OnFinish(bench.Result{Tag: "Go", Iterations: 5, Total: total})
	tracker.OnFinish(bench.Result{Tag: "Go", Iterations: 5, Total: total})
	st := getStatus(t, s)
	require.Equal(t, total, st.Total)
	require.Equal(t, int64(2), st.RunsCompleted)
}
