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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pingcap/errors"
	"github.com/pingcap/kernel-bench/pkg/config"
	"github.com/pingcap/kernel-bench/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand(&out)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunWithFlags(t *testing.T) {
	out, err := execute(t, "--iterations", "5", "--array-size", "3", "--report-interval", "2")
	require.NoError(t, err)
	require.Equal(t, "Go Intermediate 0: 0\n"+
		"Go Intermediate 2: 3\n"+
		"Go Intermediate 4: 10\n"+
		"Go version completed, total: 10\n", out)
}

func TestRunWithConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
iterations = 21
array-size = 5
report-interval = 10
tag = "Kernel"
`), 0o644))

	out, err := execute(t, "-c", path)
	require.NoError(t, err)
	require.Equal(t, "Kernel Intermediate 0: 0\n"+
		"Kernel Intermediate 10: 55\n"+
		"Kernel Intermediate 20: 210\n"+
		"Kernel version completed, total: 210\n", out)

	// Flags override the file.
	out, err = execute(t, "-c", path, "--tag", "Override", "--iterations", "5")
	require.NoError(t, err)
	require.Equal(t, "Override Intermediate 0: 0\n"+
		"Override version completed, total: 10\n", out)
}

func TestRunMultipleRunsPrintsSummary(t *testing.T) {
	out, err := execute(t, "--iterations", "5", "--array-size", "3", "--runs", "2", "--warmup-runs", "1")
	require.NoError(t, err)

	require.Equal(t, 2, strings.Count(out, "Go version completed, total: 10\n"))
	require.Contains(t, out, "\nSummary:\n")
	require.Contains(t, out, "p50/p95/p99/max")
	require.Contains(t, out, "\nmean ")
	require.Contains(t, out, "\nSystem: ")
}

func TestRunWithStatusServer(t *testing.T) {
	out, err := execute(t, "--iterations", "5", "--array-size", "3", "--status-addr", "127.0.0.1:0")
	require.NoError(t, err)
	require.Contains(t, out, "Go version completed, total: 10\n")
}

// cancelOnCompletion cancels the context once a run prints its final line,
// which is the gap between two suite runs.
type cancelOnCompletion struct {
	bytes.Buffer
	cancel context.CancelFunc
}

func (w *cancelOnCompletion) Write(p []byte) (int, error) {
	if strings.Contains(string(p), "version completed") {
		w.cancel()
	}
	return w.Buffer.Write(p)
}

func TestRunCancelledBetweenRuns(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.NewDefaultConfig()
	cfg.Iterations = 5
	cfg.ArraySize = 3
	cfg.Runs = 3
	cfg.StatusAddr = "127.0.0.1:0"
	require.NoError(t, cfg.ValidateAndAdjust())

	out := &cancelOnCompletion{cancel: cancel}
	err := run(ctx, cfg, out)
	require.Error(t, err)
	require.Equal(t, context.Canceled, errors.Cause(err))
	// The first run completes, the second never starts and no summary is printed.
	require.Equal(t, 1, strings.Count(out.String(), "Go version completed, total: 10\n"))
	require.NotContains(t, out.String(), "Summary:")
}

func TestExecuteContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	cmd := newRootCommand(&out)
	cmd.SetArgs([]string{"--iterations", "5", "--array-size", "3"})
	err := cmd.ExecuteContext(ctx)
	require.Error(t, err)
	require.False(t, isConfigError(err))
	require.Equal(t, context.Canceled, errors.Cause(err))
	require.Zero(t, out.Len())
}

func TestRunDropsTagSeries(t *testing.T) {
	out, err := execute(t, "--iterations", "5", "--array-size", "3", "--tag", "Dropped")
	require.NoError(t, err)
	require.Contains(t, out, "Dropped version completed, total: 10\n")
	require.Equal(t, 0, testutil.CollectAndCount(metrics.IterationsCounter))
	require.Equal(t, 0, testutil.CollectAndCount(metrics.ChecksumGauge))
	require.Equal(t, 0, testutil.CollectAndCount(metrics.RunsCounter))
}

func TestInvalidConfig(t *testing.T) {
	_, err := execute(t, "--iterations", "-1")
	require.Error(t, err)
	require.True(t, isConfigError(err))

	_, err = execute(t, "-c", filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	require.True(t, isConfigError(err))

	_, err = execute(t, "--log-level", "verbose")
	require.Error(t, err)
	require.True(t, isConfigError(err))
}

func TestRejectsPositionalArgs(t *testing.T) {
	_, err := execute(t, "extra")
	require.Error(t, err)
	require.False(t, isConfigError(err))
}
