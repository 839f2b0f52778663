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
	"os"
	"os/signal"
	"syscall"
)

const (
	ExitCodeExecuteFailed = 1
	ExitCodeInvalidConfig = 2
)

func main() {
	os.Exit(runMain())
}

func runMain() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		// A run in progress only sees the cancellation once it finishes, so a
		// second signal falls back to the default action and kills the process.
		<-ctx.Done()
		stop()
	}()

	cmd := newRootCommand(os.Stdout)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if isConfigError(err) {
			return ExitCodeInvalidConfig
		}
		return ExitCodeExecuteFailed
	}
	return 0
}
