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

package kernel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewObjectZeroFilled(t *testing.T) {
	t.Parallel()

	obj := NewObject(42)
	require.Equal(t, int64(42), obj.ID)
	require.Len(t, obj.Data, DataSize)
	for i := range obj.Data {
		require.Zero(t, obj.Data[i])
	}
}

func TestPerformWork(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		id   int64
	}{
		{name: "zero", id: 0},
		{name: "small", id: 17},
		{name: "large", id: 99_999_999},
		{name: "near max", id: math.MaxInt64 - 10},
		{name: "max", id: math.MaxInt64},
		{name: "negative", id: -5},
		{name: "min", id: math.MinInt64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := NewObject(tt.id)
			obj.PerformWork()
			for i := 0; i < DataSize; i++ {
				want := (tt.id + int64(i)) & Mask
				require.Equal(t, want, obj.Data[i], "index %d", i)
				require.GreaterOrEqual(t, obj.Data[i], int64(0))
			}
		})
	}
}

func TestPerformWorkWrapsThenMasks(t *testing.T) {
	t.Parallel()

	obj := NewObject(math.MaxInt64)
	obj.PerformWork()
	require.Equal(t, int64(math.MaxInt64), obj.GetData(0))
	// MaxInt64+1 wraps to MinInt64, which masks to 0.
	require.Equal(t, int64(0), obj.GetData(1))
	require.Equal(t, int64(62), obj.GetData(63))
}

func TestPerformWorkIgnoresPriorState(t *testing.T) {
	t.Parallel()

	fresh := NewObject(1234)
	fresh.PerformWork()

	dirty := NewObject(1234)
	for i := range dirty.Data {
		dirty.Data[i] = -int64(i) - 1
	}
	dirty.PerformWork()
	require.Equal(t, fresh.Data, dirty.Data)

	dirty.PerformWork()
	require.Equal(t, fresh.Data, dirty.Data)
}

func TestGetDataOutOfRangePanics(t *testing.T) {
	t.Parallel()

	obj := NewObject(1)
	require.Panics(t, func() { obj.GetData(DataSize) })
	require.Panics(t, func() { obj.GetData(-1) })
}
