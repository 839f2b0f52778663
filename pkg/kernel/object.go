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

const (
	// DataSize is the number of words carried by every Object.
	DataSize = 64
	// Mask clears the sign bit of an int64.
	Mask int64 = 0x7FFFFFFFFFFFFFFF
)

// Object is the unit of work mutated by the benchmark loop.
type Object struct {
	ID   int64
	Data [DataSize]int64
}

// NewObject returns a zero-filled object with the given id.
func NewObject(id int64) *Object {
	return &Object{ID: id}
}

// PerformWork fills Data with (ID + i) & Mask. The addition wraps on overflow
// before the mask is applied.
func (o *Object) PerformWork() {
	for i := 0; i < DataSize; i++ {
		o.Data[i] = (o.ID + int64(i)) & Mask
	}
}

// GetData returns the word at index. Index must be within [0, DataSize).
func (o *Object) GetData(index int) int64 {
	return o.Data[index]
}
