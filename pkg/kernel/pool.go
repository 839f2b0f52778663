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

import "fmt"

// Pool is a fixed capacity, cyclically indexed set of objects.
// It is not safe for concurrent use.
type Pool struct {
	objects []*Object
}

// NewPool creates an empty pool holding at most capacity objects.
func NewPool(capacity int) *Pool {
	if capacity <= 0 {
		panic(fmt.Sprintf("kernel: invalid pool capacity %d", capacity))
	}
	return &Pool{objects: make([]*Object, 0, capacity)}
}

// Place creates a new object for iteration in slot iteration%Cap(). The slot is
// appended while the pool is filling up and replaced with a fresh allocation
// afterwards. The object now occupying the slot is returned.
//
// Iterations must be placed in order starting from 0.
func (p *Pool) Place(iteration int64) *Object {
	index := int(iteration % int64(cap(p.objects)))
	obj := NewObject(iteration)
	if len(p.objects) <= index {
		p.objects = append(p.objects, obj)
	} else {
		p.objects[index] = obj
	}
	return p.objects[index]
}

// Len returns the number of populated slots.
func (p *Pool) Len() int {
	return len(p.objects)
}

// Cap returns the capacity of the pool.
func (p *Pool) Cap() int {
	return cap(p.objects)
}

// At returns the object at slot index.
func (p *Pool) At(index int) *Object {
	return p.objects[index]
}

// IDs returns the object ids ordered by slot.
func (p *Pool) IDs() []int64 {
	ids := make([]int64, 0, len(p.objects))
	for _, obj := range p.objects {
		ids = append(ids, obj.ID)
	}
	return ids
}
