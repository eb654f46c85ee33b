// Copyright 2025 flick Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package heap

import (
	"container/heap"

	"golang.org/x/exp/constraints"
)

// Elem is a value with its weight.
type Elem[T any, W constraints.Ordered] struct {
	Value  T
	Weight W
}

type entry[T any, W constraints.Ordered] struct {
	elem Elem[T, W]
	seq  int
}

type _heap[T any, W constraints.Ordered] []entry[T, W]

func (h _heap[T, W]) Len() int {
	return len(h)
}

// On equal weights the later entry ranks lower, so first-pushed wins both
// retention and output order.
func (h _heap[T, W]) Less(i, j int) bool {
	if h[i].elem.Weight != h[j].elem.Weight {
		return h[i].elem.Weight < h[j].elem.Weight
	}
	return h[i].seq > h[j].seq
}

func (h _heap[T, W]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *_heap[T, W]) Push(x any) {
	*h = append(*h, x.(entry[T, W]))
}

func (h *_heap[T, W]) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// TopKFilter filters out the top k items with maximum weights.
type TopKFilter[T any, W constraints.Ordered] struct {
	_heap[T, W]
	k   int
	seq int
}

// NewTopKFilter creates a top k filter.
func NewTopKFilter[T any, W constraints.Ordered](k int) *TopKFilter[T, W] {
	return &TopKFilter[T, W]{k: k}
}

// Push pushes an element onto the heap.
// The complexity is O(log n) where n = filter.Len().
func (filter *TopKFilter[T, W]) Push(item T, weight W) {
	heap.Push(&filter._heap, entry[T, W]{Elem[T, W]{item, weight}, filter.seq})
	filter.seq++
	if filter.Len() > filter.k {
		heap.Pop(&filter._heap)
	}
}

// PopAll pops all elements in the filter with decreasing weights.
func (filter *TopKFilter[T, W]) PopAll() []Elem[T, W] {
	elems := make([]Elem[T, W], filter.Len())
	for i := len(elems) - 1; i >= 0; i-- {
		elems[i] = heap.Pop(&filter._heap).(entry[T, W]).elem
	}
	return elems
}

// PopAllValues pops all values in the filter with decreasing weights.
func (filter *TopKFilter[T, W]) PopAllValues() []T {
	elems := filter.PopAll()
	values := make([]T, len(elems))
	for i, elem := range elems {
		values[i] = elem.Value
	}
	return values
}
