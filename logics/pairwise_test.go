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

package logics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPairwiseCache(t *testing.T) {
	cache := NewPairwiseCache()
	computed := 0
	compute := func() float64 {
		computed++
		return 0.5
	}

	assert.Equal(t, 0.5, cache.GetOrCompute("a", "b", compute))
	assert.Equal(t, 1, computed)
	// hit returns the stored value without recomputation
	assert.Equal(t, 0.5, cache.GetOrCompute("a", "b", compute))
	assert.Equal(t, 1, computed)
	// both argument orders share one slot
	assert.Equal(t, 0.5, cache.GetOrCompute("b", "a", compute))
	assert.Equal(t, 1, computed)
	assert.True(t, cache.Contains("b", "a"))
	assert.Equal(t, 1, cache.Len())
}

func TestPairwiseCacheInvalidate(t *testing.T) {
	cache := NewPairwiseCache()
	cache.GetOrCompute("a", "b", func() float64 { return 1 })
	cache.GetOrCompute("a", "c", func() float64 { return 2 })
	cache.GetOrCompute("b", "c", func() float64 { return 3 })
	assert.Equal(t, 3, cache.Len())

	cache.Invalidate("a")
	// every pair containing "a" is gone, the rest is untouched
	assert.False(t, cache.Contains("a", "b"))
	assert.False(t, cache.Contains("a", "c"))
	assert.True(t, cache.Contains("b", "c"))
	assert.Equal(t, 1, cache.Len())

	// invalidating an unknown id is a no-op
	cache.Invalidate("z")
	assert.Equal(t, 1, cache.Len())
}
