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
	"strings"

	"github.com/jellydator/ttlcache/v3"
)

// pairKeySeparator never appears in identifiers handed to the engine.
const pairKeySeparator = "\x00"

// PairwiseCache memoizes a symmetric score between pairs of identifiers.
// The key is canonicalized so both argument orders share one slot. Entries
// never expire and are never evicted; invalidation is explicit.
type PairwiseCache struct {
	cache *ttlcache.Cache[string, float64]
}

// NewPairwiseCache creates an empty cache.
func NewPairwiseCache() *PairwiseCache {
	return &PairwiseCache{
		cache: ttlcache.New[string, float64](
			ttlcache.WithTTL[string, float64](ttlcache.NoTTL),
		),
	}
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + pairKeySeparator + b
}

// GetOrCompute returns the memoized score for the pair, computing and
// storing it on the first request.
func (c *PairwiseCache) GetOrCompute(a, b string, compute func() float64) float64 {
	key := pairKey(a, b)
	if item := c.cache.Get(key); item != nil {
		return item.Value()
	}
	score := compute()
	c.cache.Set(key, score, ttlcache.NoTTL)
	return score
}

// Invalidate removes every entry whose pair contains the identifier. The
// scan is linear in the cache size, which holds at most O(n²) entries for a
// single in-memory dataset.
func (c *PairwiseCache) Invalidate(id string) {
	for _, key := range c.cache.Keys() {
		a, b, _ := strings.Cut(key, pairKeySeparator)
		if a == id || b == id {
			c.cache.Delete(key)
		}
	}
}

// Contains reports whether the pair is memoized, in either argument order.
func (c *PairwiseCache) Contains(a, b string) bool {
	return c.cache.Has(pairKey(a, b))
}

// Len returns the number of memoized pairs.
func (c *PairwiseCache) Len() int {
	return c.cache.Len()
}
