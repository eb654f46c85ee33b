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
	"math"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/flick/storage/data"
)

// Sub-score weights of the content similarity blend.
const (
	genreWeight      = 0.4
	tagWeight        = 0.3
	ratingWeight     = 0.1
	popularityWeight = 0.1
	typeWeight       = 0.1
)

// Weights of the user similarity blend.
const (
	preferenceWeight = 0.6
	historyWeight    = 0.4
)

// Jaccard returns |a∩b| / |a∪b|. Two empty sets count as identical.
func Jaccard[T comparable](a, b mapset.Set[T]) float64 {
	if a.Cardinality() == 0 && b.Cardinality() == 0 {
		return 1
	}
	union := a.Union(b).Cardinality()
	if union == 0 {
		return 0
	}
	return float64(a.Intersect(b).Cardinality()) / float64(union)
}

// Cosine returns the cosine similarity of two weight vectors over the union
// of their keys, reading absent keys as zero. A zero-norm vector has no
// direction and is zero-similar to everything.
func Cosine(a, b map[string]float64) float64 {
	var dot, normA, normB float64
	keys := mapset.NewThreadUnsafeSetFromMapKeys(a)
	keys.Append(mapset.NewThreadUnsafeSetFromMapKeys(b).ToSlice()...)
	keys.Each(func(key string) bool {
		x, y := a[key], b[key]
		dot += x * y
		normA += x * x
		normB += y * y
		return false
	})
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// ContentSimilarity scores how alike two items are, blending genre and tag
// overlap with rating, popularity and type closeness. The popularity term
// subtracts raw scores without dividing by the 0-10 scale, so the result
// only stays within [0, 1] while popularity scores are close together. This
// matches the historical scoring output and must not be "fixed" silently.
func ContentSimilarity(a, b *data.Item) float64 {
	genreSim := Jaccard(a.GenreSet(), b.GenreSet())
	tagSim := Jaccard(a.TagSet(), b.TagSet())
	ratingDiff := math.Abs(a.AverageRating()-b.AverageRating()) / 5
	popularityDiff := math.Abs(a.Popularity - b.Popularity)
	var typeSim float64
	if a.Type == b.Type {
		typeSim = 1
	}
	return genreWeight*genreSim +
		tagWeight*tagSim +
		ratingWeight*(1-ratingDiff) +
		popularityWeight*(1-popularityDiff) +
		typeWeight*typeSim
}

// UserSimilarity scores how alike two viewers are from their genre
// preferences and their watch histories.
func UserSimilarity(a, b *data.User) float64 {
	preferenceSim := Cosine(a.Preferences, b.Preferences)
	// an empty history is unknown rather than identical, so the Jaccard
	// empty-empty rule does not apply here
	var historySim float64
	watchedA, watchedB := a.WatchedSet(), b.WatchedSet()
	if watchedA.Cardinality() > 0 && watchedB.Cardinality() > 0 {
		historySim = Jaccard(watchedA, watchedB)
	}
	return preferenceWeight*preferenceSim + historyWeight*historySim
}
