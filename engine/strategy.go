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

package engine

import (
	"sort"

	"github.com/gorse-io/flick/base/heap"
	"github.com/samber/lo"
)

// Weights of the hybrid rank-position merge.
const (
	contentWeight       = 0.6
	collaborativeWeight = 0.4
)

type scoredItem struct {
	itemId string
	score  float64
}

// rankScores orders the scored candidates by descending score and truncates
// to n. Candidates are collected in catalog insertion order and the sort is
// stable, so tied items keep first-inserted-wins order.
func (e *Engine) rankScores(scores map[string]float64, n int) []string {
	ranked := make([]scoredItem, 0, len(scores))
	for _, itemId := range e.itemIds {
		if score, ok := scores[itemId]; ok {
			ranked = append(ranked, scoredItem{itemId, score})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return lo.Map(ranked, func(s scoredItem, _ int) string {
		return s.itemId
	})
}

// recommendContentBased ranks unseen items by similarity to the user's
// watched items, each watched item weighted by the completion fraction of
// its first watch record.
func (e *Engine) recommendContentBased(userId string, n int) []string {
	user, ok := e.users[userId]
	if !ok {
		return e.recommendPopular(n)
	}
	watchedIds := user.WatchedItems()
	watchedSet := user.WatchedSet()
	scores := make(map[string]float64)
	for _, watchedId := range watchedIds {
		if _, inCatalog := e.items[watchedId]; !inCatalog {
			continue
		}
		weight, _ := user.FirstCompletion(watchedId)
		for _, candidateId := range e.itemIds {
			if watchedSet.Contains(candidateId) {
				continue
			}
			// zero similarity still places the candidate in the ranking
			scores[candidateId] += e.ContentSimilarity(watchedId, candidateId) * weight
		}
	}
	return e.rankScores(scores, n)
}

// recommendCollaborative ranks unseen items by how the most similar users
// watched them. Unlike the content-based path, every matching watch record
// of a neighbor contributes, not only the first one.
func (e *Engine) recommendCollaborative(userId string, n int) []string {
	user, ok := e.users[userId]
	if !ok {
		return e.recommendPopular(n)
	}
	watchedSet := user.WatchedSet()
	// nearest neighbors by profile similarity, ties keep insertion order
	neighbors := heap.NewTopKFilter[string, float64](e.neighbors)
	for _, otherId := range e.userIds {
		if otherId == userId {
			continue
		}
		neighbors.Push(otherId, e.UserSimilarity(userId, otherId))
	}
	scores := make(map[string]float64)
	for _, neighbor := range neighbors.PopAll() {
		other := e.users[neighbor.Value]
		for _, record := range other.WatchHistory {
			if watchedSet.Contains(record.ItemId) {
				continue
			}
			if _, inCatalog := e.items[record.ItemId]; !inCatalog {
				continue
			}
			scores[record.ItemId] += neighbor.Weight * record.Completion
		}
	}
	return e.rankScores(scores, n)
}

// recommendHybrid merges the content-based and collaborative rankings by
// rank position.
func (e *Engine) recommendHybrid(userId string, n int) []string {
	contentIds := e.recommendContentBased(userId, n)
	collaborativeIds := e.recommendCollaborative(userId, n)
	return mergeRanked(contentIds, collaborativeIds, n)
}

// mergeRanked converts each ranked list to position scores, weight*(n-i)
// with the caller's n, sums them per item and reranks. Ties keep first
// appearance across the merge, content-based list first.
func mergeRanked(contentIds, collaborativeIds []string, n int) []string {
	scores := make(map[string]float64)
	var order []string
	for i, itemId := range contentIds {
		if _, ok := scores[itemId]; !ok {
			order = append(order, itemId)
		}
		scores[itemId] += contentWeight * float64(n-i)
	}
	for i, itemId := range collaborativeIds {
		if _, ok := scores[itemId]; !ok {
			order = append(order, itemId)
		}
		scores[itemId] += collaborativeWeight * float64(n-i)
	}
	merged := lo.Map(order, func(itemId string, _ int) scoredItem {
		return scoredItem{itemId, scores[itemId]}
	})
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].score > merged[j].score
	})
	if len(merged) > n {
		merged = merged[:n]
	}
	return lo.Map(merged, func(s scoredItem, _ int) string {
		return s.itemId
	})
}

// recommendPopular ranks the whole catalog by popularity score. This is the
// cold-start path and a directly selectable strategy.
func (e *Engine) recommendPopular(n int) []string {
	scores := make(map[string]float64, len(e.itemIds))
	for _, itemId := range e.itemIds {
		scores[itemId] = e.items[itemId].Popularity
	}
	return e.rankScores(scores, n)
}
