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
	"strings"
	"time"

	"github.com/gorse-io/flick/config"
	"github.com/gorse-io/flick/logics"
	"github.com/gorse-io/flick/storage/data"
	"github.com/juju/errors"
)

// Strategy names accepted by Recommend.
const (
	StrategyContentBased  = "content_based"
	StrategyCollaborative = "collaborative"
	StrategyHybrid        = "hybrid"
	StrategyPopular       = "popular"
)

// Strategies lists the supported strategy names.
func Strategies() []string {
	return []string{StrategyContentBased, StrategyCollaborative, StrategyHybrid, StrategyPopular}
}

// Engine owns the user and item collections and both similarity caches. It
// is the sole mutation point, so cache invalidation always goes through its
// entry points. There is no internal locking: the engine expects a single
// logical caller at a time.
type Engine struct {
	users   map[string]*data.User
	userIds []string
	items   map[string]*data.Item
	itemIds []string

	// contentCache entries freeze at first computation: patching an item
	// does not drop its cached similarities. userCache entries are dropped
	// for a user whenever their preferences or history change.
	contentCache *logics.PairwiseCache
	userCache    *logics.PairwiseCache

	neighbors int
}

// NewEngine creates an empty engine. A nil config falls back to defaults.
func NewEngine(conf *config.Config) *Engine {
	if conf == nil {
		conf = config.GetDefaultConfig()
	}
	return &Engine{
		users:        make(map[string]*data.User),
		items:        make(map[string]*data.Item),
		contentCache: logics.NewPairwiseCache(),
		userCache:    logics.NewPairwiseCache(),
		neighbors:    conf.Recommend.Neighbors,
	}
}

// AddUser creates a user, or returns the existing record unchanged.
func (e *Engine) AddUser(userId, name string) *data.User {
	if user, ok := e.users[userId]; ok {
		return user
	}
	user := data.NewUser(userId, name)
	e.users[userId] = user
	e.userIds = append(e.userIds, userId)
	return user
}

// AddItem creates a catalog item, or returns the existing record unchanged.
func (e *Engine) AddItem(itemId, title, itemType string) *data.Item {
	if item, ok := e.items[itemId]; ok {
		return item
	}
	item := data.NewItem(itemId, title, itemType)
	e.items[itemId] = item
	e.itemIds = append(e.itemIds, itemId)
	return item
}

// GetUser returns a user record.
func (e *Engine) GetUser(userId string) (*data.User, bool) {
	user, ok := e.users[userId]
	return user, ok
}

// GetItem returns an item record.
func (e *Engine) GetItem(itemId string) (*data.Item, bool) {
	item, ok := e.items[itemId]
	return item, ok
}

// Users returns all user records in insertion order.
func (e *Engine) Users() []*data.User {
	users := make([]*data.User, len(e.userIds))
	for i, userId := range e.userIds {
		users[i] = e.users[userId]
	}
	return users
}

// Items returns all item records in insertion order.
func (e *Engine) Items() []*data.Item {
	items := make([]*data.Item, len(e.itemIds))
	for i, itemId := range e.itemIds {
		items[i] = e.items[itemId]
	}
	return items
}

// CountUsers returns the number of users.
func (e *Engine) CountUsers() int {
	return len(e.users)
}

// CountItems returns the number of catalog items.
func (e *Engine) CountItems() int {
	return len(e.items)
}

// UpdatePreferences merges genre preference weights into the user profile,
// creating the user on first sight. All weights are validated before any
// write. Cached similarities involving the user are dropped.
func (e *Engine) UpdatePreferences(userId string, preferences map[string]float64) error {
	user := e.AddUser(userId, "")
	if err := user.UpdatePreferences(preferences); err != nil {
		return errors.Trace(err)
	}
	e.userCache.Invalidate(userId)
	return nil
}

// AddWatchRecord appends a viewing event to the user history, creating the
// user on first sight. Cached similarities involving the user are dropped.
func (e *Engine) AddWatchRecord(userId, itemId string, watchDuration int, completion float64) {
	user := e.AddUser(userId, "")
	user.AddWatchRecord(itemId, watchDuration, completion, time.Now())
	e.userCache.Invalidate(userId)
}

// RateItem records a user rating on an item, last write wins.
func (e *Engine) RateItem(itemId, userId string, rating int) error {
	if rating < 1 || rating > 5 {
		return errors.NotValidf("rating %d", rating)
	}
	item, ok := e.items[itemId]
	if !ok {
		return errors.NotFoundf("item %s", itemId)
	}
	item.Ratings[userId] = rating
	return nil
}

// PatchItem merges whitelisted metadata fields into an item. Content
// similarities computed before the patch stay cached: scores freeze at
// first computation.
func (e *Engine) PatchItem(itemId string, patch data.ItemPatch) error {
	item, ok := e.items[itemId]
	if !ok {
		return errors.NotFoundf("item %s", itemId)
	}
	patch.Apply(item)
	return nil
}

// ContentSimilarity returns the memoized similarity between two items, or 0
// for unknown ids without touching the cache.
func (e *Engine) ContentSimilarity(itemId1, itemId2 string) float64 {
	item1, ok1 := e.items[itemId1]
	item2, ok2 := e.items[itemId2]
	if !ok1 || !ok2 {
		return 0
	}
	return e.contentCache.GetOrCompute(itemId1, itemId2, func() float64 {
		return logics.ContentSimilarity(item1, item2)
	})
}

// UserSimilarity returns the memoized similarity between two users, or 0
// for unknown ids without touching the cache.
func (e *Engine) UserSimilarity(userId1, userId2 string) float64 {
	user1, ok1 := e.users[userId1]
	user2, ok2 := e.users[userId2]
	if !ok1 || !ok2 {
		return 0
	}
	return e.userCache.GetOrCompute(userId1, userId2, func() float64 {
		return logics.UserSimilarity(user1, user2)
	})
}

// Recommend ranks up to n catalog items for a user with the named strategy.
// Unknown users fall back to the popularity ranking instead of failing:
// cold starts are expected, not exceptional.
func (e *Engine) Recommend(userId, strategy string, n int) ([]*data.Item, error) {
	itemIds, err := e.rank(userId, strategy, n)
	if err != nil {
		return nil, errors.Trace(err)
	}
	items := make([]*data.Item, 0, len(itemIds))
	for _, itemId := range itemIds {
		// tolerate ids that vanished between scoring and resolution
		if item, ok := e.items[itemId]; ok {
			items = append(items, item)
		}
	}
	return items, nil
}

func (e *Engine) rank(userId, strategy string, n int) ([]string, error) {
	switch strategy {
	case StrategyContentBased:
		return e.recommendContentBased(userId, n), nil
	case StrategyCollaborative:
		return e.recommendCollaborative(userId, n), nil
	case StrategyHybrid:
		return e.recommendHybrid(userId, n), nil
	case StrategyPopular:
		return e.recommendPopular(n), nil
	default:
		return nil, errors.NotSupportedf("strategy %q, use one of [%s]",
			strategy, strings.Join(Strategies(), ", "))
	}
}
