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
	"testing"

	"github.com/gorse-io/flick/logics"
	"github.com/gorse-io/flick/storage/data"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestAddUserIdempotent(t *testing.T) {
	e := NewEngine(nil)
	user := e.AddUser("u1", "User 1")
	assert.NoError(t, e.UpdatePreferences("u1", map[string]float64{"Action": 0.9}))

	// re-adding returns the original record, not a reset one
	again := e.AddUser("u1", "Someone Else")
	assert.Same(t, user, again)
	assert.Equal(t, "User 1", again.Name)
	assert.Equal(t, map[string]float64{"Action": 0.9}, again.Preferences)
	assert.Equal(t, 1, e.CountUsers())
}

func TestAddItemIdempotent(t *testing.T) {
	e := NewEngine(nil)
	item := e.AddItem("c1", "Sample Content 1", data.Movie)
	item.Popularity = 9.5

	again := e.AddItem("c1", "Other Title", data.Series)
	assert.Same(t, item, again)
	assert.Equal(t, "Sample Content 1", again.Title)
	assert.Equal(t, data.Movie, again.Type)
	assert.Equal(t, 9.5, again.Popularity)
	assert.Equal(t, 1, e.CountItems())
}

func TestUpdatePreferencesValidation(t *testing.T) {
	e := NewEngine(nil)
	assert.NoError(t, e.UpdatePreferences("u1", map[string]float64{"Action": 0.9}))

	err := e.UpdatePreferences("u1", map[string]float64{"Action": 1.5})
	assert.True(t, errors.Is(err, errors.NotValid))
	user, _ := e.GetUser("u1")
	assert.Equal(t, map[string]float64{"Action": 0.9}, user.Preferences)
}

func TestUserSimilarityCacheInvalidation(t *testing.T) {
	e := NewEngine(nil)
	for _, userId := range []string{"u1", "u2", "u3"} {
		assert.NoError(t, e.UpdatePreferences(userId, map[string]float64{"Action": 0.5}))
	}
	e.UserSimilarity("u1", "u2")
	e.UserSimilarity("u1", "u3")
	e.UserSimilarity("u2", "u3")
	assert.Equal(t, 3, e.userCache.Len())

	assert.NoError(t, e.UpdatePreferences("u1", map[string]float64{"Comedy": 0.8}))
	// every entry involving u1 is gone, the rest is untouched
	assert.False(t, e.userCache.Contains("u1", "u2"))
	assert.False(t, e.userCache.Contains("u1", "u3"))
	assert.True(t, e.userCache.Contains("u2", "u3"))

	// history mutation invalidates as well
	e.UserSimilarity("u2", "u1")
	e.AddWatchRecord("u2", "c1", 600, 0.5)
	assert.False(t, e.userCache.Contains("u1", "u2"))
	assert.False(t, e.userCache.Contains("u2", "u3"))
}

func TestContentSimilarityCacheTransparency(t *testing.T) {
	e := NewEngine(nil)
	c1 := e.AddItem("c1", "Sample Content 1", data.Movie)
	c1.Genres = []string{"Action", "Adventure"}
	c2 := e.AddItem("c2", "Sample Content 2", data.Movie)
	c2.Genres = []string{"Action"}

	direct := logics.ContentSimilarity(c1, c2)
	assert.Equal(t, direct, e.ContentSimilarity("c1", "c2"))
	// cached path returns the identical value, in both argument orders
	assert.Equal(t, direct, e.ContentSimilarity("c1", "c2"))
	assert.Equal(t, direct, e.ContentSimilarity("c2", "c1"))
	assert.Equal(t, 1, e.contentCache.Len())
}

func TestContentSimilarityFrozenAfterPatch(t *testing.T) {
	e := NewEngine(nil)
	e.AddItem("c1", "Sample Content 1", data.Movie)
	e.AddItem("c2", "Sample Content 2", data.Movie)
	before := e.ContentSimilarity("c1", "c2")

	// patches do not drop cached content similarities
	assert.NoError(t, e.PatchItem("c1", data.ItemPatch{Genres: []string{"Action"}, Popularity: lo.ToPtr(5.0)}))
	assert.Equal(t, before, e.ContentSimilarity("c1", "c2"))
	assert.True(t, e.contentCache.Contains("c1", "c2"))
}

func TestContentSimilarityUnknownItem(t *testing.T) {
	e := NewEngine(nil)
	e.AddItem("c1", "Sample Content 1", data.Movie)
	assert.Equal(t, 0.0, e.ContentSimilarity("c1", "missing"))
	assert.Equal(t, 0.0, e.ContentSimilarity("missing", "c1"))
	// the miss is not memoized
	assert.Zero(t, e.contentCache.Len())
}

func TestRateItem(t *testing.T) {
	e := NewEngine(nil)
	e.AddItem("c1", "Sample Content 1", data.Movie)
	assert.NoError(t, e.RateItem("c1", "u1", 4))
	// last write wins
	assert.NoError(t, e.RateItem("c1", "u1", 5))
	item, _ := e.GetItem("c1")
	assert.Equal(t, map[string]int{"u1": 5}, item.Ratings)

	assert.True(t, errors.Is(e.RateItem("c1", "u1", 0), errors.NotValid))
	assert.True(t, errors.Is(e.RateItem("c1", "u1", 6), errors.NotValid))
	assert.True(t, errors.Is(e.RateItem("missing", "u1", 3), errors.NotFound))
}

func TestUnknownStrategy(t *testing.T) {
	e := NewEngine(nil)
	_, err := e.Recommend("u1", "magic", 10)
	assert.True(t, errors.Is(err, errors.NotSupported))
	assert.ErrorContains(t, err, StrategyContentBased)
	assert.ErrorContains(t, err, StrategyPopular)
}
