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

package data

import (
	"sort"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"github.com/samber/lo"
)

// Content types.
const (
	Movie       = "movie"
	Series      = "series"
	Documentary = "documentary"
	Short       = "short"
)

// Item stores metadata about a piece of content.
type Item struct {
	ItemId      string
	Title       string
	Type        string
	Description string
	Genres      []string
	Tags        []string
	ReleaseDate *time.Time
	Duration    int            // minutes
	Ratings     map[string]int // user id -> rating in [1, 5], last write wins
	Popularity  float64        // nominally in [0, 10], never clamped here
}

// NewItem creates an item with empty metadata.
func NewItem(itemId, title, itemType string) *Item {
	return &Item{
		ItemId:  itemId,
		Title:   title,
		Type:    itemType,
		Genres:  []string{},
		Tags:    []string{},
		Ratings: make(map[string]int),
	}
}

// AverageRating returns the mean of all user ratings, or 0 for an unrated item.
func (item *Item) AverageRating() float64 {
	if len(item.Ratings) == 0 {
		return 0
	}
	return float64(lo.Sum(lo.Values(item.Ratings))) / float64(len(item.Ratings))
}

// GenreSet returns the genre labels as a set.
func (item *Item) GenreSet() mapset.Set[string] {
	return mapset.NewThreadUnsafeSet(item.Genres...)
}

// TagSet returns the free-form tags as a set.
func (item *Item) TagSet() mapset.Set[string] {
	return mapset.NewThreadUnsafeSet(item.Tags...)
}

// ItemPatch is the modification on an item. Nil fields are left untouched,
// so only the listed metadata can ever be updated in place.
type ItemPatch struct {
	Title       *string
	Description *string
	Genres      []string
	Tags        []string
	ReleaseDate *time.Time
	Duration    *int
	Popularity  *float64
}

// Apply merges the patch into the item.
func (patch ItemPatch) Apply(item *Item) {
	if patch.Title != nil {
		item.Title = *patch.Title
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Genres != nil {
		item.Genres = patch.Genres
	}
	if patch.Tags != nil {
		item.Tags = patch.Tags
	}
	if patch.ReleaseDate != nil {
		item.ReleaseDate = patch.ReleaseDate
	}
	if patch.Duration != nil {
		item.Duration = *patch.Duration
	}
	if patch.Popularity != nil {
		item.Popularity = *patch.Popularity
	}
}

// WatchRecord is one logged viewing event.
type WatchRecord struct {
	ItemId        string
	WatchDuration int     // seconds
	Completion    float64 // fraction in [0, 1]
	Timestamp     time.Time
}

// User stores a viewer profile.
type User struct {
	UserId      string
	Name        string
	Preferences map[string]float64 // genre -> weight in [0, 1]
	// WatchHistory is append-only. Repeat views of the same item are kept
	// as separate records.
	WatchHistory []WatchRecord
}

// NewUser creates a user with no preferences and an empty history.
func NewUser(userId, name string) *User {
	return &User{
		UserId:      userId,
		Name:        name,
		Preferences: make(map[string]float64),
	}
}

// UpdatePreferences merges preference weights into the profile. The whole
// batch is validated before the first write, so a rejected weight leaves the
// profile untouched.
func (user *User) UpdatePreferences(preferences map[string]float64) error {
	for genre, weight := range preferences {
		if weight < 0 || weight > 1 {
			return errors.NotValidf("preference weight %v for genre %s", weight, genre)
		}
	}
	for genre, weight := range preferences {
		user.Preferences[genre] = weight
	}
	return nil
}

// AddWatchRecord appends a viewing event to the history.
func (user *User) AddWatchRecord(itemId string, watchDuration int, completion float64, timestamp time.Time) {
	user.WatchHistory = append(user.WatchHistory, WatchRecord{
		ItemId:        itemId,
		WatchDuration: watchDuration,
		Completion:    completion,
		Timestamp:     timestamp,
	})
}

// WatchedItems returns the distinct watched item ids in first-view order.
func (user *User) WatchedItems() []string {
	return lo.Uniq(lo.Map(user.WatchHistory, func(record WatchRecord, _ int) string {
		return record.ItemId
	}))
}

// WatchedSet returns the distinct watched item ids as a set.
func (user *User) WatchedSet() mapset.Set[string] {
	return mapset.NewThreadUnsafeSet(user.WatchedItems()...)
}

// FirstCompletion returns the completion fraction of the earliest watch
// record for an item. Repeat views are ignored rather than averaged.
func (user *User) FirstCompletion(itemId string) (float64, bool) {
	for _, record := range user.WatchHistory {
		if record.ItemId == itemId {
			return record.Completion, true
		}
	}
	return 0, false
}

// FavoriteGenres returns the top n genres by preference weight. Equal
// weights are ordered alphabetically to keep the output deterministic.
func (user *User) FavoriteGenres(n int) []lo.Tuple2[string, float64] {
	genres := lo.MapToSlice(user.Preferences, func(genre string, weight float64) lo.Tuple2[string, float64] {
		return lo.T2(genre, weight)
	})
	sort.Slice(genres, func(i, j int) bool {
		if genres[i].B != genres[j].B {
			return genres[i].B > genres[j].B
		}
		return genres[i].A < genres[j].A
	})
	if len(genres) > n {
		genres = genres[:n]
	}
	return genres
}
