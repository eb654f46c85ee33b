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

package local

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorse-io/flick/engine"
	"github.com/gorse-io/flick/storage/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFiles(t *testing.T) {
	store := NewStore(t.TempDir())
	e := engine.NewEngine(nil)
	assert.NoError(t, store.Load(e))
	assert.Zero(t, e.CountUsers())
	assert.Zero(t, e.CountItems())
}

func TestRoundTrip(t *testing.T) {
	source := engine.NewEngine(nil)
	c1 := source.AddItem("c1", "Sample Content 1", data.Movie)
	c1.Genres = []string{"Action", "Adventure"}
	c1.Tags = []string{"epic"}
	c1.Popularity = 9.5
	released := time.Date(1999, 3, 31, 0, 0, 0, 0, time.UTC)
	c1.ReleaseDate = &released
	c1.Duration = 136
	source.AddItem("c2", "Sample Content 2", data.Series)
	require.NoError(t, source.RateItem("c1", "u1", 5))

	require.NoError(t, source.UpdatePreferences("u1", map[string]float64{"Action": 0.9}))
	source.AddWatchRecord("u1", "c1", 7000, 1.0)
	source.AddUser("u2", "User 2")

	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, store.Save(source))

	restored := engine.NewEngine(nil)
	require.NoError(t, store.Load(restored))
	assert.Equal(t, 2, restored.CountUsers())
	assert.Equal(t, 2, restored.CountItems())

	item, ok := restored.GetItem("c1")
	require.True(t, ok)
	assert.Equal(t, "Sample Content 1", item.Title)
	assert.Equal(t, data.Movie, item.Type)
	assert.Equal(t, []string{"Action", "Adventure"}, item.Genres)
	assert.Equal(t, []string{"epic"}, item.Tags)
	assert.Equal(t, 9.5, item.Popularity)
	assert.Equal(t, 136, item.Duration)
	require.NotNil(t, item.ReleaseDate)
	assert.True(t, released.Equal(*item.ReleaseDate))
	assert.Equal(t, map[string]int{"u1": 5}, item.Ratings)

	user, ok := restored.GetUser("u1")
	require.True(t, ok)
	assert.Equal(t, map[string]float64{"Action": 0.9}, user.Preferences)
	require.Len(t, user.WatchHistory, 1)
	assert.Equal(t, "c1", user.WatchHistory[0].ItemId)
	assert.Equal(t, 7000, user.WatchHistory[0].WatchDuration)
	assert.Equal(t, 1.0, user.WatchHistory[0].Completion)

	// catalog insertion order survives the round trip
	assert.Equal(t, "c1", restored.Items()[0].ItemId)
	assert.Equal(t, "c2", restored.Items()[1].ItemId)
}

func TestMalformedTimestamp(t *testing.T) {
	dir := t.TempDir()
	payload := `[{"user_id":"u1","viewing_history":[` +
		`{"content_id":"c1","watch_duration":600,"completion":0.5,"timestamp":"not-a-time"}]}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, usersFile), []byte(payload), 0644))

	e := engine.NewEngine(nil)
	before := time.Now()
	require.NoError(t, NewStore(dir).Load(e))
	user, ok := e.GetUser("u1")
	require.True(t, ok)
	require.Len(t, user.WatchHistory, 1)
	// malformed timestamps substitute the current time
	assert.False(t, user.WatchHistory[0].Timestamp.Before(before))
}
