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
	"time"

	"github.com/araddon/dateparse"
	"github.com/gorse-io/flick/base/json"
	"github.com/gorse-io/flick/base/log"
	"github.com/gorse-io/flick/engine"
	"github.com/gorse-io/flick/storage/data"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	usersFile = "users.json"
	itemsFile = "content.json"
)

// Store persists engine state as JSON files under a directory. Records are
// kept in arrays so that catalog insertion order survives a round trip.
type Store struct {
	path string
}

// NewStore creates a store rooted at the directory.
func NewStore(path string) *Store {
	return &Store{path: path}
}

type watchRecord struct {
	ItemId        string  `json:"content_id"`
	WatchDuration int     `json:"watch_duration"`
	Completion    float64 `json:"completion"`
	Timestamp     string  `json:"timestamp"`
}

type userRecord struct {
	UserId      string             `json:"user_id"`
	Name        string             `json:"username,omitempty"`
	Preferences map[string]float64 `json:"preferences,omitempty"`
	History     []watchRecord      `json:"viewing_history,omitempty"`
}

type itemRecord struct {
	ItemId      string         `json:"content_id"`
	Title       string         `json:"title"`
	Type        string         `json:"content_type"`
	Description string         `json:"description,omitempty"`
	Genres      []string       `json:"genres,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	ReleaseDate string         `json:"release_date,omitempty"`
	Duration    int            `json:"duration,omitempty"`
	Ratings     map[string]int `json:"ratings,omitempty"`
	Popularity  float64        `json:"popularity_score"`
}

// Load reads users and catalog items into the engine. Missing files mean an
// empty state, not an error.
func (s *Store) Load(e *engine.Engine) error {
	if err := s.loadUsers(e); err != nil {
		return errors.Trace(err)
	}
	if err := s.loadItems(e); err != nil {
		return errors.Trace(err)
	}
	log.Logger().Info("loaded data",
		zap.String("path", s.path),
		zap.Int("users", e.CountUsers()),
		zap.Int("items", e.CountItems()))
	return nil
}

func (s *Store) loadUsers(e *engine.Engine) error {
	buf, err := os.ReadFile(filepath.Join(s.path, usersFile))
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return errors.Trace(err)
	}
	var records []userRecord
	if err = json.Unmarshal(buf, &records); err != nil {
		return errors.Trace(err)
	}
	for _, record := range records {
		user := e.AddUser(record.UserId, record.Name)
		for genre, weight := range record.Preferences {
			user.Preferences[genre] = weight
		}
		for _, view := range record.History {
			user.AddWatchRecord(view.ItemId, view.WatchDuration, view.Completion,
				parseTimestamp(view.Timestamp))
		}
	}
	return nil
}

func (s *Store) loadItems(e *engine.Engine) error {
	buf, err := os.ReadFile(filepath.Join(s.path, itemsFile))
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return errors.Trace(err)
	}
	var records []itemRecord
	if err = json.Unmarshal(buf, &records); err != nil {
		return errors.Trace(err)
	}
	for _, record := range records {
		item := e.AddItem(record.ItemId, record.Title, record.Type)
		item.Description = record.Description
		item.Genres = record.Genres
		item.Tags = record.Tags
		item.Duration = record.Duration
		item.Popularity = record.Popularity
		if record.Ratings != nil {
			item.Ratings = record.Ratings
		}
		if record.ReleaseDate != "" {
			if released, err := dateparse.ParseAny(record.ReleaseDate); err == nil {
				item.ReleaseDate = &released
			}
		}
	}
	return nil
}

// parseTimestamp reconstructs a persisted timestamp, substituting the
// current time for malformed values.
func parseTimestamp(value string) time.Time {
	timestamp, err := dateparse.ParseAny(value)
	if err != nil {
		log.Logger().Warn("malformed timestamp", zap.String("value", value), zap.Error(err))
		return time.Now()
	}
	return timestamp
}

// Save writes the engine state back out, timestamps in RFC 3339.
func (s *Store) Save(e *engine.Engine) error {
	if err := os.MkdirAll(s.path, os.ModePerm); err != nil {
		return errors.Trace(err)
	}
	users := lo.Map(e.Users(), func(user *data.User, _ int) userRecord {
		return userRecord{
			UserId:      user.UserId,
			Name:        user.Name,
			Preferences: user.Preferences,
			History: lo.Map(user.WatchHistory, func(view data.WatchRecord, _ int) watchRecord {
				return watchRecord{
					ItemId:        view.ItemId,
					WatchDuration: view.WatchDuration,
					Completion:    view.Completion,
					Timestamp:     view.Timestamp.Format(time.RFC3339),
				}
			}),
		}
	})
	if err := s.writeFile(usersFile, users); err != nil {
		return errors.Trace(err)
	}
	items := lo.Map(e.Items(), func(item *data.Item, _ int) itemRecord {
		record := itemRecord{
			ItemId:      item.ItemId,
			Title:       item.Title,
			Type:        item.Type,
			Description: item.Description,
			Genres:      item.Genres,
			Tags:        item.Tags,
			Duration:    item.Duration,
			Ratings:     item.Ratings,
			Popularity:  item.Popularity,
		}
		if item.ReleaseDate != nil {
			record.ReleaseDate = item.ReleaseDate.Format(time.RFC3339)
		}
		return record
	})
	if err := s.writeFile(itemsFile, items); err != nil {
		return errors.Trace(err)
	}
	log.Logger().Info("saved data",
		zap.String("path", s.path),
		zap.Int("users", e.CountUsers()),
		zap.Int("items", e.CountItems()))
	return nil
}

func (s *Store) writeFile(name string, v any) error {
	buf, err := json.MarshalIndent(v)
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(os.WriteFile(filepath.Join(s.path, name), buf, 0644))
}
