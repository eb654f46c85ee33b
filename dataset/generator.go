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

package dataset

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/gorse-io/flick/engine"
	"github.com/gorse-io/flick/storage/data"
	"github.com/jaswdr/faker"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"
)

var (
	sampleGenres = []string{
		"Action", "Adventure", "Animation", "Comedy", "Crime",
		"Documentary", "Drama", "Fantasy", "Horror", "Mystery",
		"Romance", "Sci-Fi", "Thriller", "Western",
	}
	sampleTags = []string{
		"violent", "funny", "suspenseful", "thought-provoking", "heartwarming",
		"inspirational", "dark", "uplifting", "scary", "educational",
		"family-friendly", "epic", "dystopian", "biographical", "nostalgic",
	}
	sampleTypes = []string{data.Movie, data.Series, data.Documentary, data.Short}
)

// Generator fills an engine with synthetic users and catalog items for
// demos and benchmarks. The same seed reproduces the same dataset.
type Generator struct {
	rng   *rand.Rand
	faker faker.Faker
	// Progress renders a progress bar on stderr when set.
	Progress bool
}

// NewGenerator creates a seeded generator.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng:   rand.New(rand.NewSource(seed)),
		faker: faker.NewWithSeed(rand.NewSource(seed)),
	}
}

// Generate adds numUsers users and numItems catalog items through the
// engine's entry points.
func (g *Generator) Generate(e *engine.Engine, numUsers, numItems int) error {
	bar := progressbar.DefaultSilent(int64(numUsers + numItems))
	if g.Progress {
		bar = progressbar.Default(int64(numUsers+numItems), "generating")
	}
	itemIds := make([]string, 0, numItems)
	for i := 1; i <= numItems; i++ {
		itemId := fmt.Sprintf("c%d", i)
		itemIds = append(itemIds, itemId)
		if err := g.generateItem(e, itemId); err != nil {
			return errors.Trace(err)
		}
		_ = bar.Add(1)
	}
	for i := 1; i <= numUsers; i++ {
		if err := g.generateUser(e, fmt.Sprintf("u%d", i), itemIds); err != nil {
			return errors.Trace(err)
		}
		_ = bar.Add(1)
	}
	return nil
}

func (g *Generator) generateItem(e *engine.Engine, itemId string) error {
	itemType := sampleTypes[g.rng.Intn(len(sampleTypes))]
	e.AddItem(itemId, g.faker.Lorem().Sentence(3), itemType)
	released := time.Date(1980+g.rng.Intn(44), time.Month(1+g.rng.Intn(12)), 1+g.rng.Intn(28),
		0, 0, 0, 0, time.UTC)
	return errors.Trace(e.PatchItem(itemId, data.ItemPatch{
		Description: lo.ToPtr(g.faker.Lorem().Sentence(10)),
		Genres:      g.sample(sampleGenres, 1+g.rng.Intn(3)),
		Tags:        g.sample(sampleTags, 2+g.rng.Intn(4)),
		ReleaseDate: &released,
		Duration:    lo.ToPtr(20 + g.rng.Intn(161)),
		Popularity:  lo.ToPtr(g.rng.Float64() * 10),
	}))
}

func (g *Generator) generateUser(e *engine.Engine, userId string, itemIds []string) error {
	e.AddUser(userId, g.faker.Person().Name())
	preferences := make(map[string]float64)
	for _, genre := range g.sample(sampleGenres, 2+g.rng.Intn(4)) {
		preferences[genre] = 0.3 + 0.7*g.rng.Float64()
	}
	if err := e.UpdatePreferences(userId, preferences); err != nil {
		return errors.Trace(err)
	}
	if len(itemIds) == 0 {
		return nil
	}
	numViews := 5 + g.rng.Intn(16)
	for v := 0; v < numViews; v++ {
		itemId := itemIds[g.rng.Intn(len(itemIds))]
		e.AddWatchRecord(userId, itemId, 60+g.rng.Intn(7141), 0.1+0.9*g.rng.Float64())
		// most views come with a rating
		if g.rng.Float64() > 0.3 {
			if err := e.RateItem(itemId, userId, 1+g.rng.Intn(5)); err != nil {
				return errors.Trace(err)
			}
		}
	}
	return nil
}

// sample picks n distinct values from the pool.
func (g *Generator) sample(pool []string, n int) []string {
	picked := make([]string, len(pool))
	copy(picked, pool)
	g.rng.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	return picked[:n]
}
