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

package config

import (
	"strings"
	"testing"

	"github.com/juju/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	conf := GetDefaultConfig()
	assert.NoError(t, conf.Validate())
	assert.Equal(t, "data", conf.DataDir)
	assert.Equal(t, "hybrid", conf.Recommend.DefaultStrategy)
	assert.Equal(t, 10, conf.Recommend.DefaultCount)
	assert.Equal(t, 10, conf.Recommend.Neighbors)
}

func TestUnmarshal(t *testing.T) {
	text := `
data_dir = "/tmp/flick"

[recommend]
default_strategy = "popular"
default_count = 5
neighbors = 3

[sample]
users = 2
items = 7
`
	viper.SetConfigType("toml")
	err := viper.ReadConfig(strings.NewReader(text))
	assert.NoError(t, err)
	conf := GetDefaultConfig()
	err = viper.Unmarshal(conf)
	assert.NoError(t, err)
	assert.Equal(t, "/tmp/flick", conf.DataDir)
	assert.Equal(t, "popular", conf.Recommend.DefaultStrategy)
	assert.Equal(t, 5, conf.Recommend.DefaultCount)
	assert.Equal(t, 3, conf.Recommend.Neighbors)
	assert.Equal(t, 2, conf.Sample.Users)
	assert.Equal(t, 7, conf.Sample.Items)
}

func TestValidate(t *testing.T) {
	conf := GetDefaultConfig()
	conf.Recommend.DefaultCount = 0
	assert.True(t, errors.Is(conf.Validate(), errors.NotValid))

	conf = GetDefaultConfig()
	conf.Recommend.Neighbors = -1
	assert.True(t, errors.Is(conf.Validate(), errors.NotValid))

	conf = GetDefaultConfig()
	conf.DataDir = ""
	assert.True(t, errors.Is(conf.Validate(), errors.NotValid))
}
