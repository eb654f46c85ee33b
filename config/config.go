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
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Config is the configuration for the recommender.
type Config struct {
	DataDir   string          `mapstructure:"data_dir"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	Sample    SampleConfig    `mapstructure:"sample"`
}

type RecommendConfig struct {
	// DefaultStrategy is used when the caller names none. The strategy set
	// itself is owned by the engine, which rejects unknown names.
	DefaultStrategy string `mapstructure:"default_strategy"`
	DefaultCount    int    `mapstructure:"default_count"`
	// Neighbors is the number of most similar users consulted by
	// collaborative filtering.
	Neighbors int `mapstructure:"neighbors"`
}

type SampleConfig struct {
	Users int `mapstructure:"users"`
	Items int `mapstructure:"items"`
}

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() *Config {
	return &Config{
		DataDir: "data",
		Recommend: RecommendConfig{
			DefaultStrategy: "hybrid",
			DefaultCount:    10,
			Neighbors:       10,
		},
		Sample: SampleConfig{
			Users: 20,
			Items: 100,
		},
	}
}

// Load reads a TOML config file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	conf := GetDefaultConfig()
	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, errors.Trace(err)
		}
		if err := viper.Unmarshal(conf); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return conf, nil
}

// Validate checks the configuration.
func (config *Config) Validate() error {
	if config.DataDir == "" {
		return errors.NotValidf("empty data_dir")
	}
	if config.Recommend.DefaultCount <= 0 {
		return errors.NotValidf("recommend.default_count %d", config.Recommend.DefaultCount)
	}
	if config.Recommend.Neighbors <= 0 {
		return errors.NotValidf("recommend.neighbors %d", config.Recommend.Neighbors)
	}
	if config.Sample.Users < 0 || config.Sample.Items < 0 {
		return errors.NotValidf("negative sample sizes")
	}
	return nil
}
