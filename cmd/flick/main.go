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

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gorse-io/flick/base/log"
	"github.com/gorse-io/flick/config"
	"github.com/gorse-io/flick/dataset"
	"github.com/gorse-io/flick/engine"
	"github.com/gorse-io/flick/storage/local"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCommand = &cobra.Command{
	Use:   "flick",
	Short: "In-process recommendation engine for streaming content.",
}

var sampleCommand = &cobra.Command{
	Use:   "sample",
	Short: "Generate sample users and catalog items.",
	Run: func(cmd *cobra.Command, args []string) {
		conf, e := setup(cmd)
		numUsers, _ := cmd.Flags().GetInt("users")
		numItems, _ := cmd.Flags().GetInt("items")
		seed, _ := cmd.Flags().GetInt64("seed")
		if numUsers == 0 {
			numUsers = conf.Sample.Users
		}
		if numItems == 0 {
			numItems = conf.Sample.Items
		}
		generator := dataset.NewGenerator(seed)
		generator.Progress = true
		if err := generator.Generate(e, numUsers, numItems); err != nil {
			log.Logger().Fatal("failed to generate sample data", zap.Error(err))
		}
		if err := local.NewStore(conf.DataDir).Save(e); err != nil {
			log.Logger().Fatal("failed to save data", zap.Error(err))
		}
	},
}

var recommendCommand = &cobra.Command{
	Use:   "recommend USER_ID",
	Short: "Generate recommendations for a user.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		conf, e := setup(cmd)
		loadData(conf, e)
		strategy, _ := cmd.Flags().GetString("strategy")
		limit, _ := cmd.Flags().GetInt("limit")
		if strategy == "" {
			strategy = conf.Recommend.DefaultStrategy
		}
		if limit == 0 {
			limit = conf.Recommend.DefaultCount
		}
		items, err := e.Recommend(args[0], strategy, limit)
		if err != nil {
			log.Logger().Fatal("failed to generate recommendations", zap.Error(err))
		}
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("#", "Title", "Type", "Genres", "Rating", "Popularity")
		for i, item := range items {
			_ = table.Append(strconv.Itoa(i+1), item.Title, item.Type,
				strings.Join(item.Genres, ", "),
				fmt.Sprintf("%.1f/5.0", item.AverageRating()),
				fmt.Sprintf("%.1f/10.0", item.Popularity))
		}
		_ = table.Render()
	},
}

var statsCommand = &cobra.Command{
	Use:   "stats USER_ID",
	Short: "Show a user's viewing statistics.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		conf, e := setup(cmd)
		loadData(conf, e)
		user, ok := e.GetUser(args[0])
		if !ok {
			fmt.Printf("user %s not found\n", args[0])
			os.Exit(1)
		}
		fmt.Printf("User: %s (%s)\n", user.UserId, user.Name)
		fmt.Printf("Viewing history: %d records, %d distinct titles\n",
			len(user.WatchHistory), len(user.WatchedItems()))
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Favorite Genre", "Weight")
		for _, favorite := range user.FavoriteGenres(3) {
			_ = table.Append(favorite.A, fmt.Sprintf("%.2f", favorite.B))
		}
		_ = table.Render()
	},
}

func setup(cmd *cobra.Command) (*config.Config, *engine.Engine) {
	debug, _ := cmd.Flags().GetBool("debug")
	log.SetLogger(cmd.Root().PersistentFlags(), debug)
	configPath, _ := cmd.Flags().GetString("config")
	conf, err := config.Load(configPath)
	if err != nil {
		log.Logger().Fatal("failed to load config", zap.Error(err))
	}
	if cmd.Flags().Changed("data-dir") {
		conf.DataDir, _ = cmd.Flags().GetString("data-dir")
	}
	return conf, engine.NewEngine(conf)
}

func loadData(conf *config.Config, e *engine.Engine) {
	if err := local.NewStore(conf.DataDir).Load(e); err != nil {
		log.Logger().Fatal("failed to load data", zap.Error(err))
	}
}

func init() {
	rootCommand.PersistentFlags().String("config", "", "path of config file")
	rootCommand.PersistentFlags().String("data-dir", "", "directory of data files")
	rootCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	log.AddFlags(rootCommand.PersistentFlags())
	sampleCommand.Flags().Int("users", 0, "number of users to generate")
	sampleCommand.Flags().Int("items", 0, "number of catalog items to generate")
	sampleCommand.Flags().Int64("seed", 0, "random seed")
	recommendCommand.Flags().String("strategy", "",
		fmt.Sprintf("recommendation strategy, one of [%s]", strings.Join(engine.Strategies(), ", ")))
	recommendCommand.Flags().Int("limit", 0, "maximum number of recommendations")
	rootCommand.AddCommand(sampleCommand, recommendCommand, statsCommand)
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute command", zap.Error(err))
	}
}
