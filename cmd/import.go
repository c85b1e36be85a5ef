/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/ytm-wrapped/internal/analysis"
	"github.com/ademuri/ytm-wrapped/internal/export"
	"github.com/ademuri/ytm-wrapped/internal/logger"
	"github.com/ademuri/ytm-wrapped/internal/store"
)

type ImportConfig struct {
	DbPath   string
	User     string
	Export   string
	Location *time.Location
}

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <watch-history.json|->",
	Short: "Stores the music plays from an export",
	Long: `Keeps every YouTube Music play from the export, for any year, in a local
SQLite database. Importing the same export twice adds nothing.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config, err := analysisConfig()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		importConfig := ImportConfig{
			DbPath:   viper.GetString("database"),
			User:     currentUser(),
			Export:   args[0],
			Location: config.Location,
		}
		if _, err := importExport(importConfig, newLogger()); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

// importExport stores the plays from config.Export and returns how many were
// new.
func importExport(config ImportConfig, log *logger.Logger) (int, error) {
	events, err := export.LoadFile(config.Export)
	if err != nil {
		return 0, err
	}

	db, err := store.New(config.DbPath)
	if err != nil {
		return 0, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := db.CreateUser(config.User); err != nil {
		return 0, fmt.Errorf("creating user: %w", err)
	}

	lastImported, err := db.GetLastImported(config.User)
	if err != nil {
		return 0, err
	}
	if !lastImported.IsZero() {
		log.WithField("last_imported", lastImported.Format("2006-01-02")).Info("Plays were imported before")
	}

	filter := analysis.NewFilter(analysis.Config{Location: config.Location})
	plays := make([]analysis.Play, 0, len(events))
	stats := analysis.FilterStats{}
	for _, ev := range events {
		ts, verdict := filter.CheckAnyYear(ev)
		stats[verdict]++
		if verdict != analysis.Accepted {
			continue
		}
		plays = append(plays, analysis.Normalize(ev, ts))
	}
	logFilterStats(log, stats)

	added, err := db.AddPlays(config.User, plays)
	if err != nil {
		return 0, fmt.Errorf("inserting plays: %w", err)
	}
	if err := db.SetLastImported(config.User, time.Now()); err != nil {
		return added, fmt.Errorf("updating user: %w", err)
	}

	log.WithFields(logrus.Fields{
		"user":  config.User,
		"plays": len(plays),
		"added": added,
	}).Info("Imported export")
	return added, nil
}
