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
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/ytm-wrapped/internal/analysis"
	"github.com/ademuri/ytm-wrapped/internal/render"
	"github.com/ademuri/ytm-wrapped/internal/store"
)

// ForgottenFlags holds the raw command line values, before date parsing.
type ForgottenFlags struct {
	MinArtist         int
	MinSong           int
	Results           int
	SortBy            string
	LastPlayedAfter   string
	LastPlayedBefore  string
	FirstPlayedAfter  string
	FirstPlayedBefore string
}

var forgottenCmd = &cobra.Command{
	Use:   "forgotten",
	Short: "Surfaces artists and songs played heavily in the past but not recently",
	Long:  `Finds music that fell out of rotation, using every imported play regardless of --year.`,
	Run: func(cmd *cobra.Command, args []string) {
		flags := ForgottenFlags{
			MinArtist:         viper.GetInt("min_artist"),
			MinSong:           viper.GetInt("min_song"),
			Results:           viper.GetInt("results"),
			SortBy:            viper.GetString("sort"),
			LastPlayedAfter:   viper.GetString("last_played_after"),
			LastPlayedBefore:  viper.GetString("last_played_before"),
			FirstPlayedAfter:  viper.GetString("first_played_after"),
			FirstPlayedBefore: viper.GetString("first_played_before"),
		}
		config, err := analysisConfig()
		if err == nil {
			var forgotten analysis.ForgottenConfig
			forgotten, err = forgottenConfig(flags, config.Location, time.Now())
			if err == nil {
				err = printForgotten(viper.GetString("database"), currentUser(), forgotten, os.Stdout)
			}
		}
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(forgottenCmd)

	defaults := analysis.DefaultForgottenConfig(time.Now())
	f := forgottenCmd.Flags()

	f.Int("min-artist", defaults.MinArtistPlays, "Minimum plays for artist inclusion")
	viper.BindPFlag("min_artist", f.Lookup("min-artist"))

	f.Int("min-song", defaults.MinSongPlays, "Minimum plays for song inclusion")
	viper.BindPFlag("min_song", f.Lookup("min-song"))

	f.Int("results", defaults.ResultsPerBand, "Max results shown per interest band")
	viper.BindPFlag("results", f.Lookup("results"))

	f.String("sort", defaults.SortBy, "Sort order: 'dormancy' or 'plays'")
	viper.BindPFlag("sort", f.Lookup("sort"))

	f.String("last_played_after", "", "Only include music last played after this date (YYYY-MM-DD)")
	viper.BindPFlag("last_played_after", f.Lookup("last_played_after"))

	f.String("last_played_before", "90d", "Only include music last played before this date (YYYY-MM-DD or relative like 90d)")
	viper.BindPFlag("last_played_before", f.Lookup("last_played_before"))

	f.String("first_played_after", "", "Only include music first played after this date (YYYY-MM-DD)")
	viper.BindPFlag("first_played_after", f.Lookup("first_played_after"))

	f.String("first_played_before", "", "Only include music first played before this date (YYYY-MM-DD)")
	viper.BindPFlag("first_played_before", f.Lookup("first_played_before"))
}

func forgottenConfig(flags ForgottenFlags, loc *time.Location, now time.Time) (analysis.ForgottenConfig, error) {
	config := analysis.DefaultForgottenConfig(now)
	config.MinArtistPlays = flags.MinArtist
	config.MinSongPlays = flags.MinSong
	config.ResultsPerBand = flags.Results
	config.SortBy = flags.SortBy
	if config.SortBy != analysis.SortByDormancy && config.SortBy != analysis.SortByPlays {
		return config, fmt.Errorf("invalid sort %q: want %q or %q", flags.SortBy, analysis.SortByDormancy, analysis.SortByPlays)
	}

	dates := []struct {
		name  string
		value string
		dest  *time.Time
	}{
		{"last_played_after", flags.LastPlayedAfter, &config.LastPlayedAfter},
		{"last_played_before", flags.LastPlayedBefore, &config.LastPlayedBefore},
		{"first_played_after", flags.FirstPlayedAfter, &config.FirstPlayedAfter},
		{"first_played_before", flags.FirstPlayedBefore, &config.FirstPlayedBefore},
	}
	for _, d := range dates {
		if d.value == "" {
			continue
		}
		pd, err := parseDatestringIn(d.value, loc, now)
		if err != nil {
			return config, fmt.Errorf("invalid %s date: %w", d.name, err)
		}
		*d.dest = pd.Date
	}
	return config, nil
}

func printForgotten(dbPath string, user string, config analysis.ForgottenConfig, out io.Writer) error {
	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	artists, songs, err := db.Forgotten(user, config, time.Now())
	if err != nil {
		return err
	}
	return render.WriteForgotten(out, artists, songs)
}
