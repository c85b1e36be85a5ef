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
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/ademuri/ytm-wrapped/internal/analysis"
	"github.com/ademuri/ytm-wrapped/internal/artwork"
	"github.com/ademuri/ytm-wrapped/internal/logger"
	"github.com/ademuri/ytm-wrapped/internal/store"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ytm-wrapped",
	Short: "Builds a yearly listening summary from a YouTube Music export",
	Long: `Reads a Google Takeout watch-history.json, keeps the YouTube Music plays
for one year, and reports top songs, top artists, listening hours, months and
a calendar heatmap.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := analysis.DefaultConfig()
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ytm-wrapped.yaml)")

	flags.Int("year", defaults.TargetYear, "Year to summarize")
	viper.BindPFlag("year", flags.Lookup("year"))

	flags.Float64("minutes_per_play", defaults.MinutesPerPlay, "Estimated length of one play, in minutes")
	viper.BindPFlag("minutes_per_play", flags.Lookup("minutes_per_play"))

	flags.Int("top", defaults.TopN, "Length of the top songs and top artists lists")
	viper.BindPFlag("top", flags.Lookup("top"))

	flags.String("timezone", "UTC", "IANA time zone for hours, months and calendar days")
	viper.BindPFlag("timezone", flags.Lookup("timezone"))

	flags.StringP("user", "u", "default", "Name the imported plays and saved reports are kept under")
	viper.BindPFlag("user", flags.Lookup("user"))

	flags.StringP("database", "d", "./wrapped.db", "Path to the SQLite database")
	viper.BindPFlag("database", flags.Lookup("database"))

	flags.String("log_level", "info", "Log level: debug, info, warn or error")
	viper.BindPFlag("log_level", flags.Lookup("log_level"))

	flags.String("log_format", "text", "Log format: text or json")
	viper.BindPFlag("log_format", flags.Lookup("log_format"))

	flags.String("artwork_source", "itunes", "Where to look up cover art: itunes, lastfm or none")
	viper.BindPFlag("artwork_source", flags.Lookup("artwork_source"))

	flags.String("api_key", "", "last.fm API key, for --artwork_source=lastfm")
	viper.BindPFlag("api_key", flags.Lookup("api_key"))

	flags.String("secret", "", "last.fm secret, for --artwork_source=lastfm")
	viper.BindPFlag("secret", flags.Lookup("secret"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".ytm-wrapped" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".ytm-wrapped")
	}

	// YTM_WRAPPED_API_KEY, YTM_WRAPPED_SENDGRID_API_KEY, ...
	viper.SetEnvPrefix("ytm_wrapped")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.Flags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}

// analysisConfig builds the report settings from flags, config and env.
func analysisConfig() (analysis.Config, error) {
	config := analysis.Config{
		TargetYear:     viper.GetInt("year"),
		MinutesPerPlay: viper.GetFloat64("minutes_per_play"),
		TopN:           viper.GetInt("top"),
	}
	loc, err := time.LoadLocation(viper.GetString("timezone"))
	if err != nil {
		return config, fmt.Errorf("--timezone: %w", err)
	}
	config.Location = loc
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

func newLogger() *logger.Logger {
	return logger.New(viper.GetString("log_level"), viper.GetString("log_format"))
}

func openStore() (*store.Store, error) {
	db, err := store.New(viper.GetString("database"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

func currentUser() string {
	return strings.ToLower(viper.GetString("user"))
}

func artworkOptions() artwork.Options {
	opts := artwork.DefaultOptions()
	opts.Source = viper.GetString("artwork_source")
	opts.APIKey = viper.GetString("api_key")
	opts.Secret = viper.GetString("secret")
	return opts
}
