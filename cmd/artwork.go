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
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/ytm-wrapped/internal/artwork"
	"github.com/ademuri/ytm-wrapped/internal/store"
)

var artworkCmd = &cobra.Command{
	Use:   "artwork <artist> [track]",
	Short: "Prints the cover art URL for an artist or track",
	Long:  `Looks up a picture with --artwork_source and keeps the answer in the database.`,
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		db, err := openStore()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer db.Close()

		track := ""
		if len(args) > 1 {
			track = args[1]
		}
		opts := artworkOptions()
		if base := viper.GetString("artwork_url"); base != "" {
			opts.BaseURL = base
		}
		err = printArtwork(cmd.Context(), db, opts, args[0], track, os.Stdout)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(artworkCmd)

	artworkCmd.Flags().String("artwork_url", "", "Override the artwork API base URL")
	viper.BindPFlag("artwork_url", artworkCmd.Flags().Lookup("artwork_url"))
}

func printArtwork(ctx context.Context, db *store.Store, opts artwork.Options, artist, track string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	provider, err := artwork.NewProvider(opts)
	if err != nil {
		return err
	}
	if provider == nil {
		return fmt.Errorf("artwork lookups are disabled (--artwork_source=none)")
	}
	persisted := artwork.NewPersisted(provider, db, artworkMaxAge)

	var url string
	if track == "" {
		url, err = persisted.ArtistImage(ctx, artist)
	} else {
		url, err = persisted.TrackImage(ctx, artist, track)
	}
	if err != nil {
		return fmt.Errorf("looking up artwork: %w", err)
	}
	if url == "" {
		url = artwork.FallbackImage
	}
	fmt.Fprintln(out, url)
	return nil
}
